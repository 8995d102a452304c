package system

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/constants"
)

type PremiumStatusCmd struct{}

func (c *PremiumStatusCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Premium.IsPremium()
	if err != nil {
		return err
	}
	if ok {
		fmt.Println("✓ Premium is unlocked: no limits on tasks or reminder times")
		return nil
	}
	fmt.Println("Free tier")
	fmt.Printf("  Tasks:               %d/%d\n", len(ctx.Tasks.Tasks()), constants.MaxTasksInFree)
	fmt.Printf("  Reminders per task:  %d\n", constants.MaxNotificationTimesInFree)
	return nil
}

type PremiumUnlockCmd struct{}

func (c *PremiumUnlockCmd) Run(ctx *cli.Context) error {
	if err := ctx.Premium.Unlock(); err != nil {
		return err
	}
	fmt.Println("✓ Premium unlocked")
	return nil
}
