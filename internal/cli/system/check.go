package system

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
)

// CheckCmd runs the activation checks: the weekly reward evaluation, the
// weekly completion reset and a full reminder reconciliation.
type CheckCmd struct{}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	act, err := ctx.Activate(ctx.Now())
	if err != nil {
		return err
	}
	report(act)
	return nil
}

func report(act cli.Activation) {
	if act.Reward.Evaluated {
		fmt.Printf("Last week: %.0f%% complete\n", act.Reward.Rate*100)
		if act.Reward.Granted != nil {
			p := act.Reward.Granted
			fmt.Printf("🎉 New pet: %s %s %s\n", p.Type.Emoji(), p.DisplayName(), p.Type.Rarity().Badge())
		}
	}
	if act.Reset {
		fmt.Println("New week started, completions were reset")
	}
	if !act.Reward.Evaluated && !act.Reset {
		fmt.Println("Nothing to do this week")
	}
}
