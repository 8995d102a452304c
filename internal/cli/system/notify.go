package system

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/notifier"
	"github.com/julianstephens/routine/internal/planner"
)

// NotifyCmd delivers the reminders due at the current minute. It lets an
// external scheduler run once a minute instead of 'routine serve'.
type NotifyCmd struct {
	DryRun bool `help:"Print reminders to stdout instead of sending them."`
}

// deliverer is replaced in tests.
var deliverer notifier.Deliverer = notifier.NewTrayNotifier()

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()
	day := ctx.Today()
	minute := now.Hour()*60 + now.Minute()

	due := DueReminders(ctx, minute)
	if len(due) == 0 {
		if c.DryRun {
			fmt.Printf("No reminders due on %s at %02d:%02d\n", day.ShortName(), now.Hour(), now.Minute())
		}
		return nil
	}

	for _, spec := range due {
		if c.DryRun {
			fmt.Printf("[%s] %s: %s\n", spec.Class, spec.Title, spec.Body)
			continue
		}
		if err := deliverer.Deliver(notifier.RequestFromSpec(spec)); err != nil {
			return fmt.Errorf("failed to deliver reminder for %s: %w", spec.Title, err)
		}
	}
	return nil
}

// DueReminders returns today's planned reminders that fire at minute.
func DueReminders(ctx *cli.Context, minute int) []planner.Spec {
	day := ctx.Today()
	var due []planner.Spec
	for _, t := range ctx.Tasks.TasksForDay(day) {
		for _, spec := range planner.PlanFor(t, day, nil).Schedule {
			if spec.MinuteOffset == minute {
				due = append(due, spec)
			}
		}
	}
	return due
}
