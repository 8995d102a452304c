package tasks

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
)

type TaskDoneCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title."`
	Day  string `arg:"" optional:"" help:"Weekday to toggle." default:"today"`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}

	if err := ctx.Tasks.ToggleCompletion(task.ID, day); err != nil {
		return fmt.Errorf("failed to toggle %s on %s: %w", task.Title, day, err)
	}

	updated, _ := ctx.Tasks.Get(task.ID)
	if updated.IsCompleted(day) {
		fmt.Printf("✓ %s done for %s (streak %s %d)\n", updated.Title, day.ShortName(), updated.StreakTier().Emoji(), updated.Streak)
	} else {
		fmt.Printf("%s marked not done for %s\n", updated.Title, day.ShortName())
	}
	return nil
}

type TaskFlagCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title."`
	Day  string `arg:"" optional:"" help:"Weekday to toggle." default:"today"`
}

func (c *TaskFlagCmd) Run(ctx *cli.Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}

	if err := ctx.Tasks.ToggleFlag(task.ID, day); err != nil {
		return fmt.Errorf("failed to flag %s on %s: %w", task.Title, day, err)
	}

	updated, _ := ctx.Tasks.Get(task.ID)
	if updated.IsFlagged(day) {
		fmt.Printf("%s %s is important on %s\n", cli.FlagStyle.Render("!"), updated.Title, day.ShortName())
	} else {
		fmt.Printf("%s is no longer important on %s\n", updated.Title, day.ShortName())
	}
	return nil
}
