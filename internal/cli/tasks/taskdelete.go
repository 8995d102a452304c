package tasks

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routine/internal/cli"
)

type TaskDeleteCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title."`
	Day  string `arg:"" optional:"" help:"Only remove this weekday from the task."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}

	if c.Day == "" {
		if err := ctx.Tasks.RemoveTask(task.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted task: %s\n", task.Title)
		return nil
	}

	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}
	if err := ctx.Tasks.DeleteTask(task.ID, day); err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", day, task.Title, err)
	}

	if _, ok := ctx.Tasks.Get(task.ID); ok {
		fmt.Printf("Removed %s from task: %s\n", day.ShortName(), task.Title)
	} else {
		fmt.Printf("Deleted task: %s (it had no other days)\n", task.Title)
	}
	return nil
}

type TaskClearCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TaskClearCmd) Run(ctx *cli.Context) error {
	count := len(ctx.Tasks.Tasks())
	if count == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d tasks?", count)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			WithTheme(huh.ThemeDracula()).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := ctx.Tasks.RemoveAllTasks(); err != nil {
		return err
	}
	fmt.Printf("Deleted %d tasks\n", count)
	return nil
}
