package tasks

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/utils"
)

type TaskEditCmd struct {
	Task  string  `arg:"" help:"Task ID, ID prefix or title."`
	Title *string `help:"New title."`
	Days  *string `short:"d" help:"Replace the weekdays (comma-separated)."`
	Times *string `short:"t" help:"Replace the reminder times (comma-separated HH:MM, empty for none)."`
	Flag  *string `short:"f" help:"Replace the important days (comma-separated, empty for none)."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}

	updated := task.Clone()
	changed := false

	if c.Title != nil {
		updated.Title = *c.Title
		changed = true
	}
	if c.Days != nil {
		days, err := utils.ParseWeekDays(*c.Days)
		if err != nil {
			return err
		}
		updated.WeekDays = days
		changed = true
	}
	if c.Times != nil {
		times, err := utils.ParseTimesToMinutes(*c.Times)
		if err != nil {
			return err
		}
		if err := checkTimeLimit(ctx, len(models.NormalizeTimes(times))); err != nil {
			return err
		}
		updated.NotificationTimes = times
		changed = true
	}
	if c.Flag != nil {
		var flagged models.DaySet
		if *c.Flag != "" {
			if flagged, err = utils.ParseWeekDays(*c.Flag); err != nil {
				return err
			}
		}
		updated.FlaggedDays = flagged
		changed = true
	}

	if !changed {
		fmt.Println("No changes specified.")
		return nil
	}

	updated.Normalize()
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}
	if err := ctx.Tasks.UpdateTask(updated); err != nil {
		return err
	}

	fmt.Printf("Updated task: %s on %s\n", updated.Title, cli.DayList(updated.WeekDays))
	return nil
}
