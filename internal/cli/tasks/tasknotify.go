package tasks

import (
	"fmt"
	"slices"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/utils"
)

type TaskNotifyCmd struct {
	Task  string `arg:"" help:"Task ID, ID prefix or title."`
	State string `arg:"" enum:"on,off" help:"Turn reminders on or off (on|off)."`
}

func (c *TaskNotifyCmd) Run(ctx *cli.Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}
	enabled := c.State == "on"
	if err := ctx.Tasks.SetNotificationEnabled(task.ID, enabled); err != nil {
		return err
	}
	if enabled && len(task.NotificationTimes) == 0 {
		fmt.Printf("Reminders enabled for %s, but it has no times yet; add one with 'routine task time add'\n", task.Title)
		return nil
	}
	fmt.Printf("Reminders %s for %s\n", c.State, task.Title)
	return nil
}

type TaskTimeAddCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title."`
	Time string `arg:"" help:"Reminder time (HH:MM)."`
}

func (c *TaskTimeAddCmd) Run(ctx *cli.Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}
	minute, err := utils.ParseTimeToMinutes(c.Time)
	if err != nil {
		return err
	}
	if !slices.Contains(task.NotificationTimes, minute) {
		if err := checkTimeLimit(ctx, len(task.NotificationTimes)+1); err != nil {
			return err
		}
	}
	if err := ctx.Tasks.AddNotificationTime(task.ID, minute); err != nil {
		return err
	}
	updated, _ := ctx.Tasks.Get(task.ID)
	fmt.Printf("Reminders for %s: %s\n", updated.Title, utils.FormatMinutesList(updated.NotificationTimes))
	return nil
}

type TaskTimeUpdateCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title."`
	Old  string `arg:"" help:"Existing reminder time (HH:MM)."`
	New  string `arg:"" help:"Replacement reminder time (HH:MM)."`
}

func (c *TaskTimeUpdateCmd) Run(ctx *cli.Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}
	oldMinute, err := utils.ParseTimeToMinutes(c.Old)
	if err != nil {
		return err
	}
	newMinute, err := utils.ParseTimeToMinutes(c.New)
	if err != nil {
		return err
	}
	if err := ctx.Tasks.UpdateNotificationTime(task.ID, oldMinute, newMinute); err != nil {
		return fmt.Errorf("failed to move %s reminder: %w", c.Old, err)
	}
	updated, _ := ctx.Tasks.Get(task.ID)
	fmt.Printf("Reminders for %s: %s\n", updated.Title, utils.FormatMinutesList(updated.NotificationTimes))
	return nil
}

type TaskTimeRemoveCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title."`
	Time string `arg:"" help:"Reminder time to remove (HH:MM)."`
}

func (c *TaskTimeRemoveCmd) Run(ctx *cli.Context) error {
	task, err := ctx.FindTask(c.Task)
	if err != nil {
		return err
	}
	minute, err := utils.ParseTimeToMinutes(c.Time)
	if err != nil {
		return err
	}
	if err := ctx.Tasks.RemoveNotificationTime(task.ID, minute); err != nil {
		return fmt.Errorf("failed to remove %s reminder: %w", c.Time, err)
	}
	updated, _ := ctx.Tasks.Get(task.ID)
	if len(updated.NotificationTimes) == 0 {
		fmt.Printf("%s has no reminders left\n", updated.Title)
		return nil
	}
	fmt.Printf("Reminders for %s: %s\n", updated.Title, utils.FormatMinutesList(updated.NotificationTimes))
	return nil
}
