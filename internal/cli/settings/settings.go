package settings

import (
	"fmt"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/utils"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	s := ctx.Settings
	fmt.Println("Current Settings:")
	fmt.Printf("  Show Streaks:           %v\n", s.ShowStreaks)
	fmt.Printf("  Default Reminder Times: %s\n", utils.FormatMinutesList(s.DefaultNotificationTimes))
	fmt.Printf("  Timezone:               %s\n", s.Timezone)
	fmt.Printf("  Storage:                %s\n", ctx.Store.GetConfigPath())

	if last, ok, err := ctx.Resets.LastReset(); err == nil && ok {
		fmt.Printf("  Last Weekly Reset:      %s\n", last.In(ctx.Location).Format("2006-01-02 15:04"))
	}
	if last, ok, err := ctx.Rewards.LastCheck(); err == nil && ok {
		fmt.Printf("  Last Reward Check:      %s\n", last.In(ctx.Location).Format("2006-01-02 15:04"))
	}
	return nil
}

type SettingsSetCmd struct {
	ShowStreaks  *bool   `help:"Show streak counters in listings."`
	DefaultTimes *string `help:"Default reminder times for new tasks (comma-separated HH:MM)."`
	Timezone     *string `help:"IANA timezone used for days and reminders (or 'Local')."`
	Apply        bool    `help:"Also replace the reminder times of every task that has reminders enabled."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings := ctx.Settings
	updated := false

	if c.ShowStreaks != nil {
		settings.ShowStreaks = *c.ShowStreaks
		updated = true
	}
	if c.DefaultTimes != nil {
		times, err := utils.ParseTimesToMinutes(*c.DefaultTimes)
		if err != nil {
			return err
		}
		if n := len(models.NormalizeTimes(times)); n > 0 {
			ok, err := ctx.Premium.CanAddMoreNotificationTimes(n - 1)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("the free tier allows %d reminder times per task", constants.MaxNotificationTimesInFree)
			}
		}
		settings.DefaultNotificationTimes = times
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated && !c.Apply {
		fmt.Println("No changes specified. Use 'routine settings show' to view settings or flags to update them.")
		return nil
	}

	if updated {
		if err := storage.SaveSettings(ctx.Store, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Settings = settings
		fmt.Println("Settings updated successfully.")
	}

	if c.Apply {
		if err := ctx.Tasks.ApplyDefaultNotificationTimes(settings.DefaultNotificationTimes); err != nil {
			return err
		}
		fmt.Printf("Applied %s to every task with reminders\n", utils.FormatMinutesList(settings.DefaultNotificationTimes))
	}
	return nil
}
