package settings

import (
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/config"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/notifier"
	"github.com/julianstephens/routine/internal/storage"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "routine.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	ctx := cli.NewContext(store, config.Default(), notifier.NewLogService())
	if err := ctx.Load(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func TestSettingsSet(t *testing.T) {
	ctx := setupTestContext(t)

	showStreaks := false
	times := "07:30, 20:00"
	tz := "UTC"
	cmd := &SettingsSetCmd{ShowStreaks: &showStreaks, DefaultTimes: &times, Timezone: &tz}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}

	saved, err := storage.LoadSettings(ctx.Store)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ShowStreaks || saved.Timezone != tz || !slices.Equal(saved.DefaultNotificationTimes, []int{450, 1200}) {
		t.Errorf("saved settings = %+v", saved)
	}
}

func TestSettingsSetValidation(t *testing.T) {
	ctx := setupTestContext(t)

	badTZ := "Not/AZone"
	if err := (&SettingsSetCmd{Timezone: &badTZ}).Run(ctx); err == nil {
		t.Error("expected an error for an invalid timezone")
	}
	badTime := "7pm"
	if err := (&SettingsSetCmd{DefaultTimes: &badTime}).Run(ctx); err == nil {
		t.Error("expected an error for an invalid time")
	}
	tooMany := "06:00,07:00,08:00"
	if err := (&SettingsSetCmd{DefaultTimes: &tooMany}).Run(ctx); err == nil {
		t.Error("expected the free tier limit on default times")
	}
	if err := (&SettingsSetCmd{}).Run(ctx); err != nil {
		t.Errorf("no-op settings set failed: %v", err)
	}
}

func TestSettingsApply(t *testing.T) {
	ctx := setupTestContext(t)

	enabled := models.NewTaskItem("Enabled", models.NewDaySet(models.Monday), []int{600}, time.Now())
	muted := models.NewTaskItem("Muted", models.NewDaySet(models.Monday), nil, time.Now())
	for _, task := range []models.TaskItem{enabled, muted} {
		if err := ctx.Tasks.AddTask(task); err != nil {
			t.Fatal(err)
		}
	}

	times := "08:15"
	if err := (&SettingsSetCmd{DefaultTimes: &times, Apply: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	got, _ := ctx.Tasks.Get(enabled.ID)
	if !slices.Equal(got.NotificationTimes, []int{495}) {
		t.Errorf("enabled task times = %v, want [495]", got.NotificationTimes)
	}
	got, _ = ctx.Tasks.Get(muted.ID)
	if len(got.NotificationTimes) != 0 {
		t.Errorf("muted task times = %v, want none", got.NotificationTimes)
	}
}
