package system

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/routine/internal/backup"
	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/utils"
)

// errWarning marks a finding that is reported but does not fail the run.
type errWarning struct{ msg string }

func (w errWarning) Error() string { return w.msg }

func warnf(format string, args ...any) error {
	return errWarning{msg: fmt.Sprintf(format, args...)}
}

type check struct {
	name string
	run  func(*cli.Context) error
}

var checks = []check{
	{"Storage reachable", checkStorageReachable},
	{"Schema version", checkSchema},
	{"Backups present", checkBackups},
	{"Task data", checkTasks},
	{"Timezone", checkTimezone},
}

// DoctorCmd runs health checks against the storage and the stored data.
type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	failed := 0
	for _, chk := range checks {
		err := chk.run(ctx)
		var warn errWarning
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", chk.name)
		case errors.As(err, &warn):
			fmt.Printf("⚠ %s: WARNING\n   %v\n", chk.name, err)
		default:
			fmt.Printf("❌ %s: FAIL\n   Error: %v\n", chk.name, err)
			failed++
		}
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d health checks failed", failed)
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	return nil
}

func checkSchema(ctx *cli.Context) error {
	reporter, ok := ctx.Store.(storage.SchemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := reporter.SchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d", current, latest)
	}
	return nil
}

func checkBackups(ctx *cli.Context) error {
	mgr, err := backup.NewManager(ctx.Store.GetConfigPath())
	if errors.Is(err, backup.ErrUnsupported) {
		return nil
	}
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return warnf("no backups found, create one with 'routine backup create'")
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return warnf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

// checkTasks fails on tasks that break the model rules and warns about
// duplicate titles, which make title lookups ambiguous.
func checkTasks(ctx *cli.Context) error {
	var problems, notes []string
	titles := make(map[string]int)
	for _, t := range ctx.Tasks.Tasks() {
		if err := t.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", t.ID, err))
		}
		if t.NotificationEnabled && len(t.NotificationTimes) == 0 {
			notes = append(notes, fmt.Sprintf("%q has reminders on but no times", t.Title))
		}
		titles[strings.ToLower(t.Title)]++
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}

	for title, n := range titles {
		if n > 1 {
			notes = append(notes, fmt.Sprintf("%d tasks are titled %q", n, title))
		}
	}
	if len(notes) > 0 {
		slices.Sort(notes)
		return warnf("%s", strings.Join(notes, "; "))
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	if _, err := utils.LoadLocation(ctx.Settings.Timezone); err != nil {
		return fmt.Errorf("timezone %q cannot be loaded: %w", ctx.Settings.Timezone, err)
	}
	if now := time.Now(); now.Year() < 2020 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
