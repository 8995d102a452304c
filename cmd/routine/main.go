package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/cli/pets"
	"github.com/julianstephens/routine/internal/cli/settings"
	"github.com/julianstephens/routine/internal/cli/system"
	"github.com/julianstephens/routine/internal/cli/tasks"
	"github.com/julianstephens/routine/internal/cli/week"
	"github.com/julianstephens/routine/internal/config"
	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/errors"
	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/notifier"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string `help:"Storage location: a .json or .db file, a PostgreSQL connection string without password, or 'postgres' to use ROUTINE_DB_CONNECTION or the OS keyring." type:"string"`
	SettingsFile string `help:"Path to routine.yml." name:"settings-file" type:"path"`
	Debug        bool   `help:"Log debug output to stderr."`

	Init   system.InitCmd   `cmd:"" help:"Initialize routine storage."`
	Check  system.CheckCmd  `cmd:"" help:"Run the weekly reset and reward check."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks on storage and data."`
	Serve  system.ServeCmd  `cmd:"" help:"Run the reminder server."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Deliver reminders due this minute (used by external schedulers)."`
	Day    week.DayCmd      `cmd:"" help:"Show the tasks for a day." default:"withargs"`
	Week   week.WeekCmd     `cmd:"" help:"Show the tasks for the week."`
	Task   struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a new task."`
		Edit   tasks.TaskEditCmd   `cmd:"" help:"Edit an existing task."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task or remove one of its days."`
		List   tasks.TaskListCmd   `cmd:"" help:"List all tasks."`
		Done   tasks.TaskDoneCmd   `cmd:"" help:"Toggle completion for a day."`
		Flag   tasks.TaskFlagCmd   `cmd:"" help:"Toggle the important mark for a day."`
		Notify tasks.TaskNotifyCmd `cmd:"" help:"Turn a task's reminders on or off."`
		Time   struct {
			Add    tasks.TaskTimeAddCmd    `cmd:"" help:"Add a reminder time."`
			Update tasks.TaskTimeUpdateCmd `cmd:"" help:"Move a reminder time."`
			Remove tasks.TaskTimeRemoveCmd `cmd:"" help:"Remove a reminder time."`
		} `cmd:"" help:"Manage reminder times."`
		Clear tasks.TaskClearCmd `cmd:"" help:"Delete every task."`
	} `cmd:"" help:"Manage tasks."`
	Pets struct {
		List  pets.PetsListCmd  `cmd:"" help:"List your pets." default:"1"`
		Add   pets.PetsAddCmd   `cmd:"" help:"Add a pet."`
		Clear pets.PetsClearCmd `cmd:"" help:"Remove every pet."`
	} `cmd:"" help:"Manage reward pets."`
	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Change settings."`
	} `cmd:"" help:"Manage application settings."`
	Premium struct {
		Status system.PremiumStatusCmd `cmd:"" help:"Show the premium status." default:"1"`
		Unlock system.PremiumUnlockCmd `cmd:"" help:"Unlock premium."`
	} `cmd:"" help:"Manage premium."`
	Backup struct {
		Create  system.BackupCreateCmd  `cmd:"" help:"Snapshot the storage file."`
		List    system.BackupListCmd    `cmd:"" help:"List storage snapshots." default:"1"`
		Restore system.BackupRestoreCmd `cmd:"" help:"Restore the storage file from a snapshot."`
	} `cmd:"" help:"Back up and restore file storage."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the connection string from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check the OS keyring."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly routines with reminders, streaks and pets"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	settingsFile := CLI.SettingsFile
	if settingsFile == "" {
		dir, err := cli.ExpandPath("~/.config/" + constants.AppName)
		errors.Fatal(err)
		settingsFile = config.Path(dir)
	}
	cfg, err := config.LoadOptional(settingsFile)
	errors.Fatal(err)

	target := CLI.Config
	if target == "" {
		target = cfg.Storage
	}
	if target == "" {
		target = constants.DefaultConfigPath
	}

	store, err := cli.OpenProvider(target)
	errors.Fatal(err)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		Level:     cfg.LogLevel,
		ConfigDir: cli.ConfigDir(store),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := cli.NewContext(store, cfg, notifier.NewLogService())

	command := ctx.Command()
	standalone := strings.HasPrefix(command, "init") ||
		strings.HasPrefix(command, "keyring") ||
		strings.HasPrefix(command, "backup")
	if !standalone {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		if err := appCtx.Load(); err != nil {
			errors.Fatal(err)
		}
		// check reports its own outcome and serve activates on its own clock
		if !strings.HasPrefix(command, "check") && !strings.HasPrefix(command, "serve") {
			if _, err := appCtx.Activate(appCtx.Now()); err != nil {
				logger.Warn("Activation check failed", "error", err)
			}
		}
	}

	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}
