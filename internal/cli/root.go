package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/routine/internal/config"
	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/keyring"
	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/notifier"
	"github.com/julianstephens/routine/internal/premium"
	"github.com/julianstephens/routine/internal/reset"
	"github.com/julianstephens/routine/internal/rewards"
	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/storage/postgres"
	"github.com/julianstephens/routine/internal/storage/sqlite"
	"github.com/julianstephens/routine/internal/tasks"
	"github.com/julianstephens/routine/internal/utils"
)

// Context carries the wired application into every command.
type Context struct {
	Store      storage.Provider
	Config     *config.Config
	Tasks      *tasks.Store
	Resets     *reset.Scheduler
	Rewards    *rewards.Engine
	Premium    *premium.Manager
	Dispatcher *notifier.Dispatcher
	Settings   models.Settings
	Location   *time.Location
}

// NewContext wires the task store, reset scheduler, reward engine and premium
// flag on top of store. Reminder plans go to svc through a Dispatcher.
func NewContext(store storage.Provider, cfg *config.Config, svc notifier.Service, opts ...tasks.Option) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	dispatcher := notifier.NewDispatcher(svc)
	taskStore := tasks.New(store, dispatcher, opts...)
	return &Context{
		Store:      store,
		Config:     cfg,
		Tasks:      taskStore,
		Resets:     reset.New(store, taskStore),
		Rewards:    rewards.New(store),
		Premium:    premium.New(store),
		Dispatcher: dispatcher,
		Settings:   storage.DefaultSettings(),
		Location:   time.Local,
	}
}

// Load reads settings, tasks and pets from the opened store.
func (c *Context) Load() error {
	settings, err := storage.LoadSettings(c.Store)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if c.Config.Timezone != "" {
		settings.Timezone = c.Config.Timezone
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone, using local time", "timezone", settings.Timezone, "error", err)
		loc = time.Local
	}
	c.Settings = settings
	c.Location = loc

	if err := c.Tasks.Load(); err != nil {
		return err
	}
	return c.Rewards.Load()
}

// Now returns the current time in the configured timezone.
func (c *Context) Now() time.Time {
	return time.Now().In(c.Location)
}

// Today returns the current weekday in the configured timezone.
func (c *Context) Today() models.WeekDay {
	return models.Today(c.Now())
}

// Activation reports what an activation check changed.
type Activation struct {
	Reward rewards.Outcome
	Reset  bool
}

// Activate runs the weekly reward check and the weekly reset, then reconciles
// every reminder. The reward check goes first so it sees the completions of
// the week that just ended. A failure in one check does not skip the other.
func (c *Context) Activate(now time.Time) (Activation, error) {
	var act Activation
	outcome, rewardErr := c.Rewards.CheckWeeklyProgress(c.Tasks, now)
	act.Reward = outcome

	didReset, resetErr := c.Resets.Check(now)
	act.Reset = didReset

	c.Tasks.ReconcileAll()
	return act, errors.Join(rewardErr, resetErr)
}

// Close waits briefly for queued reminder commands and stops the dispatcher.
func (c *Context) Close() error {
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Dispatcher.Flush(flushCtx); err != nil {
		logger.Warn("Reminder queue did not drain", "error", err)
	}
	if err := c.Dispatcher.Close(); err != nil && !errors.Is(err, notifier.ErrDispatcherClosed) {
		return err
	}
	return c.Store.Close()
}

// FindTask resolves ref as a task id, a unique id prefix, or a unique title.
func (c *Context) FindTask(ref string) (models.TaskItem, error) {
	ref = strings.TrimSpace(ref)
	if t, ok := c.Tasks.Get(ref); ok {
		return t, nil
	}

	var matches []models.TaskItem
	for _, t := range c.Tasks.Tasks() {
		if len(ref) >= 4 && strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		for _, t := range c.Tasks.Tasks() {
			if strings.EqualFold(t.Title, ref) {
				matches = append(matches, t)
			}
		}
	}

	switch len(matches) {
	case 0:
		return models.TaskItem{}, fmt.Errorf("%w: %s", tasks.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.TaskItem{}, fmt.Errorf("%q matches %d tasks, use the task ID", ref, len(matches))
	}
}

// ParseDay resolves "today" or a weekday name.
func (c *Context) ParseDay(s string) (models.WeekDay, error) {
	if s == "" || strings.EqualFold(s, "today") {
		return c.Today(), nil
	}
	return models.ParseWeekDay(s)
}

// OpenProvider selects the storage backend for target: a PostgreSQL URL or
// DSN, "postgres" to read the connection string from the environment or the
// keyring, a .db/.sqlite file, or a JSON file.
func OpenProvider(target string) (storage.Provider, error) {
	switch {
	case target == "postgres" || target == "postgresql":
		connStr, src, err := keyring.ResolveConnectionString("")
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no PostgreSQL connection string found; set %s or run 'routine keyring set'", constants.EnvDBConnection)
			}
			return nil, err
		}
		logger.Debug("Using PostgreSQL connection string", "source", src)
		return postgres.New(connStr), nil
	case postgres.IsConnString(target) || strings.Contains(target, "host="):
		if err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded passwords are not allowed; store it with 'routine keyring set' or export %s", constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(target), nil
	}

	path, err := ExpandPath(target)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return sqlite.NewStore(path), nil
	default:
		return storage.NewJSONStore(path), nil
	}
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir returns the directory for logs and routine.yml.
func ConfigDir(store storage.Provider) string {
	if _, ok := store.(*postgres.Store); !ok {
		return filepath.Dir(store.GetConfigPath())
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, constants.AppName)
}
