package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/config"
	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/notifier"
	"github.com/julianstephens/routine/internal/planner"
	"github.com/julianstephens/routine/internal/tasks"
)

var serveLog = logger.For("serve")

// ServeCmd keeps reminders registered on a local cron clock and re-reads the
// storage periodically so changes made by other commands take effect.
type ServeCmd struct {
	Reminders string        `help:"Reminder delivery (tray|log). Defaults to the config file."`
	Reload    time.Duration `help:"How often to re-read tasks from storage. Defaults to the config file."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	backend := ctx.Config.Serve.Reminders
	if c.Reminders != "" {
		backend = c.Reminders
	}
	if backend != config.BackendTray && backend != config.BackendLog {
		return fmt.Errorf("unknown reminder delivery %q (expected tray or log)", backend)
	}
	reload := ctx.Config.Serve.ReloadInterval
	if c.Reload > 0 {
		reload = c.Reload
	}

	var deliverer notifier.Deliverer = notifier.NewTrayNotifier()
	if backend == config.BackendLog {
		deliverer = notifier.DeliverFunc(func(req notifier.Request) error {
			serveLog.Info("Reminder", "title", req.Title, "body", req.Body, "class", req.Class)
			return nil
		})
	}

	svc := notifier.NewCronService(ctx.Location, deliverer)
	app := cli.NewContext(ctx.Store, ctx.Config, svc, tasks.WithLedger(planner.NewLedger()))
	defer app.Dispatcher.Close()
	if err := app.Load(); err != nil {
		return err
	}

	srv := &reminderServer{app: app}
	srv.activate()
	if err := svc.AddJob(ctx.Config.Serve.CheckSpec, srv.activate); err != nil {
		return fmt.Errorf("invalid check spec %q: %w", ctx.Config.Serve.CheckSpec, err)
	}
	if err := svc.AddJob(fmt.Sprintf("@every %s", reload), srv.refresh); err != nil {
		return fmt.Errorf("invalid reload interval %s: %w", reload, err)
	}

	svc.Start()
	defer svc.Stop()

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = app.Dispatcher.Flush(flushCtx)
	cancel()

	fmt.Printf("Serving %d reminders (%s delivery). Press Ctrl+C to stop.\n", svc.Len(), backend)
	serveLog.Info("Reminder server started", "reminders", svc.Len(), "backend", backend, "reload", reload)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	serveLog.Info("Reminder server stopping")
	return nil
}

// reminderServer runs the periodic jobs of serve. mu serializes every access
// to the task store, reset scheduler and reward engine.
type reminderServer struct {
	mu  sync.Mutex
	app *cli.Context
}

// reload re-reads the storage so writes made by other commands are seen and
// never overwritten from a stale copy.
func (s *reminderServer) reload() error {
	if err := s.app.Store.Load(); err != nil {
		return fmt.Errorf("failed to reload storage: %w", err)
	}
	return s.app.Load()
}

func (s *reminderServer) activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(); err != nil {
		serveLog.Error("Skipping activation check", "error", err)
		return
	}
	act, err := s.app.Activate(s.app.Now())
	if err != nil {
		serveLog.Error("Activation check failed", "error", err)
	}
	if act.Reset || act.Reward.Granted != nil {
		serveLog.Info("Activation check applied", "reset", act.Reset, "reward", act.Reward.Granted != nil)
	}
}

func (s *reminderServer) refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(); err != nil {
		serveLog.Warn("Failed to reload storage", "error", err)
		return
	}
	s.app.Tasks.ReconcileAll()
}
