package system

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/config"
	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/notifier"
	"github.com/julianstephens/routine/internal/planner"
	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/tasks"
)

// openJSON opens a second handle on the storage file, as another routine
// command would while serve is running.
func openJSON(t *testing.T, path string) *cli.Context {
	t.Helper()
	store := storage.NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Timezone = "UTC"
	ctx := cli.NewContext(store, cfg, notifier.NewLogService())
	if err := ctx.Load(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func TestServePicksUpWritesFromOtherCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routine.json")
	ctx := newContext(t, path)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	app := cli.NewContext(ctx.Store, ctx.Config, notifier.NewLogService(), tasks.WithLedger(planner.NewLedger()))
	t.Cleanup(func() { app.Dispatcher.Close() })
	if err := app.Load(); err != nil {
		t.Fatal(err)
	}
	srv := &reminderServer{app: app}
	srv.activate()

	other := openJSON(t, path)
	stretch := models.NewTaskItem("Stretch", models.NewDaySet(models.Monday), []int{540}, time.Now())
	if err := other.Tasks.AddTask(stretch); err != nil {
		t.Fatal(err)
	}

	srv.refresh()
	if _, ok := app.Tasks.Get(stretch.ID); !ok {
		t.Fatal("refresh did not pick up a task written by another command")
	}

	// A new week is due and another command completes a task in the meantime.
	read := models.NewTaskItem("Read", models.NewDaySet(models.Monday), nil, time.Now())
	if err := other.Tasks.AddTask(read); err != nil {
		t.Fatal(err)
	}
	if err := other.Tasks.ToggleCompletion(read.ID, models.Monday); err != nil {
		t.Fatal(err)
	}
	if err := other.Store.Delete(constants.KeyLastResetAt); err != nil {
		t.Fatal(err)
	}

	srv.activate()

	disk := openJSON(t, path)
	for _, id := range []string{stretch.ID, read.ID} {
		if _, ok := disk.Tasks.Get(id); !ok {
			t.Errorf("task %s was lost when serve activated", id)
		}
	}
	if got, _ := disk.Tasks.Get(read.ID); got.IsCompleted(models.Monday) {
		t.Error("activation did not reset the freshly read completions")
	}
}
