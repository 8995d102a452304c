package sqlite

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/routine/internal/migration"
	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) (storage.Provider, func() storage.Provider) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "routine.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	reopen := func() storage.Provider {
		again := NewStore(dbPath)
		if err := again.Load(); err != nil {
			t.Fatalf("failed to load store: %v", err)
		}
		t.Cleanup(func() { again.Close() })
		return again
	}
	return store, reopen
}

func TestSQLiteStoreProvider(t *testing.T) {
	storagetest.Run(t, setupTestStore)
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "routine init") {
		t.Errorf("Load() error = %v, want a hint to run init", err)
	}
}

func TestInitIsRepeatable(t *testing.T) {
	p, _ := setupTestStore(t)
	if err := p.Set("tasks", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := p.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if _, err := p.Get("tasks"); err != nil {
		t.Errorf("data lost after second Init(): %v", err)
	}
}

func TestLoadRejectsNewerSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "routine.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	again := NewStore(dbPath)
	defer again.Close()
	if err := again.Load(); !errors.Is(err, migration.ErrSchemaTooNew) {
		t.Errorf("Load() error = %v, want a schema version error", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "routine.db"))
	if _, _, err := store.SchemaVersion(); err == nil {
		t.Error("SchemaVersion() succeeded on a closed store")
	}
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if current != latest || latest < 2 {
		t.Errorf("SchemaVersion() = %d, %d", current, latest)
	}
}
