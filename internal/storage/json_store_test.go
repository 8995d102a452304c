package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/storage/storagetest"
)

func openJSONStore(t *testing.T) (storage.Provider, func() storage.Provider) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "routine.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	reopen := func() storage.Provider {
		again := storage.NewJSONStore(path)
		if err := again.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		return again
	}
	return store, reopen
}

func TestJSONStoreProvider(t *testing.T) {
	storagetest.Run(t, openJSONStore)
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "routine init") {
		t.Errorf("Load() error = %v, want a hint to run init", err)
	}
	if _, err := store.Get("tasks"); err == nil {
		t.Error("Get() on an unloaded store succeeded")
	}
}

func TestJSONStoreInitKeepsExistingData(t *testing.T) {
	p, _ := openJSONStore(t)
	if err := p.Set("tasks", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}

	again := storage.NewJSONStore(p.GetConfigPath())
	if err := again.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := again.Get("tasks"); err != nil {
		t.Errorf("Init() dropped existing data: %v", err)
	}
}

func TestJSONStoreRejectsInvalidJSON(t *testing.T) {
	p, _ := openJSONStore(t)
	if err := p.Set("tasks", []byte(`{broken`)); err == nil {
		t.Error("Set() accepted invalid JSON")
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routine.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := storage.NewJSONStore(path).Load(); err == nil {
		t.Error("Load() accepted a corrupt file")
	}
}

func TestJSONStoreFilePermissions(t *testing.T) {
	p, _ := openJSONStore(t)
	info, err := os.Stat(p.GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}
