package migration

import (
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/routine/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestStatusFreshDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationFS(map[string]string{
		"001_kv.sql":    "CREATE TABLE kv (key TEXT PRIMARY KEY);",
		"002_index.sql": "CREATE INDEX kv_key ON kv (key);",
	}))

	st, err := runner.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st.Current != 0 || st.Latest != 2 || len(st.Pending) != 2 || st.UpToDate() {
		t.Errorf("Status() = %+v", st)
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		wantNames []string
		wantErr   string
	}{
		{
			name: "sorted by version",
			files: map[string]string{
				"010_third.sql":  "SELECT 1;",
				"002_second.sql": "SELECT 1;",
				"001_first.sql":  "SELECT 1;",
				"README.md":      "ignored",
			},
			wantNames: []string{"first", "second", "third"},
		},
		{
			name:      "name keeps underscores",
			files:     map[string]string{"001_kv_updated_index.sql": "SELECT 1;"},
			wantNames: []string{"kv_updated_index"},
		},
		{
			name:    "missing name",
			files:   map[string]string{"001.sql": "SELECT 1;"},
			wantErr: "invalid migration filename",
		},
		{
			name:    "non-numeric version",
			files:   map[string]string{"abc_init.sql": "SELECT 1;"},
			wantErr: "invalid version number",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": "SELECT 1;"},
			wantErr: "must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_a.sql": "SELECT 1;",
				"1_b.sql":   "SELECT 1;",
			},
			wantErr: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), migrationFS(tt.files))
			got, err := runner.Migrations()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Migrations() error = %v", err)
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("expected %d migrations, got %d", len(tt.wantNames), len(got))
			}
			for i, m := range got {
				if m.Name != tt.wantNames[i] {
					t.Errorf("migration %d: name = %q, want %q", i, m.Name, tt.wantNames[i])
				}
			}
		})
	}
}

func TestApply(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_create_items.sql": "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT);",
		"002_add_column.sql":   "ALTER TABLE items ADD COLUMN done INTEGER DEFAULT 0;",
	}))

	applied, err := runner.Apply()
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("applied %d migrations, want 2", applied)
	}

	st, err := runner.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st.Current != 2 || !st.UpToDate() || len(st.Pending) != 0 {
		t.Errorf("Status() after Apply = %+v", st)
	}
	if _, err := db.Exec("INSERT INTO items (name, done) VALUES ('x', 1)"); err != nil {
		t.Errorf("schema not applied: %v", err)
	}

	applied, err = runner.Apply()
	if err != nil || applied != 0 {
		t.Errorf("second Apply() = %d, %v", applied, err)
	}
}

func TestApplyRollsBackFailure(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER;",
	}))

	applied, err := runner.Apply()
	if err == nil {
		t.Fatal("expected an error from the broken migration")
	}
	if applied != 1 {
		t.Errorf("applied %d migrations before the failure, want 1", applied)
	}
	version, _ := runner.CurrentVersion()
	if version != 1 {
		t.Errorf("version after rollback = %d, want 1", version)
	}
}

func TestValidateNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE a (id INTEGER);",
	}))
	if err := runner.EnsureSchemaVersionTable(); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (9)"); err != nil {
		t.Fatal(err)
	}

	if err := runner.Validate(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Validate() = %v, want %v", err, ErrSchemaTooNew)
	}
	if _, err := runner.Apply(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Apply() = %v, want %v", err, ErrSchemaTooNew)
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(setupTestDB(t), sub)

	if _, err := runner.Apply(); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	st, err := runner.Status()
	if err != nil {
		t.Fatal(err)
	}
	if !st.UpToDate() || st.Latest < 2 {
		t.Errorf("Status() = %+v", st)
	}
}
