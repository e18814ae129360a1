package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range files {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func TestCurrentVersionFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(nil))

	version, err := runner.CurrentVersion(context.Background())
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name         string
		files        map[string]string
		wantVersions []int
		wantErr      bool
	}{
		{
			name: "ordered by version",
			files: map[string]string{
				"002_second.sql": "SELECT 2;",
				"001_first.sql":  "SELECT 1;",
				"010_tenth.sql":  "SELECT 10;",
				"README.md":      "ignored",
			},
			wantVersions: []int{1, 2, 10},
		},
		{
			name:    "duplicate version",
			files:   map[string]string{"001_a.sql": "", "1_b.sql": ""},
			wantErr: true,
		},
		{
			name:    "missing separator",
			files:   map[string]string{"001.sql": ""},
			wantErr: true,
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": ""},
			wantErr: true,
		},
		{
			name:    "non numeric version",
			files:   map[string]string{"abc_init.sql": ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, migrationFS(tt.files))
			got, err := runner.Migrations()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Migrations() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.wantVersions) {
				t.Fatalf("got %d migrations, want %d", len(got), len(tt.wantVersions))
			}
			for i, v := range tt.wantVersions {
				if got[i].Version != v {
					t.Errorf("migration %d version = %d, want %d", i, got[i].Version, v)
				}
			}
		})
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	files := map[string]string{
		"001_people.sql": "CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT);",
		"002_pets.sql":   "CREATE TABLE pets (id INTEGER PRIMARY KEY); INSERT INTO pets (id) VALUES (1);",
	}
	runner := NewRunner(db, migrationFS(files))

	var lines []string
	applied, err := runner.Apply(ctx, func(s string) { lines = append(lines, s) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if len(lines) == 0 {
		t.Error("expected progress output")
	}

	version, _ := runner.CurrentVersion(ctx)
	if version != 2 {
		t.Errorf("version after Apply = %d, want 2", version)
	}

	var pets int
	if err := db.QueryRow("SELECT count(*) FROM pets").Scan(&pets); err != nil || pets != 1 {
		t.Errorf("pets table not populated: count=%d err=%v", pets, err)
	}

	// Second run is a no-op
	applied, err = runner.Apply(ctx, nil)
	if err != nil || applied != 0 {
		t.Errorf("second Apply = %d, %v; want 0, nil", applied, err)
	}

	status, err := runner.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	for _, s := range status {
		if !s.Applied {
			t.Errorf("migration %d should be applied", s.Version)
		}
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	files := map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER); THIS IS NOT SQL;",
	}
	runner := NewRunner(db, migrationFS(files))

	applied, err := runner.Apply(ctx, nil)
	if err == nil {
		t.Fatal("expected Apply to fail on the broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}

	version, _ := runner.CurrentVersion(ctx)
	if version != 1 {
		t.Errorf("version = %d, want 1 after failed second migration", version)
	}

	var count int
	_ = db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name='broken'").Scan(&count)
	if count != 0 {
		t.Error("broken migration should have been rolled back")
	}
}

func TestValidateNewerSchema(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	runner := NewRunner(db, migrationFS(map[string]string{"001_init.sql": "CREATE TABLE t (id INTEGER);"}))
	if _, err := runner.Apply(ctx, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 5"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}

	err := runner.Validate(ctx)
	if !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Validate() = %v, want ErrSchemaTooNew", err)
	}
	if _, err := runner.Apply(ctx, nil); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Apply() = %v, want ErrSchemaTooNew", err)
	}
}

func TestApplyUsesDollarPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	files := map[string]string{"001_init.sql": "CREATE TABLE t (id INTEGER);"}
	runner := NewRunner(db, migrationFS(files), WithPlaceholder(DollarPlaceholder))

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_version")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_version")).WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE t")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schema_version")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_version (version) VALUES ($1)")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	applied, err := runner.Apply(context.Background(), nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
