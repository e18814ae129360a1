package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (string, *sqlite.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "carelog.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return dbPath, store
}

// fixedClock returns a clock that advances one second per call
func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath, store := setupTestDB(t)
	ctx := context.Background()

	if err := store.AddUser(ctx, models.User{ID: "u1", Name: "A", Email: "a@example.com", APIToken: "t"}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	mgr := NewManager(dbPath)
	info, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(info.Path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to %s", info.Path)
	}
	if info.Size == 0 {
		t.Error("backup is empty")
	}

	// The copy holds the data
	copyStore := sqlite.NewStore(info.Path)
	if err := copyStore.Load(ctx); err != nil {
		t.Fatalf("Load backup failed: %v", err)
	}
	defer copyStore.Close()
	if _, err := copyStore.GetUser(ctx, "u1"); err != nil {
		t.Errorf("user missing from backup: %v", err)
	}
}

func TestCreateBackupWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(context.Background()); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Create() error = %v, want ErrNoDatabase", err)
	}
}

func TestUniqueNamesWithinOneSecond(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local) }

	first, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Name != "carelog-20240315-100000.db" || second.Name != "carelog-20240315-100000-1.db" {
		t.Errorf("names = %s, %s", first.Name, second.Name)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 || backups[0].Name != second.Name {
		t.Errorf("List() order = %v", backups)
	}
}

func TestRotation(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))
	mgr.keep = 3

	var last Info
	for i := 0; i < 5; i++ {
		info, err := mgr.Create(context.Background())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		last = info
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("kept %d backups, want 3", len(backups))
	}
	if backups[0].Name != last.Name {
		t.Errorf("newest backup = %s, want %s", backups[0].Name, last.Name)
	}
	if backups[2].Name != "carelog-20240301-080002.db" {
		t.Errorf("oldest kept backup = %s", backups[2].Name)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.BackupDir(), 0o700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "carelog-latest.db", "carelog-2024.db"} {
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %v, want empty", backups)
	}
}

func TestRestore(t *testing.T) {
	dbPath, store := setupTestDB(t)
	ctx := context.Background()
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local))

	if err := store.AddUser(ctx, models.User{ID: "before", Name: "Before", Email: "before@example.com", APIToken: "t1"}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	snapshot, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.AddUser(ctx, models.User{ID: "after", Name: "After", Email: "after@example.com", APIToken: "t2"}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	store.Close()

	safety, err := mgr.Restore(ctx, snapshot.Name)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if safety == nil {
		t.Fatal("expected a safety backup of the replaced database")
	}

	restored := sqlite.NewStore(dbPath)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer restored.Close()

	if _, err := restored.GetUser(ctx, "before"); err != nil {
		t.Errorf("restored database is missing user before: %v", err)
	}
	if _, err := restored.GetUser(ctx, "after"); err == nil {
		t.Error("restored database still has user after")
	}
}

func TestRestoreRejectsInvalidFiles(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	ctx := context.Background()

	if _, err := mgr.Restore(ctx, "carelog-20240101-000000.db"); err == nil {
		t.Error("expected error for missing backup")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a database"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(ctx, garbage); err == nil {
		t.Error("expected error for corrupt backup")
	}
}
