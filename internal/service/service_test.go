package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/storage/sqlite"
	"github.com/julianstephens/carelog/internal/validation"
)

const testToday = "2024-03-15"

func setupService(t *testing.T) (*Service, models.User) {
	t.Helper()
	ctx := context.Background()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "carelog.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	svc := New(store, WithClock(clock))

	settings, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	settings.Timezone = "UTC"
	if _, err := svc.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	user, err := svc.CreateUser(ctx, models.UserInput{Name: "Test User", Email: "test@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return svc, user
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := errs.Fields()[field]; !ok {
		t.Errorf("expected error on %q, got %v", field, errs.Fields())
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestToday(t *testing.T) {
	svc, _ := setupService(t)
	today, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if today != testToday {
		t.Errorf("Today() = %s, want %s", today, testToday)
	}
}

func TestTodayRespectsTimezone(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	settings, _ := svc.GetSettings(ctx)
	settings.Timezone = "Pacific/Kiritimati" // UTC+14
	if _, err := svc.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	today, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if today != "2024-03-16" {
		t.Errorf("Today() = %s, want 2024-03-16", today)
	}
}

func TestUpdateSettingsValidates(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.UpdateSettings(context.Background(), models.Settings{Timezone: "Mars/Olympus", Locale: "fr"})
	assertValidation(t, err, "timezone")
	assertValidation(t, err, "locale")
}
