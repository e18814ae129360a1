package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/julianstephens/carelog/internal/models"
)

func TestCreateDailyLog(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)

	log, err := svc.CreateDailyLog(ctx, user.ID, models.DailyLogInput{Date: "2024-03-10", MoodScore: ptr(4), FreeNote: ptr("calm day")})
	if err != nil {
		t.Fatalf("CreateDailyLog failed: %v", err)
	}
	if log.ID == "" || *log.MoodScore != 4 || *log.FreeNote != "calm day" {
		t.Errorf("unexpected log %+v", log)
	}

	_, err = svc.CreateDailyLog(ctx, user.ID, models.DailyLogInput{Date: "2024-03-10", MoodScore: ptr(1)})
	if !errors.Is(err, ErrDuplicateDailyLog) {
		t.Errorf("duplicate error = %v, want ErrDuplicateDailyLog", err)
	}

	// The original log is untouched
	got, _ := svc.GetDailyLog(ctx, user.ID, "2024-03-10")
	if *got.MoodScore != 4 {
		t.Errorf("mood overwritten: %d", *got.MoodScore)
	}
}

func TestCreateDailyLogValidation(t *testing.T) {
	svc, user := setupService(t)
	tests := []struct {
		name  string
		in    models.DailyLogInput
		field string
	}{
		{"missing date", models.DailyLogInput{}, "date"},
		{"bad date", models.DailyLogInput{Date: "03/10/2024"}, "date"},
		{"mood too high", models.DailyLogInput{Date: "2024-03-10", MoodScore: ptr(6)}, "mood_score"},
		{"mood too low", models.DailyLogInput{Date: "2024-03-10", MoodScore: ptr(0)}, "mood_score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDailyLog(context.Background(), user.ID, tt.in)
			assertValidation(t, err, tt.field)
		})
	}
}

func TestFreeNoteTruncation(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)

	long := strings.Repeat("気", 200)
	log, err := svc.CreateDailyLog(ctx, user.ID, models.DailyLogInput{Date: "2024-03-10", FreeNote: &long})
	if err != nil {
		t.Fatalf("CreateDailyLog failed: %v", err)
	}
	if n := utf8.RuneCountInString(*log.FreeNote); n != 140 {
		t.Errorf("note length = %d runes, want 140", n)
	}

	// Saving the truncated note again changes nothing
	updated, err := svc.UpdateDailyLog(ctx, user.ID, "2024-03-10", models.DailyLogInput{FreeNote: log.FreeNote})
	if err != nil {
		t.Fatalf("UpdateDailyLog failed: %v", err)
	}
	if *updated.FreeNote != *log.FreeNote {
		t.Error("truncation is not idempotent")
	}
}

func TestDailyLogIsolation(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)
	other, err := svc.CreateUser(ctx, models.UserInput{Name: "Other", Email: "other@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := svc.CreateDailyLog(ctx, user.ID, models.DailyLogInput{Date: "2024-03-10", MoodScore: ptr(3)}); err != nil {
		t.Fatalf("CreateDailyLog failed: %v", err)
	}

	if _, err := svc.GetDailyLog(ctx, other.ID, "2024-03-10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user read error = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteDailyLog(ctx, other.ID, "2024-03-10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user delete error = %v, want ErrNotFound", err)
	}
	if _, err := svc.CreateDailyLog(ctx, other.ID, models.DailyLogInput{Date: "2024-03-10"}); err != nil {
		t.Errorf("other user could not log the same date: %v", err)
	}
}

func TestDeleteDailyLogCascades(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)

	sl, err := svc.CreateSleepLog(ctx, user.ID, models.SleepLogInput{Date: "2024-03-10", Bedtime: ptr("23:00"), WakeupTime: ptr("07:00")})
	if err != nil {
		t.Fatalf("CreateSleepLog failed: %v", err)
	}
	meds, err := svc.CreateMedicationBatch(ctx, user.ID, models.MedicationBatchInput{
		Date:    "2024-03-10",
		Entries: []models.MedicationEntry{{MedicineName: "A", Timing: models.TimingMorning}},
	})
	if err != nil {
		t.Fatalf("CreateMedicationBatch failed: %v", err)
	}

	if err := svc.DeleteDailyLog(ctx, user.ID, "2024-03-10"); err != nil {
		t.Fatalf("DeleteDailyLog failed: %v", err)
	}
	if _, err := svc.GetSleepLog(ctx, user.ID, sl.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("sleep log survived: %v", err)
	}
	if _, err := svc.GetMedication(ctx, user.ID, meds[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("medication log survived: %v", err)
	}
}

func TestListDailyLogs(t *testing.T) {
	ctx := context.Background()
	svc, user := setupService(t)

	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		if _, err := svc.CreateDailyLog(ctx, user.ID, models.DailyLogInput{Date: date}); err != nil {
			t.Fatalf("CreateDailyLog failed: %v", err)
		}
	}

	page, err := svc.ListDailyLogs(ctx, user.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListDailyLogs failed: %v", err)
	}
	if page.Total != 3 || page.Page != 2 || len(page.Items) != 1 || page.Items[0].Date != "2024-03-01" {
		t.Errorf("unexpected page %+v", page)
	}

	page, _ = svc.ListDailyLogs(ctx, user.ID, 0, 0)
	if page.Page != 1 || page.PerPage != 15 || page.Items[0].Date != "2024-03-03" {
		t.Errorf("default paging = %+v", page)
	}
}
