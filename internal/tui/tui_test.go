package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/stats"
	"github.com/julianstephens/carelog/internal/storage/sqlite"
	"github.com/julianstephens/carelog/internal/tui/components/logtable"
)

func setupModel(t *testing.T) (Model, *service.Service, models.User) {
	t.Helper()
	ctx := context.Background()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "carelog.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	svc := service.New(store, service.WithClock(clock))
	settings, _ := svc.GetSettings(ctx)
	settings.Timezone = "UTC"
	if _, err := svc.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	user, err := svc.CreateUser(ctx, models.UserInput{Name: "Tui", Email: "tui@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return NewModel(ctx, svc, user.ID), svc, user
}

func ptr[T any](v T) *T { return &v }

func TestLoadPopulatesTabs(t *testing.T) {
	m, svc, user := setupModel(t)
	ctx := context.Background()

	if _, err := svc.CreateDailyLog(ctx, user.ID, models.DailyLogInput{Date: "2024-03-14", MoodScore: ptr(4), FreeNote: ptr("good walk")}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateMedicationBatch(ctx, user.ID, models.MedicationBatchInput{
		Date:    "2024-03-14",
		Entries: []models.MedicationEntry{{MedicineName: "Aspirin", Timing: models.TimingMorning, Taken: true}},
	}); err != nil {
		t.Fatal(err)
	}

	msg := m.Init()()
	loaded, ok := msg.(loadedMsg)
	if !ok {
		t.Fatalf("Init() produced %T, want loadedMsg", msg)
	}
	if loaded.today.Date != "2024-03-15" {
		t.Errorf("today = %s", loaded.today.Date)
	}
	// yesterday's lineup is copied into today
	if len(loaded.today.Medications) != 1 || loaded.today.Medications[0].Taken {
		t.Errorf("today medications = %+v", loaded.today.Medications)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(loaded)
	view := next.(Model).View()
	if !strings.Contains(view, "Aspirin") {
		t.Errorf("today tab should list Aspirin:\n%s", view)
	}

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	view = next.(Model).View()
	if !strings.Contains(view, "2024-03-14") {
		t.Errorf("recent tab should list 2024-03-14:\n%s", view)
	}

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(Model).tab != TabSummary {
		t.Fatalf("tab = %d, want summary", next.(Model).tab)
	}
	if !strings.Contains(next.(Model).View(), "Summary of records") {
		t.Errorf("summary tab should render the narrative summary")
	}
}

func TestTabWrapsAround(t *testing.T) {
	m, _, _ := setupModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := next.(Model).tab; got != TabSummary {
		t.Errorf("shift+tab from today = %d, want %d", got, TabSummary)
	}
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := next.(Model).tab; got != TabToday {
		t.Errorf("tab from summary = %d, want %d", got, TabToday)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := setupModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestErrorIsShown(t *testing.T) {
	m, _, _ := setupModel(t)
	next, _ := m.Update(errMsg{errors.New("database is locked")})
	if !strings.Contains(next.(Model).View(), "database is locked") {
		t.Error("error should be rendered in the footer")
	}
}

func TestNextPeriod(t *testing.T) {
	tests := []struct {
		in, want stats.Period
	}{
		{stats.PeriodOneWeek, stats.PeriodTwoWeeks},
		{stats.PeriodOneYear, stats.PeriodOneWeek},
		{stats.PeriodCustom, stats.DefaultPeriod},
	}
	for _, tt := range tests {
		if got := nextPeriod(tt.in); got != tt.want {
			t.Errorf("nextPeriod(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLogTableRows(t *testing.T) {
	logs := []models.DailyLog{
		{
			Date:      "2024-03-14",
			MoodScore: ptr(3),
			FreeNote:  ptr(strings.Repeat("あ", 40)),
			Sleep:     &models.SleepLog{SleepHours: ptr(7.5), SleepQuality: ptr(4)},
			Medications: []models.MedicationLog{
				{Taken: true}, {Taken: false},
			},
		},
		{Date: "2024-03-13"},
	}
	rows := logtable.Rows(logs)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	want := []string{"2024-03-14", "3", "7.5", "4", "1/2"}
	for i, w := range want {
		if rows[0][i] != w {
			t.Errorf("row[0][%d] = %q, want %q", i, rows[0][i], w)
		}
	}
	if n := len([]rune(rows[0][5])); n != 32 {
		t.Errorf("note should be truncated to 32 runes, got %d", n)
	}
	for i := 1; i < 5; i++ {
		if rows[1][i] != "-" {
			t.Errorf("row[1][%d] = %q, want -", i, rows[1][i])
		}
	}
}

func TestDailyLogFormInput(t *testing.T) {
	tests := []struct {
		name     string
		form     DailyLogFormModel
		wantMood *int
		wantNote *string
	}{
		{"all fields", DailyLogFormModel{Date: " 2024-03-15 ", Mood: "4", Note: " fine "}, ptr(4), ptr("fine")},
		{"skipped", DailyLogFormModel{Date: "2024-03-15"}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := tt.form.Input()
			if err != nil {
				t.Fatalf("Input() error: %v", err)
			}
			if in.Date != "2024-03-15" {
				t.Errorf("date = %q", in.Date)
			}
			if (in.MoodScore == nil) != (tt.wantMood == nil) || (in.MoodScore != nil && *in.MoodScore != *tt.wantMood) {
				t.Errorf("mood = %v, want %v", in.MoodScore, tt.wantMood)
			}
			if (in.FreeNote == nil) != (tt.wantNote == nil) || (in.FreeNote != nil && *in.FreeNote != *tt.wantNote) {
				t.Errorf("note = %v, want %v", in.FreeNote, tt.wantNote)
			}
		})
	}
}

func TestNewDailyLogForm(t *testing.T) {
	f := &DailyLogFormModel{Date: "2024-03-15"}
	if NewDailyLogForm(f) == nil {
		t.Fatal("expected a form")
	}
}
