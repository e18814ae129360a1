package stats

import (
	"fmt"
	"testing"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

func TestWeekly(t *testing.T) {
	var logs []models.DailyLog
	// Ten days, mood 1 for the three oldest and 5 for the seven newest
	for i := 1; i <= 10; i++ {
		mood := 5
		if i <= 3 {
			mood = 1
		}
		logs = append(logs, day(fmt.Sprintf("2024-03-%02d", i), utils.Int(mood), nil,
			models.MedicationLog{MedicineName: "A", Timing: models.TimingMorning, Taken: i > 3}))
	}

	got := Weekly(logs, 7)

	if got.Entries != 7 {
		t.Errorf("Entries = %d, want 7", got.Entries)
	}
	if got.AvgMood == nil || *got.AvgMood != 5 {
		t.Errorf("AvgMood = %v, want 5", got.AvgMood)
	}
	if got.AvgSleep != nil {
		t.Errorf("AvgSleep = %v, want nil", *got.AvgSleep)
	}
	if got.AdherenceRate != 100 {
		t.Errorf("AdherenceRate = %v, want 100", got.AdherenceRate)
	}
}

func TestWeeklyFewerLogsThanWindow(t *testing.T) {
	logs := []models.DailyLog{day("2024-03-01", utils.Int(2), utils.Float(6))}
	got := Weekly(logs, 7)
	if got.Entries != 1 || *got.AvgMood != 2 || *got.AvgSleep != 6 {
		t.Errorf("Weekly() = %+v", got)
	}
}
