package stats

import (
	"sort"

	"github.com/julianstephens/carelog/internal/models"
)

// WeeklyStats summarises the most recent logs for the dashboard
type WeeklyStats struct {
	AvgMood       *float64 `json:"avg_mood"`
	AvgSleep      *float64 `json:"avg_sleep"`
	AdherenceRate float64  `json:"adherence_rate"`
	Entries       int      `json:"entries"`
}

// Weekly computes dashboard stats over the window most recent logs by date.
func Weekly(logs []models.DailyLog, window int) WeeklyStats {
	recent := make([]models.DailyLog, len(logs))
	copy(recent, logs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if window > 0 && len(recent) > window {
		recent = recent[:window]
	}

	st := Compute(recent)
	return WeeklyStats{
		AvgMood:       st.MoodAvg,
		AvgSleep:      st.SleepAvg,
		AdherenceRate: st.AdherenceRate,
		Entries:       st.PeriodDays,
	}
}
