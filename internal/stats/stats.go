// Package stats aggregates daily logs into period statistics, mood trends,
// sleep patterns and chart series. Every function here is pure: callers load
// the logs for a range and pass them in.
package stats

import (
	"sort"

	"github.com/julianstephens/carelog/internal/adherence"
	"github.com/julianstephens/carelog/internal/models"
)

// Statistics is the aggregate of one user's logs over a period.
// Averages and extremes are nil when no log in the period defines them.
type Statistics struct {
	MoodAvg       *float64 `json:"mood_avg"`
	MoodMin       *int     `json:"mood_min"`
	MoodMax       *int     `json:"mood_max"`
	SleepAvg      *float64 `json:"sleep_avg"`
	SleepMin      *float64 `json:"sleep_min"`
	SleepMax      *float64 `json:"sleep_max"`
	AdherenceRate float64  `json:"adherence_rate"`
	TotalEntries  int      `json:"total_entries"`
	PeriodDays    int      `json:"period_days"`
}

// Compute builds period statistics from the logs of a range.
// Averages are taken over defined values only; missing days never count as zero.
func Compute(logs []models.DailyLog) Statistics {
	var st Statistics
	st.PeriodDays = len(logs)

	var moodSum, moodCount int
	var sleepSum float64
	var sleepCount int
	var meds []models.MedicationLog

	for _, log := range logs {
		meds = append(meds, log.Medications...)

		if log.MoodScore != nil {
			mood := *log.MoodScore
			moodSum += mood
			moodCount++
			if st.MoodMin == nil || mood < *st.MoodMin {
				st.MoodMin = intPtr(mood)
			}
			if st.MoodMax == nil || mood > *st.MoodMax {
				st.MoodMax = intPtr(mood)
			}
		}

		if hours, ok := log.SleepHours(); ok {
			sleepSum += hours
			sleepCount++
			if st.SleepMin == nil || hours < *st.SleepMin {
				st.SleepMin = floatPtr(hours)
			}
			if st.SleepMax == nil || hours > *st.SleepMax {
				st.SleepMax = floatPtr(hours)
			}
		}
	}

	if moodCount > 0 {
		st.MoodAvg = floatPtr(float64(moodSum) / float64(moodCount))
	}
	if sleepCount > 0 {
		st.SleepAvg = floatPtr(sleepSum / float64(sleepCount))
	}
	st.TotalEntries = moodCount
	st.AdherenceRate = adherence.Rate(meds)

	return st
}

// MoodSeries returns the recorded mood scores in chronological order.
func MoodSeries(logs []models.DailyLog) []int {
	ordered := Chronological(logs)
	series := make([]int, 0, len(ordered))
	for _, log := range ordered {
		if log.MoodScore != nil {
			series = append(series, *log.MoodScore)
		}
	}
	return series
}

// Chronological returns a copy of logs sorted by date ascending.
func Chronological(logs []models.DailyLog) []models.DailyLog {
	ordered := make([]models.DailyLog, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})
	return ordered
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
