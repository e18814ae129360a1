package stats

import (
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

// ChartData holds three parallel series for a mood and sleep chart
type ChartData struct {
	Labels []string   `json:"labels"`
	Mood   []*int     `json:"mood"`
	Sleep  []*float64 `json:"sleep"`
}

// Chart builds chronological chart series. Days without a mood score and without
// sleep hours are left out entirely.
func Chart(logs []models.DailyLog) ChartData {
	data := ChartData{
		Labels: []string{},
		Mood:   []*int{},
		Sleep:  []*float64{},
	}

	for _, log := range Chronological(logs) {
		var mood *int
		if log.MoodScore != nil {
			mood = intPtr(*log.MoodScore)
		}
		var sleep *float64
		if hours, ok := log.SleepHours(); ok {
			sleep = floatPtr(hours)
		}
		if mood == nil && sleep == nil {
			continue
		}

		data.Labels = append(data.Labels, utils.FormatChartLabel(log.Date))
		data.Mood = append(data.Mood, mood)
		data.Sleep = append(data.Sleep, sleep)
	}

	return data
}

// Len returns the number of points in the chart
func (c ChartData) Len() int {
	return len(c.Labels)
}
