package stats

import "github.com/julianstephens/carelog/internal/models"

// Trend is the direction of mood over a period
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const (
	trendWindow    = 7
	trendThreshold = 0.5
)

// ClassifyTrend compares the mean of the last seven values against the mean of the
// first seven. With fewer than fourteen values the two windows overlap.
func ClassifyTrend(values []int) Trend {
	if len(values) < 2 {
		return TrendStable
	}

	earlier := mean(values[:min(trendWindow, len(values))])
	recent := mean(values[max(0, len(values)-trendWindow):])

	diff := recent - earlier
	switch {
	case diff > trendThreshold:
		return TrendImproving
	case diff < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// ReportTrend maps the classifier output onto the value stored with a report
func (t Trend) ReportTrend() models.MoodTrend {
	switch t {
	case TrendImproving:
		return models.MoodTrendRising
	case TrendDeclining:
		return models.MoodTrendFalling
	default:
		return models.MoodTrendStable
	}
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
