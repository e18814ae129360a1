package stats

import "github.com/julianstephens/carelog/internal/models"

// SleepTier is a coarse rating of sleep over a period
type SleepTier string

const (
	SleepGood             SleepTier = "good"
	SleepFair             SleepTier = "fair"
	SleepNeedsImprovement SleepTier = "needs_improvement"
	SleepInsufficient     SleepTier = "insufficient_data"
)

// SleepPattern rates the sleep logs attached to logs.
// Hours and quality are averaged over recorded values; an undefined average fails
// every threshold. With no sleep logs at all the result is SleepInsufficient.
func SleepPattern(logs []models.DailyLog) SleepTier {
	var hoursSum, qualitySum float64
	var hoursCount, qualityCount, sleepLogs int

	for _, log := range logs {
		if log.Sleep == nil {
			continue
		}
		sleepLogs++
		if log.Sleep.SleepHours != nil {
			hoursSum += *log.Sleep.SleepHours
			hoursCount++
		}
		if log.Sleep.SleepQuality != nil {
			qualitySum += float64(*log.Sleep.SleepQuality)
			qualityCount++
		}
	}

	if sleepLogs == 0 {
		return SleepInsufficient
	}
	if hoursCount == 0 || qualityCount == 0 {
		return SleepNeedsImprovement
	}

	avgHours := hoursSum / float64(hoursCount)
	avgQuality := qualitySum / float64(qualityCount)

	switch {
	case avgHours >= 7 && avgQuality >= 4:
		return SleepGood
	case avgHours >= 6 && avgQuality >= 3:
		return SleepFair
	default:
		return SleepNeedsImprovement
	}
}
