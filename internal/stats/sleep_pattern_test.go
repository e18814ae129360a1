package stats

import (
	"testing"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

func sleepDay(hours *float64, quality *int) models.DailyLog {
	return models.DailyLog{Sleep: &models.SleepLog{SleepHours: hours, SleepQuality: quality}}
}

func TestSleepPattern(t *testing.T) {
	tests := []struct {
		name string
		logs []models.DailyLog
		want SleepTier
	}{
		{
			name: "no sleep logs",
			logs: []models.DailyLog{{Date: "2024-01-01"}},
			want: SleepInsufficient,
		},
		{
			name: "good",
			logs: []models.DailyLog{sleepDay(utils.Float(7.5), utils.Int(4)), sleepDay(utils.Float(7), utils.Int(5))},
			want: SleepGood,
		},
		{
			name: "fair",
			logs: []models.DailyLog{sleepDay(utils.Float(6.5), utils.Int(3))},
			want: SleepFair,
		},
		{
			name: "long but poor quality",
			logs: []models.DailyLog{sleepDay(utils.Float(8), utils.Int(2))},
			want: SleepNeedsImprovement,
		},
		{
			name: "short",
			logs: []models.DailyLog{sleepDay(utils.Float(5), utils.Int(5))},
			want: SleepNeedsImprovement,
		},
		{
			name: "quality never recorded",
			logs: []models.DailyLog{sleepDay(utils.Float(8), nil)},
			want: SleepNeedsImprovement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SleepPattern(tt.logs); got != tt.want {
				t.Errorf("SleepPattern() = %q, want %q", got, tt.want)
			}
		})
	}
}
