package models

import "time"

// DailyLog anchors one user-day of mood, diary, sleep and medication data
type DailyLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // YYYY-MM-DD format
	MoodScore *int      `json:"mood_score"`
	FreeNote  *string   `json:"free_note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sleep       *SleepLog       `json:"sleep_log,omitempty"`
	Medications []MedicationLog `json:"medication_logs,omitempty"`
}

// HasMood reports whether a mood score was recorded for the day
func (d DailyLog) HasMood() bool {
	return d.MoodScore != nil
}

// SleepHours returns the recorded sleep hours for the day, if any
func (d DailyLog) SleepHours() (float64, bool) {
	if d.Sleep == nil || d.Sleep.SleepHours == nil {
		return 0, false
	}
	return *d.Sleep.SleepHours, true
}
