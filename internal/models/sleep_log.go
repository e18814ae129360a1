package models

import "time"

// SleepLog holds at most one night of sleep for a DailyLog
type SleepLog struct {
	ID           string    `json:"id"`
	DailyLogID   string    `json:"daily_log_id"`
	Date         string    `json:"date,omitempty"` // owning DailyLog date, filled on reads
	Bedtime      *string   `json:"bedtime"`        // HH:MM
	WakeupTime   *string   `json:"wakeup_time"`    // HH:MM
	SleepHours   *float64  `json:"sleep_hours"`
	SleepQuality *int      `json:"sleep_quality"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
