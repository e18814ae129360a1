package models

import "time"

// MoodTrend is the stored trend label of a report
type MoodTrend string

const (
	MoodTrendRising  MoodTrend = "rising"
	MoodTrendFalling MoodTrend = "falling"
	MoodTrendStable  MoodTrend = "stable"
)

// SymptomSummary is the structured symptom block attached to a report
type SymptomSummary struct {
	TopSymptoms []string `json:"top_symptoms"`
	Frequency   []int    `json:"frequency"`
}

// Report is a per-user snapshot prepared for an appointment.
// Reports form a singly linked list through PreviousReportID.
type Report struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	AppointmentDate     string          `json:"appointment_date"`
	FromDate            string          `json:"from_date"`
	ToDate              string          `json:"to_date"`
	AvgMood             *float64        `json:"avg_mood"`
	MoodTrend           *MoodTrend      `json:"mood_trend"`
	AvgSleepHours       *float64        `json:"avg_sleep_hours"`
	MedicationAdherence *float64        `json:"medication_adherence"`
	SymptomSummary      *SymptomSummary `json:"symptom_summary"`
	FreeSummary         *string         `json:"free_summary"`
	PreviousReportID    *string         `json:"previous_report_id"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
