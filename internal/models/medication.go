package models

import "time"

// Timing is the dose slot a medication row belongs to
type Timing string

const (
	TimingMorning   Timing = "morning"
	TimingAfternoon Timing = "afternoon"
	TimingEvening   Timing = "evening"
	TimingBedtime   Timing = "bedtime"
	TimingAsNeeded  Timing = "as_needed"
)

// Timings lists every valid timing in display order
var Timings = []Timing{TimingMorning, TimingAfternoon, TimingEvening, TimingBedtime, TimingAsNeeded}

// Valid reports whether t is one of the known timings
func (t Timing) Valid() bool {
	for _, known := range Timings {
		if t == known {
			return true
		}
	}
	return false
}

// IsRegular reports whether doses at this timing count toward adherence
func (t Timing) IsRegular() bool {
	return t != TimingAsNeeded
}

// Label returns a human-readable name for the timing
func (t Timing) Label(locale string) string {
	if locale == "ja" {
		switch t {
		case TimingMorning:
			return "朝"
		case TimingAfternoon:
			return "昼"
		case TimingEvening:
			return "晩"
		case TimingBedtime:
			return "就寝前"
		case TimingAsNeeded:
			return "頓服"
		}
		return string(t)
	}
	switch t {
	case TimingMorning:
		return "Morning"
	case TimingAfternoon:
		return "Afternoon"
	case TimingEvening:
		return "Evening"
	case TimingBedtime:
		return "Bedtime"
	case TimingAsNeeded:
		return "As needed"
	}
	return string(t)
}

// MedicationLog is one dose slot of one medicine on one day
type MedicationLog struct {
	ID           string    `json:"id"`
	DailyLogID   string    `json:"daily_log_id"`
	Date         string    `json:"date,omitempty"` // owning DailyLog date, filled on reads
	MedicineName string    `json:"medicine_name"`
	Timing       Timing    `json:"timing"`
	Taken        bool      `json:"taken"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
