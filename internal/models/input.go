package models

// DailyLogInput carries the writable fields of a DailyLog
type DailyLogInput struct {
	Date      string  `json:"date"`
	MoodScore *int    `json:"mood_score"`
	FreeNote  *string `json:"free_note"`
}

// SleepLogInput carries the writable fields of a SleepLog.
// Date selects the owning DailyLog on create and is ignored on update.
type SleepLogInput struct {
	Date         string   `json:"date"`
	Bedtime      *string  `json:"bedtime"`
	WakeupTime   *string  `json:"wakeup_time"`
	SleepHours   *float64 `json:"sleep_hours"`
	SleepQuality *int     `json:"sleep_quality"`
}

// MedicationEntry is one dose slot in a medication batch
type MedicationEntry struct {
	MedicineName string `json:"medicine_name"`
	Timing       Timing `json:"timing"`
	Taken        bool   `json:"taken"`
}

// MedicationBatchInput attaches entries to an existing DailyLog (DailyLogID)
// or to the log for Date, which is created when missing.
type MedicationBatchInput struct {
	DailyLogID string            `json:"daily_log_id"`
	Date       string            `json:"date"`
	Entries    []MedicationEntry `json:"medications"`
}

// MedicationUpdate changes one medication row; nil fields are left untouched
type MedicationUpdate struct {
	MedicineName *string `json:"medicine_name"`
	Timing       *Timing `json:"timing"`
	Taken        *bool   `json:"taken"`
}

// ReportInput requests a report for a period ahead of an appointment
type ReportInput struct {
	AppointmentDate string          `json:"appointment_date"`
	Period          string          `json:"period"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	SymptomSummary  *SymptomSummary `json:"symptom_summary"`
	FreeSummary     *string         `json:"free_summary"`
}

// AppointmentInput carries the writable fields of an Appointment
type AppointmentInput struct {
	AppointmentDate string  `json:"appointment_date"`
	DoctorName      string  `json:"doctor_name"`
	ReportID        *string `json:"report_id"`
	Memo            *string `json:"memo"`
}

// UserInput carries the fields needed to register a user
type UserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
