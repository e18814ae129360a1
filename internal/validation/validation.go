// Package validation checks user input before anything is written.
// Validators collect every problem instead of stopping at the first one.
package validation

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

// FieldError is a problem with a single input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is the set of field problems found in one input
type Errors []FieldError

// Error joins every field problem into one line
func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// HasErrors returns true if any field failed validation
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Fields maps each failing field to its first message
func (e Errors) Fields() map[string]string {
	fields := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := fields[fe.Field]; !ok {
			fields[fe.Field] = fe.Message
		}
	}
	return fields
}

// FormatReport returns a human-readable list of all problems
func (e Errors) FormatReport() string {
	if !e.HasErrors() {
		return "No problems found."
	}
	sorted := make(Errors, len(e))
	copy(sorted, e)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Field < sorted[j].Field })

	var b strings.Builder
	b.WriteString("Invalid input:\n")
	for _, fe := range sorted {
		fmt.Fprintf(&b, "- %s: %s\n", fe.Field, fe.Message)
	}
	return b.String()
}

// Err returns nil when there are no problems, so callers can return it directly
func (e Errors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *Errors) add(field, format string, args ...any) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// checkDate validates a required YYYY-MM-DD date. When notAfter is set the
// date must not fall after it.
func (e *Errors) checkDate(field, value, notAfter string) {
	if value == "" {
		e.add(field, "is required")
		return
	}
	if !utils.ValidateDateFormat(value) {
		e.add(field, "must be a date in YYYY-MM-DD format")
		return
	}
	if notAfter != "" && value > notAfter {
		e.add(field, "must not be after %s", notAfter)
	}
}

func (e *Errors) checkScore(field string, value *int, lo, hi int) {
	if value == nil {
		return
	}
	if *value < lo || *value > hi {
		e.add(field, "must be between %d and %d", lo, hi)
	}
}

func (e *Errors) checkTime(field string, value *string) {
	if value == nil {
		return
	}
	if !utils.ValidateTimeFormat(*value) {
		e.add(field, "must be a time in HH:MM format")
	}
}

func (e *Errors) checkMedicineName(field, name string) {
	if strings.TrimSpace(name) == "" {
		e.add(field, "is required")
		return
	}
	if len([]rune(name)) > constants.MaxMedicineNameLen {
		e.add(field, "must be at most %d characters", constants.MaxMedicineNameLen)
	}
}

func (e *Errors) checkTiming(field string, timing models.Timing) {
	if !timing.Valid() {
		e.add(field, "must be one of morning, afternoon, evening, bedtime, as_needed")
	}
}

// DailyLog validates a daily log write. Long free notes are not an error;
// the write path truncates them.
func DailyLog(in models.DailyLogInput) Errors {
	var errs Errors
	errs.checkDate("date", in.Date, "")
	errs.checkScore("mood_score", in.MoodScore, constants.MinMoodScore, constants.MaxMoodScore)
	return errs
}

// SleepLog validates a sleep log write. today bounds the date on create;
// pass an empty today to skip the date check on update.
func SleepLog(in models.SleepLogInput, today string) Errors {
	var errs Errors
	if today != "" {
		errs.checkDate("date", in.Date, today)
	}
	errs.checkTime("bedtime", in.Bedtime)
	errs.checkTime("wakeup_time", in.WakeupTime)
	if in.SleepHours != nil && (*in.SleepHours < 0 || *in.SleepHours > constants.MaxSleepHours) {
		errs.add("sleep_hours", "must be between 0 and %g", constants.MaxSleepHours)
	}
	errs.checkScore("sleep_quality", in.SleepQuality, constants.MinSleepQuality, constants.MaxSleepQuality)
	return errs
}

// MedicationBatch validates a batch of dose slots. Either an existing daily log id
// or a date not after today is required.
func MedicationBatch(in models.MedicationBatchInput, today string) Errors {
	var errs Errors
	if in.DailyLogID == "" {
		errs.checkDate("date", in.Date, today)
	}
	if len(in.Entries) == 0 {
		errs.add("medications", "at least one medication is required")
	}
	for i, entry := range in.Entries {
		prefix := fmt.Sprintf("medications.%d.", i)
		errs.checkMedicineName(prefix+"medicine_name", entry.MedicineName)
		errs.checkTiming(prefix+"timing", entry.Timing)
	}
	return errs
}

// MedicationUpdate validates a partial medication change
func MedicationUpdate(in models.MedicationUpdate) Errors {
	var errs Errors
	if in.MedicineName != nil {
		errs.checkMedicineName("medicine_name", *in.MedicineName)
	}
	if in.Timing != nil {
		errs.checkTiming("timing", *in.Timing)
	}
	return errs
}

// DateRange validates an inclusive [from, to] range
func DateRange(from, to string) Errors {
	var errs Errors
	errs.checkDate("from", from, "")
	errs.checkDate("to", to, "")
	if !errs.HasErrors() && from > to {
		errs.add("to", "must not be before from")
	}
	return errs
}

// Report validates a report request. The period itself is checked when it is resolved.
func Report(in models.ReportInput) Errors {
	var errs Errors
	errs.checkDate("appointment_date", in.AppointmentDate, "")
	if in.Period == "custom" {
		errs = append(errs, DateRange(in.From, in.To)...)
	}
	if in.SymptomSummary != nil && len(in.SymptomSummary.Frequency) > 0 &&
		len(in.SymptomSummary.Frequency) != len(in.SymptomSummary.TopSymptoms) {
		errs.add("symptom_summary", "frequency must have one entry per symptom")
	}
	return errs
}

// Appointment validates an appointment write
func Appointment(in models.AppointmentInput) Errors {
	var errs Errors
	errs.checkDate("appointment_date", in.AppointmentDate, "")
	if strings.TrimSpace(in.DoctorName) == "" {
		errs.add("doctor_name", "is required")
	} else if len([]rune(in.DoctorName)) > constants.MaxMedicineNameLen {
		errs.add("doctor_name", "must be at most %d characters", constants.MaxMedicineNameLen)
	}
	return errs
}

// User validates a new user
func User(in models.UserInput) Errors {
	var errs Errors
	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "is required")
	}
	if in.Email == "" {
		errs.add("email", "is required")
	} else if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		errs.add("email", "must be a valid email address")
	}
	return errs
}

// Settings validates installation settings
func Settings(s models.Settings) Errors {
	var errs Errors
	if !utils.ValidateTimezone(s.Timezone) {
		errs.add("timezone", "unknown timezone %q", s.Timezone)
	}
	if s.Locale != "en" && s.Locale != "ja" {
		errs.add("locale", "must be en or ja")
	}
	for _, timing := range models.Timings {
		if !timing.IsRegular() {
			continue
		}
		value := s.ReminderTime(timing)
		if !utils.ValidateTimeFormat(value) {
			errs.add("reminder_"+string(timing), "must be a time in HH:MM format")
		}
	}
	return errs
}
