package models

// Settings represents installation-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name, or "Local" for system timezone
	Locale               string `json:"locale"`                // "en" or "ja"; drives summaries and labels
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether medication reminders are sent
	ReminderMorning      string `json:"reminder_morning"`      // HH:MM
	ReminderAfternoon    string `json:"reminder_afternoon"`    // HH:MM
	ReminderEvening      string `json:"reminder_evening"`      // HH:MM
	ReminderBedtime      string `json:"reminder_bedtime"`      // HH:MM
}

// ReminderTime returns the configured reminder time for a regular timing
func (s Settings) ReminderTime(t Timing) string {
	switch t {
	case TimingMorning:
		return s.ReminderMorning
	case TimingAfternoon:
		return s.ReminderAfternoon
	case TimingEvening:
		return s.ReminderEvening
	case TimingBedtime:
		return s.ReminderBedtime
	}
	return ""
}
