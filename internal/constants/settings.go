package constants

const (
	// General Settings
	SettingTimezone             = "timezone"
	SettingLocale               = "locale"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingReminderMorning      = "reminder_morning"
	SettingReminderAfternoon    = "reminder_afternoon"
	SettingReminderEvening      = "reminder_evening"
	SettingReminderBedtime      = "reminder_bedtime"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultLocale               = "en"
	DefaultNotificationsEnabled = false
	DefaultReminderMorning      = "08:00"
	DefaultReminderAfternoon    = "13:00"
	DefaultReminderEvening      = "19:00"
	DefaultReminderBedtime      = "22:30"
)
