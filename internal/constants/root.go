package constants

import "time"

const (
	AppName            = "carelog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/carelog/carelog.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time-of-day format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// ChartLabelFormat is the short month/day label used on chart axes
	ChartLabelFormat = "01/02"

	// Field limits
	MinMoodScore       = 1
	MaxMoodScore       = 5
	MinSleepQuality    = 1
	MaxSleepQuality    = 5
	MaxSleepHours      = 24.0
	MaxFreeNoteRunes   = 140
	MaxMedicineNameLen = 255
	MaxSummaryRunes    = 300

	// Listing windows
	DefaultPageSize        = 15
	MedicationHistorySize  = 20
	RecentLogsWindow       = 7
	AvailableSleepDaysBack = 90
	SeedDays               = 30

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "carelog-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "carelog-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.carelog"
	ReminderInterval       = time.Minute

	// HTTP constants
	APIPrefix         = "/api/v1"
	RequestIDHeader   = "X-Request-ID"
	ContextUserKey    = "user"
	ContextRequestKey = "request_id"
)
