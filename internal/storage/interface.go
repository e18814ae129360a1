package storage

import (
	"context"

	"github.com/julianstephens/carelog/internal/migration"
	"github.com/julianstephens/carelog/internal/models"
)

// Provider is the persistence boundary. Every data method takes the owning user id;
// rows that belong to another user are reported as ErrNotFound.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	MigrationStatus(ctx context.Context) ([]migration.Status, error)

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Users
	AddUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByToken(ctx context.Context, token string) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUserToken(ctx context.Context, id, token string) error

	// Daily logs. Reads return logs with their sleep and medication children attached.
	AddDailyLog(ctx context.Context, log models.DailyLog) error
	GetDailyLog(ctx context.Context, userID, date string) (models.DailyLog, error)
	GetDailyLogByID(ctx context.Context, userID, id string) (models.DailyLog, error)
	UpdateDailyLog(ctx context.Context, log models.DailyLog) error
	DeleteDailyLog(ctx context.Context, userID, date string) error
	// GetDailyLogs returns a page of logs, newest date first.
	GetDailyLogs(ctx context.Context, userID string, limit, offset int) ([]models.DailyLog, error)
	CountDailyLogs(ctx context.Context, userID string) (int, error)
	// GetDailyLogsInRange returns every log with from <= date <= to, oldest first.
	GetDailyLogsInRange(ctx context.Context, userID, from, to string) ([]models.DailyLog, error)

	// Sleep logs
	AddSleepLog(ctx context.Context, log models.SleepLog) error
	GetSleepLog(ctx context.Context, userID, id string) (models.SleepLog, error)
	UpdateSleepLog(ctx context.Context, userID string, log models.SleepLog) error
	DeleteSleepLog(ctx context.Context, userID, id string) error
	GetSleepLogs(ctx context.Context, userID string, limit, offset int) ([]models.SleepLog, error)
	CountSleepLogs(ctx context.Context, userID string) (int, error)
	// GetSleepLogDates returns the dates in [from, to] that already have a sleep log.
	GetSleepLogDates(ctx context.Context, userID, from, to string) ([]string, error)

	// Medication logs
	// AddMedicationLogs inserts every row in one transaction; either all rows are stored or none.
	AddMedicationLogs(ctx context.Context, logs []models.MedicationLog) error
	GetMedicationLog(ctx context.Context, userID, id string) (models.MedicationLog, error)
	UpdateMedicationLog(ctx context.Context, userID string, log models.MedicationLog) error
	DeleteMedicationLog(ctx context.Context, userID, id string) error
	GetMedicationLogs(ctx context.Context, userID string, limit, offset int) ([]models.MedicationLog, error)
	CountMedicationLogs(ctx context.Context, userID string) (int, error)
	GetAllMedicationLogs(ctx context.Context, userID string) ([]models.MedicationLog, error)
	// SetTimingTaken marks every untaken row of a timing on one daily log as taken
	// and returns how many rows changed.
	SetTimingTaken(ctx context.Context, userID, dailyLogID string, timing models.Timing) (int, error)

	// Reports
	AddReport(ctx context.Context, report models.Report) error
	GetReport(ctx context.Context, userID, id string) (models.Report, error)
	// GetLatestReport returns the report with the latest appointment date.
	GetLatestReport(ctx context.Context, userID string) (models.Report, error)
	// GetNextReport returns the report whose previous report is id.
	GetNextReport(ctx context.Context, userID, id string) (models.Report, error)
	GetReports(ctx context.Context, userID string) ([]models.Report, error)
	DeleteReport(ctx context.Context, userID, id string) error

	// Appointments
	AddAppointment(ctx context.Context, appt models.Appointment) error
	GetAppointment(ctx context.Context, userID, id string) (models.Appointment, error)
	UpdateAppointment(ctx context.Context, appt models.Appointment) error
	DeleteAppointment(ctx context.Context, userID, id string) error
	// GetUpcomingAppointments returns appointments on or after today, soonest first.
	GetUpcomingAppointments(ctx context.Context, userID, today string) ([]models.Appointment, error)
	// GetPastAppointments returns appointments before today, most recent first.
	GetPastAppointments(ctx context.Context, userID, today string) ([]models.Appointment, error)

	// Utils
	GetConfigPath() string
}
