package sqlstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/storage"
)

// DefaultSettings returns the settings written on first init
func DefaultSettings() models.Settings {
	return models.Settings{
		Timezone:             constants.DefaultTimezone,
		Locale:               constants.DefaultLocale,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		ReminderMorning:      constants.DefaultReminderMorning,
		ReminderAfternoon:    constants.DefaultReminderAfternoon,
		ReminderEvening:      constants.DefaultReminderEvening,
		ReminderBedtime:      constants.DefaultReminderBedtime,
	}
}

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	rows, err := s.query(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	defer rows.Close()

	// Keys missing from the table keep their defaults
	settings := DefaultSettings()
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingLocale:
			settings.Locale = value
		case constants.SettingNotificationsEnabled:
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.NotificationsEnabled = enabled
		case constants.SettingReminderMorning:
			settings.ReminderMorning = value
		case constants.SettingReminderAfternoon:
			settings.ReminderAfternoon = value
		case constants.SettingReminderEvening:
			settings.ReminderEvening = value
		case constants.SettingReminderBedtime:
			settings.ReminderBedtime = value
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	values := [][2]string{
		{constants.SettingTimezone, settings.Timezone},
		{constants.SettingLocale, settings.Locale},
		{constants.SettingNotificationsEnabled, strconv.FormatBool(settings.NotificationsEnabled)},
		{constants.SettingReminderMorning, settings.ReminderMorning},
		{constants.SettingReminderAfternoon, settings.ReminderAfternoon},
		{constants.SettingReminderEvening, settings.ReminderEvening},
		{constants.SettingReminderBedtime, settings.ReminderBedtime},
	}
	for _, kv := range values {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", kv[0], err)
		}
	}

	return tx.Commit()
}
