package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/carelog/internal/models"
)

// sleepSelect selects sleep columns joined to the owning daily log
const sleepSelect = `s.id, s.daily_log_id, d.date, s.bedtime, s.wakeup_time, s.sleep_hours, s.sleep_quality, s.created_at, s.updated_at
	FROM sleep_logs s JOIN daily_logs d ON d.id = s.daily_log_id`

func (s *Store) AddSleepLog(ctx context.Context, log models.SleepLog) error {
	ts := now()
	_, err := s.exec(ctx, `
		INSERT INTO sleep_logs (id, daily_log_id, bedtime, wakeup_time, sleep_hours, sleep_quality, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.DailyLogID, nullString(log.Bedtime), nullString(log.WakeupTime),
		nullFloat(log.SleepHours), nullInt(log.SleepQuality), formatTime(log.CreatedAt), ts)
	return s.writeErr(err, "sleep log")
}

func (s *Store) GetSleepLog(ctx context.Context, userID, id string) (models.SleepLog, error) {
	row := s.queryRow(ctx, "SELECT "+sleepSelect+" WHERE d.user_id = ? AND s.id = ?", userID, id)
	log, err := scanSleepLog(row)
	if err != nil {
		return models.SleepLog{}, readErr(err, "sleep log")
	}
	return log, nil
}

func (s *Store) UpdateSleepLog(ctx context.Context, userID string, log models.SleepLog) error {
	res, err := s.exec(ctx, `
		UPDATE sleep_logs SET bedtime = ?, wakeup_time = ?, sleep_hours = ?, sleep_quality = ?, updated_at = ?
		WHERE id = ? AND daily_log_id IN (SELECT id FROM daily_logs WHERE user_id = ?)`,
		nullString(log.Bedtime), nullString(log.WakeupTime), nullFloat(log.SleepHours), nullInt(log.SleepQuality),
		now(), log.ID, userID)
	if err != nil {
		return s.writeErr(err, "sleep log")
	}
	return affected(res, "sleep log")
}

func (s *Store) DeleteSleepLog(ctx context.Context, userID, id string) error {
	res, err := s.exec(ctx,
		"DELETE FROM sleep_logs WHERE id = ? AND daily_log_id IN (SELECT id FROM daily_logs WHERE user_id = ?)",
		id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete sleep log: %w", err)
	}
	return affected(res, "sleep log")
}

func (s *Store) GetSleepLogs(ctx context.Context, userID string, limit, offset int) ([]models.SleepLog, error) {
	rows, err := s.query(ctx,
		"SELECT "+sleepSelect+" WHERE d.user_id = ? ORDER BY d.date DESC LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectSleepLogs(rows)
}

func (s *Store) CountSleepLogs(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "sleep log",
		"SELECT count(*) FROM sleep_logs s JOIN daily_logs d ON d.id = s.daily_log_id WHERE d.user_id = ?", userID)
}

func (s *Store) GetSleepLogDates(ctx context.Context, userID, from, to string) ([]string, error) {
	rows, err := s.query(ctx, `
		SELECT d.date FROM sleep_logs s JOIN daily_logs d ON d.id = s.daily_log_id
		WHERE d.user_id = ? AND d.date >= ? AND d.date <= ? ORDER BY d.date`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

func collectSleepLogs(rows *sql.Rows) ([]models.SleepLog, error) {
	defer rows.Close()
	var logs []models.SleepLog
	for rows.Next() {
		log, err := scanSleepLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanSleepLog(row scanner) (models.SleepLog, error) {
	var log models.SleepLog
	var bedtime, wakeup sql.NullString
	var hours sql.NullFloat64
	var quality sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(&log.ID, &log.DailyLogID, &log.Date, &bedtime, &wakeup, &hours, &quality, &createdAt, &updatedAt)
	if err != nil {
		return models.SleepLog{}, err
	}
	log.Bedtime = stringPtr(bedtime)
	log.WakeupTime = stringPtr(wakeup)
	log.SleepHours = floatPtr(hours)
	log.SleepQuality = intPtr(quality)

	if log.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return models.SleepLog{}, err
	}
	if log.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return models.SleepLog{}, err
	}
	return log, nil
}
