package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/carelog/internal/models"
)

const dailyLogColumns = "id, user_id, date, mood_score, free_note, created_at, updated_at"

func (s *Store) AddDailyLog(ctx context.Context, log models.DailyLog) error {
	ts := now()
	_, err := s.exec(ctx,
		"INSERT INTO daily_logs ("+dailyLogColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		log.ID, log.UserID, log.Date, nullInt(log.MoodScore), nullString(log.FreeNote), formatTime(log.CreatedAt), ts)
	return s.writeErr(err, "daily log")
}

func (s *Store) GetDailyLog(ctx context.Context, userID, date string) (models.DailyLog, error) {
	row := s.queryRow(ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE user_id = ? AND date = ?", userID, date)
	return s.getDailyLog(ctx, row)
}

func (s *Store) GetDailyLogByID(ctx context.Context, userID, id string) (models.DailyLog, error) {
	row := s.queryRow(ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE user_id = ? AND id = ?", userID, id)
	return s.getDailyLog(ctx, row)
}

func (s *Store) getDailyLog(ctx context.Context, row *sql.Row) (models.DailyLog, error) {
	log, err := scanDailyLog(row)
	if err != nil {
		return models.DailyLog{}, readErr(err, "daily log")
	}
	logs := []models.DailyLog{log}
	if err := s.attachChildren(ctx, log.UserID, logs); err != nil {
		return models.DailyLog{}, err
	}
	return logs[0], nil
}

func (s *Store) UpdateDailyLog(ctx context.Context, log models.DailyLog) error {
	res, err := s.exec(ctx,
		"UPDATE daily_logs SET mood_score = ?, free_note = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		nullInt(log.MoodScore), nullString(log.FreeNote), now(), log.ID, log.UserID)
	if err != nil {
		return s.writeErr(err, "daily log")
	}
	return affected(res, "daily log")
}

func (s *Store) DeleteDailyLog(ctx context.Context, userID, date string) error {
	res, err := s.exec(ctx, "DELETE FROM daily_logs WHERE user_id = ? AND date = ?", userID, date)
	if err != nil {
		return fmt.Errorf("failed to delete daily log: %w", err)
	}
	return affected(res, "daily log")
}

func (s *Store) GetDailyLogs(ctx context.Context, userID string, limit, offset int) ([]models.DailyLog, error) {
	rows, err := s.query(ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE user_id = ? ORDER BY date DESC LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	logs, err := collectDailyLogs(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachChildren(ctx, userID, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CountDailyLogs(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "daily log", "SELECT count(*) FROM daily_logs WHERE user_id = ?", userID)
}

func (s *Store) GetDailyLogsInRange(ctx context.Context, userID, from, to string) ([]models.DailyLog, error) {
	rows, err := s.query(ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		userID, from, to)
	if err != nil {
		return nil, err
	}
	logs, err := collectDailyLogs(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachChildren(ctx, userID, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// attachChildren loads the sleep and medication rows for logs in two queries.
// logs must be contiguous in date order, which every caller guarantees.
func (s *Store) attachChildren(ctx context.Context, userID string, logs []models.DailyLog) error {
	if len(logs) == 0 {
		return nil
	}

	from, to := logs[0].Date, logs[0].Date
	byID := make(map[string]int, len(logs))
	for i, log := range logs {
		byID[log.ID] = i
		if log.Date < from {
			from = log.Date
		}
		if log.Date > to {
			to = log.Date
		}
	}

	// Sleep logs
	sleepRows, err := s.query(ctx,
		"SELECT "+sleepSelect+" WHERE d.user_id = ? AND d.date >= ? AND d.date <= ?",
		userID, from, to)
	if err != nil {
		return fmt.Errorf("failed to load sleep logs: %w", err)
	}
	sleeps, err := collectSleepLogs(sleepRows)
	if err != nil {
		return err
	}
	for i := range sleeps {
		if idx, ok := byID[sleeps[i].DailyLogID]; ok {
			sl := sleeps[i]
			logs[idx].Sleep = &sl
		}
	}

	// Medication logs
	medRows, err := s.query(ctx,
		"SELECT "+medicationSelect+" WHERE d.user_id = ? AND d.date >= ? AND d.date <= ? ORDER BY d.date, "+timingOrder+", m.medicine_name",
		userID, from, to)
	if err != nil {
		return fmt.Errorf("failed to load medication logs: %w", err)
	}
	meds, err := collectMedicationLogs(medRows)
	if err != nil {
		return err
	}
	for _, m := range meds {
		if idx, ok := byID[m.DailyLogID]; ok {
			logs[idx].Medications = append(logs[idx].Medications, m)
		}
	}

	return nil
}

func collectDailyLogs(rows *sql.Rows) ([]models.DailyLog, error) {
	defer rows.Close()
	var logs []models.DailyLog
	for rows.Next() {
		log, err := scanDailyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanDailyLog(row scanner) (models.DailyLog, error) {
	var log models.DailyLog
	var mood sql.NullInt64
	var note sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&log.ID, &log.UserID, &log.Date, &mood, &note, &createdAt, &updatedAt); err != nil {
		return models.DailyLog{}, err
	}
	log.MoodScore = intPtr(mood)
	log.FreeNote = stringPtr(note)

	var err error
	if log.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return models.DailyLog{}, err
	}
	if log.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return models.DailyLog{}, err
	}
	return log, nil
}
