package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/carelog/internal/models"
)

// medicationSelect selects medication columns joined to the owning daily log
const medicationSelect = `m.id, m.daily_log_id, d.date, m.medicine_name, m.timing, m.taken, m.created_at, m.updated_at
	FROM medication_logs m JOIN daily_logs d ON d.id = m.daily_log_id`

// timingOrder sorts timings in the order doses are taken during a day
const timingOrder = `CASE m.timing WHEN 'morning' THEN 1 WHEN 'afternoon' THEN 2 WHEN 'evening' THEN 3 WHEN 'bedtime' THEN 4 ELSE 5 END`

func (s *Store) AddMedicationLogs(ctx context.Context, logs []models.MedicationLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`
		INSERT INTO medication_logs (id, daily_log_id, medicine_name, timing, taken, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	ts := now()
	for _, m := range logs {
		if _, err := stmt.ExecContext(ctx, m.ID, m.DailyLogID, m.MedicineName, string(m.Timing), m.Taken, formatTime(m.CreatedAt), ts); err != nil {
			return s.writeErr(err, "medication log")
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit medication logs: %w", err)
	}
	return nil
}

func (s *Store) GetMedicationLog(ctx context.Context, userID, id string) (models.MedicationLog, error) {
	row := s.queryRow(ctx, "SELECT "+medicationSelect+" WHERE d.user_id = ? AND m.id = ?", userID, id)
	m, err := scanMedicationLog(row)
	if err != nil {
		return models.MedicationLog{}, readErr(err, "medication log")
	}
	return m, nil
}

func (s *Store) UpdateMedicationLog(ctx context.Context, userID string, m models.MedicationLog) error {
	res, err := s.exec(ctx, `
		UPDATE medication_logs SET medicine_name = ?, timing = ?, taken = ?, updated_at = ?
		WHERE id = ? AND daily_log_id IN (SELECT id FROM daily_logs WHERE user_id = ?)`,
		m.MedicineName, string(m.Timing), m.Taken, now(), m.ID, userID)
	if err != nil {
		return s.writeErr(err, "medication log")
	}
	return affected(res, "medication log")
}

func (s *Store) DeleteMedicationLog(ctx context.Context, userID, id string) error {
	res, err := s.exec(ctx,
		"DELETE FROM medication_logs WHERE id = ? AND daily_log_id IN (SELECT id FROM daily_logs WHERE user_id = ?)",
		id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete medication log: %w", err)
	}
	return affected(res, "medication log")
}

func (s *Store) GetMedicationLogs(ctx context.Context, userID string, limit, offset int) ([]models.MedicationLog, error) {
	rows, err := s.query(ctx,
		"SELECT "+medicationSelect+" WHERE d.user_id = ? ORDER BY d.date DESC, "+timingOrder+", m.medicine_name LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectMedicationLogs(rows)
}

func (s *Store) CountMedicationLogs(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "medication log",
		"SELECT count(*) FROM medication_logs m JOIN daily_logs d ON d.id = m.daily_log_id WHERE d.user_id = ?", userID)
}

func (s *Store) GetAllMedicationLogs(ctx context.Context, userID string) ([]models.MedicationLog, error) {
	rows, err := s.query(ctx,
		"SELECT "+medicationSelect+" WHERE d.user_id = ? ORDER BY d.date, "+timingOrder+", m.medicine_name",
		userID)
	if err != nil {
		return nil, err
	}
	return collectMedicationLogs(rows)
}

func (s *Store) SetTimingTaken(ctx context.Context, userID, dailyLogID string, timing models.Timing) (int, error) {
	res, err := s.exec(ctx, `
		UPDATE medication_logs SET taken = ?, updated_at = ?
		WHERE daily_log_id = ? AND timing = ? AND taken = ?
		AND daily_log_id IN (SELECT id FROM daily_logs WHERE user_id = ?)`,
		true, now(), dailyLogID, string(timing), false, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to update medication logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func collectMedicationLogs(rows *sql.Rows) ([]models.MedicationLog, error) {
	defer rows.Close()
	var logs []models.MedicationLog
	for rows.Next() {
		m, err := scanMedicationLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, m)
	}
	return logs, rows.Err()
}

func scanMedicationLog(row scanner) (models.MedicationLog, error) {
	var m models.MedicationLog
	var timing, createdAt, updatedAt string

	err := row.Scan(&m.ID, &m.DailyLogID, &m.Date, &m.MedicineName, &timing, &m.Taken, &createdAt, &updatedAt)
	if err != nil {
		return models.MedicationLog{}, err
	}
	m.Timing = models.Timing(timing)

	if m.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return models.MedicationLog{}, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return models.MedicationLog{}, err
	}
	return m, nil
}
