package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/carelog/internal/models"
)

const reportColumns = `id, user_id, appointment_date, from_date, to_date, avg_mood, mood_trend, avg_sleep_hours,
	medication_adherence, symptom_summary, free_summary, previous_report_id, created_at, updated_at`

func (s *Store) AddReport(ctx context.Context, r models.Report) error {
	var symptoms sql.NullString
	if r.SymptomSummary != nil {
		data, err := json.Marshal(r.SymptomSummary)
		if err != nil {
			return fmt.Errorf("failed to encode symptom summary: %w", err)
		}
		symptoms = sql.NullString{String: string(data), Valid: true}
	}

	var trend sql.NullString
	if r.MoodTrend != nil {
		trend = sql.NullString{String: string(*r.MoodTrend), Valid: true}
	}

	_, err := s.exec(ctx,
		"INSERT INTO reports ("+reportColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.UserID, r.AppointmentDate, r.FromDate, r.ToDate,
		nullFloat(r.AvgMood), trend, nullFloat(r.AvgSleepHours), nullFloat(r.MedicationAdherence),
		symptoms, nullString(r.FreeSummary), nullString(r.PreviousReportID),
		formatTime(r.CreatedAt), now())
	return s.writeErr(err, "report")
}

func (s *Store) GetReport(ctx context.Context, userID, id string) (models.Report, error) {
	row := s.queryRow(ctx, "SELECT "+reportColumns+" FROM reports WHERE user_id = ? AND id = ?", userID, id)
	return getReport(row)
}

func (s *Store) GetLatestReport(ctx context.Context, userID string) (models.Report, error) {
	row := s.queryRow(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE user_id = ? ORDER BY appointment_date DESC, created_at DESC LIMIT 1",
		userID)
	return getReport(row)
}

func (s *Store) GetNextReport(ctx context.Context, userID, id string) (models.Report, error) {
	row := s.queryRow(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE user_id = ? AND previous_report_id = ? ORDER BY created_at LIMIT 1",
		userID, id)
	return getReport(row)
}

func (s *Store) GetReports(ctx context.Context, userID string) ([]models.Report, error) {
	rows, err := s.query(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE user_id = ? ORDER BY appointment_date DESC, created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Store) DeleteReport(ctx context.Context, userID, id string) error {
	res, err := s.exec(ctx, "DELETE FROM reports WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return affected(res, "report")
}

func getReport(row *sql.Row) (models.Report, error) {
	r, err := scanReport(row)
	if err != nil {
		return models.Report{}, readErr(err, "report")
	}
	return r, nil
}

func scanReport(row scanner) (models.Report, error) {
	var r models.Report
	var avgMood, avgSleep, adherence sql.NullFloat64
	var trend, symptoms, freeSummary, previous sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&r.ID, &r.UserID, &r.AppointmentDate, &r.FromDate, &r.ToDate,
		&avgMood, &trend, &avgSleep, &adherence, &symptoms, &freeSummary, &previous,
		&createdAt, &updatedAt)
	if err != nil {
		return models.Report{}, err
	}

	r.AvgMood = floatPtr(avgMood)
	r.AvgSleepHours = floatPtr(avgSleep)
	r.MedicationAdherence = floatPtr(adherence)
	r.FreeSummary = stringPtr(freeSummary)
	r.PreviousReportID = stringPtr(previous)
	if trend.Valid {
		t := models.MoodTrend(trend.String)
		r.MoodTrend = &t
	}
	if symptoms.Valid && symptoms.String != "" {
		var summary models.SymptomSummary
		if err := json.Unmarshal([]byte(symptoms.String), &summary); err != nil {
			return models.Report{}, fmt.Errorf("failed to decode symptom summary: %w", err)
		}
		r.SymptomSummary = &summary
	}

	if r.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return models.Report{}, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return models.Report{}, err
	}
	return r, nil
}
