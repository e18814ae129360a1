package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/carelog/internal/models"
)

const appointmentColumns = "id, user_id, appointment_date, doctor_name, report_id, memo, created_at, updated_at"

func (s *Store) AddAppointment(ctx context.Context, a models.Appointment) error {
	_, err := s.exec(ctx,
		"INSERT INTO appointments ("+appointmentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.UserID, a.AppointmentDate, a.DoctorName, nullString(a.ReportID), nullString(a.Memo),
		formatTime(a.CreatedAt), now())
	return s.writeErr(err, "appointment")
}

func (s *Store) GetAppointment(ctx context.Context, userID, id string) (models.Appointment, error) {
	row := s.queryRow(ctx, "SELECT "+appointmentColumns+" FROM appointments WHERE user_id = ? AND id = ?", userID, id)
	a, err := scanAppointment(row)
	if err != nil {
		return models.Appointment{}, readErr(err, "appointment")
	}
	return a, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, a models.Appointment) error {
	res, err := s.exec(ctx, `
		UPDATE appointments SET appointment_date = ?, doctor_name = ?, report_id = ?, memo = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		a.AppointmentDate, a.DoctorName, nullString(a.ReportID), nullString(a.Memo), now(), a.ID, a.UserID)
	if err != nil {
		return s.writeErr(err, "appointment")
	}
	return affected(res, "appointment")
}

func (s *Store) DeleteAppointment(ctx context.Context, userID, id string) error {
	res, err := s.exec(ctx, "DELETE FROM appointments WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return affected(res, "appointment")
}

func (s *Store) GetUpcomingAppointments(ctx context.Context, userID, today string) ([]models.Appointment, error) {
	return s.listAppointments(ctx,
		"WHERE user_id = ? AND appointment_date >= ? ORDER BY appointment_date ASC, created_at ASC", userID, today)
}

func (s *Store) GetPastAppointments(ctx context.Context, userID, today string) ([]models.Appointment, error) {
	return s.listAppointments(ctx,
		"WHERE user_id = ? AND appointment_date < ? ORDER BY appointment_date DESC, created_at DESC", userID, today)
}

func (s *Store) listAppointments(ctx context.Context, where string, args ...any) ([]models.Appointment, error) {
	rows, err := s.query(ctx, "SELECT "+appointmentColumns+" FROM appointments "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row scanner) (models.Appointment, error) {
	var a models.Appointment
	var reportID, memo sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&a.ID, &a.UserID, &a.AppointmentDate, &a.DoctorName, &reportID, &memo, &createdAt, &updatedAt)
	if err != nil {
		return models.Appointment{}, err
	}
	a.ReportID = stringPtr(reportID)
	a.Memo = stringPtr(memo)

	if a.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return models.Appointment{}, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return models.Appointment{}, err
	}
	return a, nil
}
