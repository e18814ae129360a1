package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/validation"
)

// Appointment listing scopes
const (
	ScopeUpcoming = "upcoming"
	ScopePast     = "past"
)

// CreateAppointment schedules a visit, optionally linked to one of the user's reports
func (s *Service) CreateAppointment(ctx context.Context, userID string, in models.AppointmentInput) (models.Appointment, error) {
	if err := s.validateAppointment(ctx, userID, &in); err != nil {
		return models.Appointment{}, err
	}

	appt := models.Appointment{
		ID:              uuid.NewString(),
		UserID:          userID,
		AppointmentDate: in.AppointmentDate,
		DoctorName:      in.DoctorName,
		ReportID:        in.ReportID,
		Memo:            in.Memo,
		CreatedAt:       s.now(),
	}
	if err := s.store.AddAppointment(ctx, appt); err != nil {
		return models.Appointment{}, fmt.Errorf("failed to create appointment: %w", err)
	}
	return s.GetAppointment(ctx, userID, appt.ID)
}

// ListAppointments returns upcoming visits soonest first, or past visits latest first
func (s *Service) ListAppointments(ctx context.Context, userID, scope string) ([]models.Appointment, error) {
	today, _, err := s.today(ctx)
	if err != nil {
		return nil, err
	}

	var appts []models.Appointment
	switch scope {
	case "", ScopeUpcoming:
		appts, err = s.store.GetUpcomingAppointments(ctx, userID, today)
	case ScopePast:
		appts, err = s.store.GetPastAppointments(ctx, userID, today)
	default:
		return nil, validation.Errors{{Field: "scope", Message: "must be upcoming or past"}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

// GetAppointment returns one appointment
func (s *Service) GetAppointment(ctx context.Context, userID, id string) (models.Appointment, error) {
	appt, err := s.store.GetAppointment(ctx, userID, id)
	if err != nil {
		return models.Appointment{}, notFound(err, "appointment "+id)
	}
	return appt, nil
}

// UpdateAppointment replaces the writable fields of an appointment
func (s *Service) UpdateAppointment(ctx context.Context, userID, id string, in models.AppointmentInput) (models.Appointment, error) {
	if err := s.validateAppointment(ctx, userID, &in); err != nil {
		return models.Appointment{}, err
	}

	appt, err := s.GetAppointment(ctx, userID, id)
	if err != nil {
		return models.Appointment{}, err
	}
	appt.AppointmentDate = in.AppointmentDate
	appt.DoctorName = in.DoctorName
	appt.ReportID = in.ReportID
	appt.Memo = in.Memo

	if err := s.store.UpdateAppointment(ctx, appt); err != nil {
		return models.Appointment{}, notFound(err, "appointment "+id)
	}
	return s.GetAppointment(ctx, userID, id)
}

// DeleteAppointment removes an appointment
func (s *Service) DeleteAppointment(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteAppointment(ctx, userID, id); err != nil {
		return notFound(err, "appointment "+id)
	}
	return nil
}

// validateAppointment checks the fields and that a linked report belongs to the user.
// An empty report id clears the link.
func (s *Service) validateAppointment(ctx context.Context, userID string, in *models.AppointmentInput) error {
	if in.ReportID != nil && *in.ReportID == "" {
		in.ReportID = nil
	}
	errs := validation.Appointment(*in)
	if in.ReportID != nil {
		if _, err := s.store.GetReport(ctx, userID, *in.ReportID); err != nil {
			errs = append(errs, validation.FieldError{Field: "report_id", Message: "unknown report"})
		}
	}
	return errs.Err()
}
