package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/carelog/internal/adherence"
	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/storage"
	"github.com/julianstephens/carelog/internal/utils"
	"github.com/julianstephens/carelog/internal/validation"
)

// CreateMedicationBatch stores one row per entry against an existing daily log
// (in.DailyLogID) or the log for in.Date, which is created when missing.
// Either every row is stored or none is.
func (s *Service) CreateMedicationBatch(ctx context.Context, userID string, in models.MedicationBatchInput) ([]models.MedicationLog, error) {
	today, _, err := s.today(ctx)
	if err != nil {
		return nil, err
	}
	if errs := validation.MedicationBatch(in, today); errs.HasErrors() {
		return nil, errs
	}

	var daily models.DailyLog
	if in.DailyLogID != "" {
		daily, err = s.store.GetDailyLogByID(ctx, userID, in.DailyLogID)
		if err != nil {
			return nil, notFound(err, "daily log "+in.DailyLogID)
		}
	} else {
		daily, err = s.firstOrCreateDailyLog(ctx, userID, in.Date)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	rows := make([]models.MedicationLog, len(in.Entries))
	for i, entry := range in.Entries {
		rows[i] = models.MedicationLog{
			ID:           uuid.NewString(),
			DailyLogID:   daily.ID,
			Date:         daily.Date,
			MedicineName: entry.MedicineName,
			Timing:       entry.Timing,
			Taken:        entry.Taken,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	if err := s.store.AddMedicationLogs(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to create medication logs: %w", err)
	}
	return rows, nil
}

// GetMedication returns one medication row
func (s *Service) GetMedication(ctx context.Context, userID, id string) (models.MedicationLog, error) {
	m, err := s.store.GetMedicationLog(ctx, userID, id)
	if err != nil {
		return models.MedicationLog{}, notFound(err, "medication log "+id)
	}
	return m, nil
}

// UpdateMedication applies the supplied fields to one medication row
func (s *Service) UpdateMedication(ctx context.Context, userID, id string, in models.MedicationUpdate) (models.MedicationLog, error) {
	if errs := validation.MedicationUpdate(in); errs.HasErrors() {
		return models.MedicationLog{}, errs
	}

	m, err := s.GetMedication(ctx, userID, id)
	if err != nil {
		return models.MedicationLog{}, err
	}
	if in.MedicineName != nil {
		m.MedicineName = *in.MedicineName
	}
	if in.Timing != nil {
		m.Timing = *in.Timing
	}
	if in.Taken != nil {
		m.Taken = *in.Taken
	}

	if err := s.store.UpdateMedicationLog(ctx, userID, m); err != nil {
		return models.MedicationLog{}, notFound(err, "medication log "+id)
	}
	return s.GetMedication(ctx, userID, id)
}

// SetMedicationTaken flips the taken flag of one row
func (s *Service) SetMedicationTaken(ctx context.Context, userID, id string, taken bool) (models.MedicationLog, error) {
	return s.UpdateMedication(ctx, userID, id, models.MedicationUpdate{Taken: &taken})
}

// DeleteMedication removes one medication row
func (s *Service) DeleteMedication(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteMedicationLog(ctx, userID, id); err != nil {
		return notFound(err, "medication log "+id)
	}
	return nil
}

// MedicationHistory returns one page of medication rows, newest day first
func (s *Service) MedicationHistory(ctx context.Context, userID string, page, perPage int) (Page[models.MedicationLog], error) {
	page, perPage = normalizePage(page, perPage, constants.MedicationHistorySize)

	total, err := s.store.CountMedicationLogs(ctx, userID)
	if err != nil {
		return Page[models.MedicationLog]{}, err
	}
	logs, err := s.store.GetMedicationLogs(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return Page[models.MedicationLog]{}, fmt.Errorf("failed to list medication logs: %w", err)
	}
	if logs == nil {
		logs = []models.MedicationLog{}
	}
	return Page[models.MedicationLog]{Items: logs, Total: total, Page: page, PerPage: perPage}, nil
}

// TodayMedications returns today's daily log with its medication rows. When today
// has no rows yet, yesterday's lineup is copied in with every dose untaken.
func (s *Service) TodayMedications(ctx context.Context, userID string) (models.DailyLog, error) {
	today, _, err := s.today(ctx)
	if err != nil {
		return models.DailyLog{}, err
	}
	daily, err := s.firstOrCreateDailyLog(ctx, userID, today)
	if err != nil {
		return models.DailyLog{}, err
	}
	if len(daily.Medications) > 0 {
		return daily, nil
	}

	yesterday, err := utils.AddDays(today, -1)
	if err != nil {
		return models.DailyLog{}, err
	}
	previous, err := s.store.GetDailyLog(ctx, userID, yesterday)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(previous.Medications) == 0) {
		return daily, nil
	}
	if err != nil {
		return models.DailyLog{}, err
	}

	now := s.now()
	rows := make([]models.MedicationLog, len(previous.Medications))
	for i, m := range previous.Medications {
		rows[i] = models.MedicationLog{
			ID:           uuid.NewString(),
			DailyLogID:   daily.ID,
			MedicineName: m.MedicineName,
			Timing:       m.Timing,
			CreatedAt:    now,
		}
	}
	if err := s.store.AddMedicationLogs(ctx, rows); err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to copy yesterday's medications: %w", err)
	}
	return s.GetDailyLog(ctx, userID, today)
}

// TakeAllInTiming marks every untaken dose of a timing on today's log as taken
// and returns how many rows changed.
func (s *Service) TakeAllInTiming(ctx context.Context, userID string, timing models.Timing) (int, error) {
	if !timing.Valid() {
		return 0, validation.Errors{{Field: "timing", Message: "must be one of morning, afternoon, evening, bedtime, as_needed"}}
	}
	today, _, err := s.today(ctx)
	if err != nil {
		return 0, err
	}
	daily, err := s.store.GetDailyLog(ctx, userID, today)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return s.store.SetTimingTaken(ctx, userID, daily.ID, timing)
}

// MedicationStats computes all-time adherence with a per-medicine breakdown
func (s *Service) MedicationStats(ctx context.Context, userID string) (adherence.Summary, error) {
	logs, err := s.store.GetAllMedicationLogs(ctx, userID)
	if err != nil {
		return adherence.Summary{}, fmt.Errorf("failed to load medication logs: %w", err)
	}
	return adherence.Compute(logs), nil
}
