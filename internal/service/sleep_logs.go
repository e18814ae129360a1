package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/sleep"
	"github.com/julianstephens/carelog/internal/storage"
	"github.com/julianstephens/carelog/internal/utils"
	"github.com/julianstephens/carelog/internal/validation"
)

// CreateSleepLog records a night of sleep against the daily log for in.Date,
// creating the daily log if needed. Missing sleep hours are derived from the
// bedtime and wakeup time before saving.
func (s *Service) CreateSleepLog(ctx context.Context, userID string, in models.SleepLogInput) (models.SleepLog, error) {
	today, _, err := s.today(ctx)
	if err != nil {
		return models.SleepLog{}, err
	}
	if errs := validation.SleepLog(in, today); errs.HasErrors() {
		return models.SleepLog{}, errs
	}

	daily, err := s.firstOrCreateDailyLog(ctx, userID, in.Date)
	if err != nil {
		return models.SleepLog{}, err
	}
	if daily.Sleep != nil {
		return models.SleepLog{}, ErrDuplicateSleepLog
	}

	log := models.SleepLog{
		ID:           uuid.NewString(),
		DailyLogID:   daily.ID,
		Date:         daily.Date,
		Bedtime:      in.Bedtime,
		WakeupTime:   in.WakeupTime,
		SleepHours:   in.SleepHours,
		SleepQuality: in.SleepQuality,
		CreatedAt:    s.now(),
	}
	sleep.ComputeOnSave(&log)

	if err := s.store.AddSleepLog(ctx, log); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return models.SleepLog{}, ErrDuplicateSleepLog
		}
		return models.SleepLog{}, fmt.Errorf("failed to create sleep log: %w", err)
	}
	return s.GetSleepLog(ctx, userID, log.ID)
}

// GetSleepLog returns one sleep log
func (s *Service) GetSleepLog(ctx context.Context, userID, id string) (models.SleepLog, error) {
	log, err := s.store.GetSleepLog(ctx, userID, id)
	if err != nil {
		return models.SleepLog{}, notFound(err, "sleep log "+id)
	}
	return log, nil
}

// UpdateSleepLog changes the supplied fields of a sleep log. Stored sleep hours
// are only replaced when the caller supplies new hours; otherwise they are
// derived once, if still missing.
func (s *Service) UpdateSleepLog(ctx context.Context, userID, id string, in models.SleepLogInput) (models.SleepLog, error) {
	if errs := validation.SleepLog(in, ""); errs.HasErrors() {
		return models.SleepLog{}, errs
	}

	log, err := s.GetSleepLog(ctx, userID, id)
	if err != nil {
		return models.SleepLog{}, err
	}
	if in.Bedtime != nil {
		log.Bedtime = in.Bedtime
	}
	if in.WakeupTime != nil {
		log.WakeupTime = in.WakeupTime
	}
	if in.SleepQuality != nil {
		log.SleepQuality = in.SleepQuality
	}
	if in.SleepHours != nil {
		log.SleepHours = in.SleepHours
	}
	sleep.ComputeOnSave(&log)

	if err := s.store.UpdateSleepLog(ctx, userID, log); err != nil {
		return models.SleepLog{}, notFound(err, "sleep log "+id)
	}
	return s.GetSleepLog(ctx, userID, id)
}

// DeleteSleepLog removes a sleep log; the daily log stays
func (s *Service) DeleteSleepLog(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteSleepLog(ctx, userID, id); err != nil {
		return notFound(err, "sleep log "+id)
	}
	return nil
}

// ListSleepLogs returns one page of sleep logs, newest first
func (s *Service) ListSleepLogs(ctx context.Context, userID string, page, perPage int) (Page[models.SleepLog], error) {
	page, perPage = normalizePage(page, perPage, constants.DefaultPageSize)

	total, err := s.store.CountSleepLogs(ctx, userID)
	if err != nil {
		return Page[models.SleepLog]{}, err
	}
	logs, err := s.store.GetSleepLogs(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return Page[models.SleepLog]{}, fmt.Errorf("failed to list sleep logs: %w", err)
	}
	if logs == nil {
		logs = []models.SleepLog{}
	}
	return Page[models.SleepLog]{Items: logs, Total: total, Page: page, PerPage: perPage}, nil
}

// AvailableSleepDates lists the dates of the last 90 days, newest first, that
// do not have a sleep log yet.
func (s *Service) AvailableSleepDates(ctx context.Context, userID string) ([]string, error) {
	today, _, err := s.today(ctx)
	if err != nil {
		return nil, err
	}
	from, err := utils.AddDays(today, -(constants.AvailableSleepDaysBack - 1))
	if err != nil {
		return nil, err
	}

	taken, err := s.store.GetSleepLogDates(ctx, userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load sleep log dates: %w", err)
	}
	logged := make(map[string]bool, len(taken))
	for _, d := range taken {
		logged[d] = true
	}

	dates := make([]string, 0, constants.AvailableSleepDaysBack)
	for i := 0; i < constants.AvailableSleepDaysBack; i++ {
		date, err := utils.AddDays(today, -i)
		if err != nil {
			return nil, err
		}
		if !logged[date] {
			dates = append(dates, date)
		}
	}
	return dates, nil
}
