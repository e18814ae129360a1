package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/storage"
	"github.com/julianstephens/carelog/internal/utils"
	"github.com/julianstephens/carelog/internal/validation"
)

// CreateDailyLog records mood and diary for a day. A second log for the same
// day is rejected with ErrDuplicateDailyLog; the existing log is never overwritten.
func (s *Service) CreateDailyLog(ctx context.Context, userID string, in models.DailyLogInput) (models.DailyLog, error) {
	if errs := validation.DailyLog(in); errs.HasErrors() {
		return models.DailyLog{}, errs
	}

	if _, err := s.store.GetDailyLog(ctx, userID, in.Date); err == nil {
		return models.DailyLog{}, ErrDuplicateDailyLog
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.DailyLog{}, err
	}

	log := models.DailyLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      in.Date,
		MoodScore: in.MoodScore,
		FreeNote:  truncateNote(in.FreeNote),
		CreatedAt: s.now(),
	}
	if err := s.store.AddDailyLog(ctx, log); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return models.DailyLog{}, ErrDuplicateDailyLog
		}
		return models.DailyLog{}, fmt.Errorf("failed to create daily log: %w", err)
	}
	return s.GetDailyLog(ctx, userID, in.Date)
}

// GetDailyLog returns the log for a date with its sleep and medication rows
func (s *Service) GetDailyLog(ctx context.Context, userID, date string) (models.DailyLog, error) {
	log, err := s.store.GetDailyLog(ctx, userID, date)
	if err != nil {
		return models.DailyLog{}, notFound(err, "daily log "+date)
	}
	return log, nil
}

// UpdateDailyLog replaces the mood score and diary of the log for date
func (s *Service) UpdateDailyLog(ctx context.Context, userID, date string, in models.DailyLogInput) (models.DailyLog, error) {
	in.Date = date
	if errs := validation.DailyLog(in); errs.HasErrors() {
		return models.DailyLog{}, errs
	}

	log, err := s.GetDailyLog(ctx, userID, date)
	if err != nil {
		return models.DailyLog{}, err
	}
	log.MoodScore = in.MoodScore
	log.FreeNote = truncateNote(in.FreeNote)

	if err := s.store.UpdateDailyLog(ctx, log); err != nil {
		return models.DailyLog{}, notFound(err, "daily log "+date)
	}
	return s.GetDailyLog(ctx, userID, date)
}

// DeleteDailyLog removes the log for date together with its sleep and medication rows
func (s *Service) DeleteDailyLog(ctx context.Context, userID, date string) error {
	if err := s.store.DeleteDailyLog(ctx, userID, date); err != nil {
		return notFound(err, "daily log "+date)
	}
	return nil
}

// ListDailyLogs returns one page of logs, newest first
func (s *Service) ListDailyLogs(ctx context.Context, userID string, page, perPage int) (Page[models.DailyLog], error) {
	page, perPage = normalizePage(page, perPage, constants.DefaultPageSize)

	total, err := s.store.CountDailyLogs(ctx, userID)
	if err != nil {
		return Page[models.DailyLog]{}, err
	}
	logs, err := s.store.GetDailyLogs(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return Page[models.DailyLog]{}, fmt.Errorf("failed to list daily logs: %w", err)
	}
	if logs == nil {
		logs = []models.DailyLog{}
	}
	return Page[models.DailyLog]{Items: logs, Total: total, Page: page, PerPage: perPage}, nil
}

// LogsInRange returns every log in [from, to], oldest first
func (s *Service) LogsInRange(ctx context.Context, userID, from, to string) ([]models.DailyLog, error) {
	logs, err := s.store.GetDailyLogsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load logs for %s..%s: %w", from, to, err)
	}
	return logs, nil
}

// firstOrCreateDailyLog returns the log for date, creating an empty one when missing
func (s *Service) firstOrCreateDailyLog(ctx context.Context, userID, date string) (models.DailyLog, error) {
	log, err := s.store.GetDailyLog(ctx, userID, date)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.DailyLog{}, err
	}

	log = models.DailyLog{ID: uuid.NewString(), UserID: userID, Date: date, CreatedAt: s.now()}
	if err := s.store.AddDailyLog(ctx, log); err != nil && !errors.Is(err, storage.ErrConflict) {
		return models.DailyLog{}, fmt.Errorf("failed to create daily log: %w", err)
	}
	// Re-read so a concurrent insert wins consistently
	return s.store.GetDailyLog(ctx, userID, date)
}

func truncateNote(note *string) *string {
	if note == nil {
		return nil
	}
	return utils.String(utils.TruncateRunes(*note, constants.MaxFreeNoteRunes))
}
