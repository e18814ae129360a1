package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/stats"
	"github.com/julianstephens/carelog/internal/storage"
	"github.com/julianstephens/carelog/internal/summary"
	"github.com/julianstephens/carelog/internal/utils"
	"github.com/julianstephens/carelog/internal/validation"
)

// GenerateReport snapshots the statistics of a period ahead of an appointment and
// links the new report to the user's latest one. Without a free summary the
// generated narrative is stored instead.
func (s *Service) GenerateReport(ctx context.Context, userID string, in models.ReportInput) (models.Report, error) {
	if errs := validation.Report(in); errs.HasErrors() {
		return models.Report{}, errs
	}
	r, settings, err := s.resolveRange(ctx, RangeQuery{Period: in.Period, From: in.From, To: in.To})
	if err != nil {
		return models.Report{}, err
	}
	logs, err := s.LogsInRange(ctx, userID, r.From, r.To)
	if err != nil {
		return models.Report{}, err
	}

	input := summary.FromLogs(logs, r.Period.Label(settings.Locale), settings.Locale)
	trend := stats.ClassifyTrend(stats.MoodSeries(logs)).ReportTrend()

	report := models.Report{
		ID:                  uuid.NewString(),
		UserID:              userID,
		AppointmentDate:     in.AppointmentDate,
		FromDate:            r.From,
		ToDate:              r.To,
		AvgMood:             round2(input.Stats.MoodAvg),
		MoodTrend:           &trend,
		AvgSleepHours:       round2(input.Stats.SleepAvg),
		MedicationAdherence: utils.Float(input.Stats.AdherenceRate),
		SymptomSummary:      in.SymptomSummary,
		FreeSummary:         in.FreeSummary,
		CreatedAt:           s.now(),
	}
	if report.FreeSummary == nil {
		report.FreeSummary = utils.String(summary.Generate(input, settings.Locale))
	}

	previous, err := s.store.GetLatestReport(ctx, userID)
	switch {
	case err == nil:
		report.PreviousReportID = &previous.ID
	case !errors.Is(err, storage.ErrNotFound):
		return models.Report{}, err
	}

	if err := s.store.AddReport(ctx, report); err != nil {
		return models.Report{}, fmt.Errorf("failed to create report: %w", err)
	}
	return s.GetReport(ctx, userID, report.ID)
}

// GetReport returns one report
func (s *Service) GetReport(ctx context.Context, userID, id string) (models.Report, error) {
	report, err := s.store.GetReport(ctx, userID, id)
	if err != nil {
		return models.Report{}, notFound(err, "report "+id)
	}
	return report, nil
}

// ListReports returns every report, latest appointment first
func (s *Service) ListReports(ctx context.Context, userID string) ([]models.Report, error) {
	reports, err := s.store.GetReports(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

// NextReport follows the report chain forward from id
func (s *Service) NextReport(ctx context.Context, userID, id string) (models.Report, error) {
	if _, err := s.GetReport(ctx, userID, id); err != nil {
		return models.Report{}, err
	}
	next, err := s.store.GetNextReport(ctx, userID, id)
	if err != nil {
		return models.Report{}, notFound(err, "next report of "+id)
	}
	return next, nil
}

// DeleteReport removes a report. Reports and appointments pointing at it are unlinked.
func (s *Service) DeleteReport(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteReport(ctx, userID, id); err != nil {
		return notFound(err, "report "+id)
	}
	return nil
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return utils.Float(utils.Round(*v, 2))
}
