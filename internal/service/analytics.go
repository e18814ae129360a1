package service

import (
	"context"
	"errors"

	"github.com/julianstephens/carelog/internal/adherence"
	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/sentiment"
	"github.com/julianstephens/carelog/internal/sleep"
	"github.com/julianstephens/carelog/internal/stats"
	"github.com/julianstephens/carelog/internal/storage"
	"github.com/julianstephens/carelog/internal/summary"
	"github.com/julianstephens/carelog/internal/validation"
)

// RangeQuery selects a period preset, or an explicit range with PeriodCustom
type RangeQuery struct {
	Period string
	From   string
	To     string
}

// StatisticsResult is the statistics of one resolved range
type StatisticsResult struct {
	Range      stats.Range      `json:"range"`
	Statistics stats.Statistics `json:"statistics"`
}

// ChartResult is the chart series of one resolved range
type ChartResult struct {
	Range stats.Range     `json:"range"`
	Chart stats.ChartData `json:"chart"`
}

// SummaryResult is the narrative summary of one resolved range and the signals behind it
type SummaryResult struct {
	Range        stats.Range      `json:"range"`
	Summary      string           `json:"summary"`
	Statistics   stats.Statistics `json:"statistics"`
	Trend        stats.Trend      `json:"trend"`
	SleepPattern stats.SleepTier  `json:"sleep_pattern"`
	Sentiment    sentiment.Result `json:"sentiment"`
}

// Dashboard is the landing view: today, the recent week and upcoming visits
type Dashboard struct {
	Today               *models.DailyLog    `json:"today"`
	RecentLogs          []models.DailyLog   `json:"recent_logs"`
	Weekly              stats.WeeklyStats   `json:"weekly"`
	AvgSleepText        string              `json:"avg_sleep_text"`
	TodayAdherence      float64             `json:"today_adherence"`
	UpcomingAppointment *models.Appointment `json:"upcoming_appointment"`
}

// resolveRange turns a query into a concrete range ending today
func (s *Service) resolveRange(ctx context.Context, q RangeQuery) (stats.Range, models.Settings, error) {
	today, settings, err := s.today(ctx)
	if err != nil {
		return stats.Range{}, settings, err
	}

	period, err := stats.ParsePeriod(q.Period)
	if err != nil {
		return stats.Range{}, settings, validation.Errors{{Field: "period", Message: err.Error()}}
	}
	if period == stats.PeriodCustom {
		if errs := validation.DateRange(q.From, q.To); errs.HasErrors() {
			return stats.Range{}, settings, errs
		}
	}

	r, err := stats.Resolve(period, today, q.From, q.To)
	if err != nil {
		return stats.Range{}, settings, validation.Errors{{Field: "period", Message: err.Error()}}
	}
	return r, settings, nil
}

// Statistics aggregates the logs of a range
func (s *Service) Statistics(ctx context.Context, userID string, q RangeQuery) (StatisticsResult, error) {
	r, _, err := s.resolveRange(ctx, q)
	if err != nil {
		return StatisticsResult{}, err
	}
	logs, err := s.LogsInRange(ctx, userID, r.From, r.To)
	if err != nil {
		return StatisticsResult{}, err
	}
	return StatisticsResult{Range: r, Statistics: stats.Compute(logs)}, nil
}

// ChartData builds the mood and sleep series of a range
func (s *Service) ChartData(ctx context.Context, userID string, q RangeQuery) (ChartResult, error) {
	r, _, err := s.resolveRange(ctx, q)
	if err != nil {
		return ChartResult{}, err
	}
	logs, err := s.LogsInRange(ctx, userID, r.From, r.To)
	if err != nil {
		return ChartResult{}, err
	}
	return ChartResult{Range: r, Chart: stats.Chart(logs)}, nil
}

// Summary composes the narrative summary of a range in the configured locale
func (s *Service) Summary(ctx context.Context, userID string, q RangeQuery) (SummaryResult, error) {
	r, settings, err := s.resolveRange(ctx, q)
	if err != nil {
		return SummaryResult{}, err
	}
	logs, err := s.LogsInRange(ctx, userID, r.From, r.To)
	if err != nil {
		return SummaryResult{}, err
	}

	in := summary.FromLogs(logs, r.Period.Label(settings.Locale), settings.Locale)
	return SummaryResult{
		Range:        r,
		Summary:      summary.Generate(in, settings.Locale),
		Statistics:   in.Stats,
		Trend:        in.Trend,
		SleepPattern: in.Sleep,
		Sentiment:    in.Sentiment,
	}, nil
}

// Dashboard gathers today's log, the last seven logs and their weekly averages
func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	today, settings, err := s.today(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	var d Dashboard
	todayLog, err := s.store.GetDailyLog(ctx, userID, today)
	switch {
	case err == nil:
		d.Today = &todayLog
		d.TodayAdherence = adherence.Rate(todayLog.Medications)
	case !errors.Is(err, storage.ErrNotFound):
		return Dashboard{}, err
	}

	recent, err := s.store.GetDailyLogs(ctx, userID, constants.RecentLogsWindow, 0)
	if err != nil {
		return Dashboard{}, err
	}
	if recent == nil {
		recent = []models.DailyLog{}
	}
	d.RecentLogs = recent
	d.Weekly = stats.Weekly(recent, constants.RecentLogsWindow)
	if d.Weekly.AvgSleep != nil {
		d.AvgSleepText = sleep.Format(*d.Weekly.AvgSleep, settings.Locale)
	}

	upcoming, err := s.store.GetUpcomingAppointments(ctx, userID, today)
	if err != nil {
		return Dashboard{}, err
	}
	if len(upcoming) > 0 {
		d.UpcomingAppointment = &upcoming[0]
	}
	return d, nil
}
