// Package reminder sends medication reminders at the configured times of day.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/julianstephens/carelog/internal/adherence"
	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/logger"
	"github.com/julianstephens/carelog/internal/metrics"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/notifier"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/utils"
)

var regularTimings = []models.Timing{
	models.TimingMorning,
	models.TimingAfternoon,
	models.TimingEvening,
	models.TimingBedtime,
}

// Reminder checks once per tick whether a reminder time has been reached
type Reminder struct {
	svc     *service.Service
	sender  notifier.Sender
	metrics *metrics.Metrics
	now     func() time.Time

	mu      sync.Mutex
	day     string
	sentFor map[string]bool // userID + "|" + timing, reset when the day changes
}

type Option func(*Reminder)

func WithClock(now func() time.Time) Option {
	return func(r *Reminder) { r.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reminder) { r.metrics = m }
}

func New(svc *service.Service, sender notifier.Sender, opts ...Option) *Reminder {
	r := &Reminder{
		svc:     svc,
		sender:  sender,
		now:     time.Now,
		sentFor: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start registers the minute job and starts the scheduler. Callers own Shutdown.
func (r *Reminder) Start(ctx context.Context) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(constants.ReminderInterval),
		gocron.NewTask(func() {
			if _, err := r.Tick(ctx); err != nil {
				logger.Error("reminder tick failed", "err", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to register reminder job: %w", err)
	}

	s.Start()
	logger.Info("medication reminders started", "interval", constants.ReminderInterval)
	return s, nil
}

// Run starts the scheduler and blocks until ctx is cancelled
func (r *Reminder) Run(ctx context.Context) error {
	s, err := r.Start(ctx)
	if err != nil {
		return err
	}
	<-ctx.Done()
	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	return nil
}

// Tick sends every reminder due at the current minute and returns how many were delivered
func (r *Reminder) Tick(ctx context.Context) (int, error) {
	settings, err := r.svc.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	if !settings.NotificationsEnabled {
		return 0, nil
	}

	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return 0, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	now := r.now().In(loc)
	today := now.Format(constants.DateFormat)
	clock := now.Format(constants.TimeFormat)

	var due []models.Timing
	for _, t := range regularTimings {
		if settings.ReminderTime(t) == clock {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	users, err := r.svc.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, user := range users {
		daily, err := r.svc.GetDailyLog(ctx, user.ID, today)
		if errors.Is(err, service.ErrNotFound) {
			continue
		}
		if err != nil {
			return sent, err
		}
		for _, t := range due {
			names := untaken(daily.Medications, t)
			if len(names) == 0 || !r.claim(today, user.ID, t) {
				continue
			}
			err := r.sender.Notify(ctx, Message(settings.Locale, t, names))
			r.metrics.ReminderSent(string(t), err == nil)
			if err != nil {
				r.release(today, user.ID, t)
				logger.Warn("failed to send reminder", "user", user.ID, "timing", t, "err", err)
				continue
			}
			logger.Debug("reminder sent", "user", user.ID, "timing", t, "count", len(names))
			sent++
		}
	}
	return sent, nil
}

// claim marks a reminder as sent for the day, returning false if it already was
func (r *Reminder) claim(day, userID string, t models.Timing) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.day != day {
		r.day = day
		r.sentFor = make(map[string]bool)
	}
	key := userID + "|" + string(t)
	if r.sentFor[key] {
		return false
	}
	r.sentFor[key] = true
	return true
}

func (r *Reminder) release(day, userID string, t models.Timing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.day == day {
		delete(r.sentFor, userID+"|"+string(t))
	}
}

func untaken(meds []models.MedicationLog, t models.Timing) []string {
	var names []string
	for _, m := range adherence.FilterTiming(meds, t) {
		if !m.Taken {
			names = append(names, m.MedicineName)
		}
	}
	return names
}

// Message renders the reminder text for the locale
func Message(locale string, t models.Timing, names []string) string {
	if locale == "ja" {
		return fmt.Sprintf("%sのお薬の時間です: %s", t.Label(locale), strings.Join(names, "、"))
	}
	return fmt.Sprintf("%s medication reminder: %s", t.Label(locale), strings.Join(names, ", "))
}
