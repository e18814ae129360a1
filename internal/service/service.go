// Package service implements carelog's operations on top of a storage.Provider.
// Every call takes the acting user's id explicitly; nothing is read from ambient state.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/storage"
	"github.com/julianstephens/carelog/internal/storage/sqlstore"
	"github.com/julianstephens/carelog/internal/utils"
)

// Service wires validation, domain computations and storage together
type Service struct {
	store storage.Provider
	now   func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the wall clock used to decide what "today" is
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service backed by store
func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying provider
func (s *Service) Store() storage.Provider {
	return s.store
}

// Page is one page of a listing plus the paging metadata
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// normalizePage clamps page numbers to >= 1 and page sizes to a sane default
func normalizePage(page, perPage, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = fallback
	}
	return page, perPage
}

// settings loads installation settings, falling back to defaults when none are stored
func (s *Service) settings(ctx context.Context) (models.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return sqlstore.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// today returns the current date in the configured timezone
func (s *Service) today(ctx context.Context) (string, models.Settings, error) {
	settings, err := s.settings(ctx)
	if err != nil {
		return "", settings, err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return "", settings, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return s.now().In(loc).Format(constants.DateFormat), settings, nil
}

// Today returns the current date in the configured timezone
func (s *Service) Today(ctx context.Context) (string, error) {
	today, _, err := s.today(ctx)
	return today, err
}
