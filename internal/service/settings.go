package service

import (
	"context"
	"fmt"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/validation"
)

// GetSettings returns the installation settings
func (s *Service) GetSettings(ctx context.Context) (models.Settings, error) {
	return s.settings(ctx)
}

// UpdateSettings validates and stores new installation settings
func (s *Service) UpdateSettings(ctx context.Context, settings models.Settings) (models.Settings, error) {
	if errs := validation.Settings(settings); errs.HasErrors() {
		return models.Settings{}, errs
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}
