// Package settings manages the single projection-settings object.
package settings

import (
	"context"
	"fmt"

	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/constants"
	"github.com/iwvelando/networth-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Service reads and writes the settings singleton.
type Service struct {
	backend      storage.Backend
	logger       *zap.Logger
	defaultYears int
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultProjectionYears sets the horizon Effective reports before any
// settings have been stored.
func WithDefaultProjectionYears(years int) Option {
	return func(s *Service) {
		if years > 0 {
			s.defaultYears = years
		}
	}
}

// NewService creates a settings store on backend.
func NewService(backend storage.Backend, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		backend:      backend,
		logger:       logger,
		defaultYears: constants.DefaultProjectionYears,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored settings, or nil if none have been written.
func (s *Service) Get(ctx context.Context) (*storage.Settings, error) {
	stored, err := s.backend.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return stored, nil
}

// Update creates the settings on first use and replaces all three fields
// afterwards. A nil override clears it.
func (s *Service) Update(ctx context.Context, next storage.Settings) error {
	if err := validation.ValidateSettings(next.ProjectionYears, next.CustomGrowthPercentage, next.AnnualContribution); err != nil {
		return err
	}

	if err := s.backend.PutSettings(ctx, next); err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}

	s.logger.Debug("stored settings",
		zap.String("op", "settings.Update"),
		zap.Int("projectionYears", next.ProjectionYears),
		zap.Bool("customGrowth", next.CustomGrowthPercentage != nil),
		zap.Bool("contribution", next.AnnualContribution != nil),
	)
	return nil
}

// Effective returns the stored settings, or the defaults when nothing has
// been stored yet.
func (s *Service) Effective(ctx context.Context) (storage.Settings, error) {
	stored, err := s.Get(ctx)
	if err != nil {
		return storage.Settings{}, err
	}
	if stored == nil {
		return s.Defaults(), nil
	}
	return *stored, nil
}

// Defaults returns the settings used before the first write.
func (s *Service) Defaults() storage.Settings {
	return storage.Settings{ProjectionYears: s.defaultYears}
}
