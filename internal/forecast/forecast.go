// Package forecast combines the stored history and settings into a dashboard
// computed by the projection engine.
package forecast

import (
	"context"
	"fmt"

	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/adapters"
	"github.com/iwvelando/networth-forecast/pkg/projection"
	"github.com/iwvelando/networth-forecast/pkg/validation"
	"go.uber.org/zap"
)

// RecordLister lists the stored history in ascending year order.
type RecordLister interface {
	List(ctx context.Context) ([]storage.Record, error)
}

// SettingsResolver returns the settings a projection should run with.
type SettingsResolver interface {
	Effective(ctx context.Context) (storage.Settings, error)
}

// Dashboard holds everything derived from one snapshot of the stores.
type Dashboard struct {
	Records    []storage.Record        `json:"records"`
	Settings   storage.Settings        `json:"settings"`
	Summary    projection.Summary      `json:"summary"`
	History    []projection.ChartPoint `json:"history"`
	Series     []projection.ChartPoint `json:"series"`
	Projection []projection.Point      `json:"projection"`
	Milestones []projection.Milestone  `json:"milestones"`
}

// GetDashboard reads the records and effective settings and runs the
// projection engine over them. Milestone thresholds default to $5M and $10M.
// Growth assumptions that overflow the projection to an infinite value are
// reported as validation.ErrInvalidNumeric.
func GetDashboard(ctx context.Context, logger *zap.Logger, records RecordLister, settings SettingsResolver, thresholds ...float64) (Dashboard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	list, err := records.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load records: %w", err)
	}

	effective, err := settings.Effective(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load settings: %w", err)
	}

	result := projection.Compute(adapters.RecordsToProjection(list), adapters.SettingsToProjection(effective), thresholds...)

	logger.Debug("computed dashboard",
		zap.String("op", "forecast.GetDashboard"),
		zap.Int("records", len(list)),
		zap.Int("projectionYears", effective.ProjectionYears),
		zap.Float64("growthPercent", result.Summary.EffectiveGrowthPercent),
		zap.Float64("contribution", result.Summary.EffectiveAnnualContribution),
	)

	if err := checkFinite(result); err != nil {
		logger.Warn("projection is not finite",
			zap.String("op", "forecast.GetDashboard"),
			zap.Error(err),
		)
		return Dashboard{}, err
	}

	if list == nil {
		list = []storage.Record{}
	}
	return Dashboard{
		Records:    list,
		Settings:   effective,
		Summary:    result.Summary,
		History:    result.History,
		Series:     result.Series,
		Projection: result.Projection,
		Milestones: result.Milestones,
	}, nil
}

func checkFinite(result projection.Result) error {
	s := result.Summary
	summary := []struct {
		field string
		value float64
	}{
		{"total growth percentage", s.TotalGrowthPercent},
		{"average growth percentage", s.AverageGrowthPercent},
		{"effective growth percentage", s.EffectiveGrowthPercent},
		{"effective annual contribution", s.EffectiveAnnualContribution},
	}
	for _, f := range summary {
		if err := validation.ValidateAmount(f.field, f.value); err != nil {
			return err
		}
	}

	for _, p := range result.Projection {
		if err := validation.ValidateAmount(fmt.Sprintf("projected net worth for %d", p.Year), p.ProjectedNetWorth); err != nil {
			return err
		}
		if err := validation.ValidateAmount(fmt.Sprintf("projected growth for %d", p.Year), p.GrowthAmount); err != nil {
			return err
		}
	}
	for _, p := range result.Series {
		if err := validation.ValidateAmount(fmt.Sprintf("chart growth for %d", p.Year), p.CombinedGrowthAmount); err != nil {
			return err
		}
		if err := validation.ValidateOptionalAmount(fmt.Sprintf("chart net worth for %d", p.Year), p.ProjectedNetWorth); err != nil {
			return err
		}
	}
	return nil
}
