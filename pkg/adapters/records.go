// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/projection"
)

// RecordToProjection converts a stored record to the engine's record type.
func RecordToProjection(r storage.Record) projection.Record {
	return projection.Record{
		Year:             r.Year,
		Age:              r.Age,
		NetWorth:         r.NetWorth,
		GrowthPercentage: r.GrowthPercentage,
		GrowthAmount:     r.GrowthAmount,
	}
}

// RecordsToProjection converts stored records, keeping their order.
func RecordsToProjection(records []storage.Record) []projection.Record {
	if records == nil {
		return nil
	}

	converted := make([]projection.Record, 0, len(records))
	for _, r := range records {
		converted = append(converted, RecordToProjection(r))
	}
	return converted
}

// SettingsToProjection converts stored settings to the engine's settings type.
func SettingsToProjection(s storage.Settings) projection.Settings {
	return projection.Settings{
		ProjectionYears:        s.ProjectionYears,
		CustomGrowthPercentage: s.CustomGrowthPercentage,
		AnnualContribution:     s.AnnualContribution,
	}
}
