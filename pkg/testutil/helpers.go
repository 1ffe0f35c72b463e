// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/networth-forecast/internal/storage"
)

// FindYear finds the record for year in records.
// Returns a pointer to the record if found, nil otherwise.
func FindYear(records []storage.Record, year int) *storage.Record {
	for i := range records {
		if records[i].Year == year {
			return &records[i]
		}
	}
	return nil
}

// Years returns the year of every record, in order.
func Years(records []storage.Record) []int {
	years := make([]int, 0, len(records))
	for _, r := range records {
		years = append(years, r.Year)
	}
	return years
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
