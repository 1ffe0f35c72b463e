// Package storage persists yearly financial records and the projection
// settings singleton. Every Backend method is atomic: the year-keyed upsert
// and the seed batch are applied in one step or not at all.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/networth-forecast/pkg/constants"
)

var (
	// ErrNotFound is returned when a record identifier does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateYear is returned when a write would leave two records with
	// the same year.
	ErrDuplicateYear = errors.New("a record for this year already exists")
)

// Record is one stored year of net-worth history.
type Record struct {
	ID               string   `json:"id" yaml:"id"`
	Year             int      `json:"year" yaml:"year"`
	Age              int      `json:"age" yaml:"age"`
	NetWorth         float64  `json:"netWorth" yaml:"netWorth"`
	GrowthPercentage *float64 `json:"growthPercentage,omitempty" yaml:"growthPercentage,omitempty"`
	GrowthAmount     *float64 `json:"growthAmount,omitempty" yaml:"growthAmount,omitempty"`
}

// Settings is the stored projection configuration.
type Settings struct {
	ProjectionYears        int      `json:"projectionYears" yaml:"projectionYears"`
	CustomGrowthPercentage *float64 `json:"customGrowthPercentage,omitempty" yaml:"customGrowthPercentage,omitempty"`
	AnnualContribution     *float64 `json:"annualContribution,omitempty" yaml:"annualContribution,omitempty"`
}

// Backend is the persistence contract for records and settings.
type Backend interface {
	// ListRecords returns every record in ascending year order.
	ListRecords(ctx context.Context) ([]Record, error)
	// RecordByYear returns nil without error when no record has that year.
	RecordByYear(ctx context.Context, year int) (*Record, error)
	// RecordByID returns nil without error when the id is unknown.
	RecordByID(ctx context.Context, id string) (*Record, error)
	// UpsertRecord inserts r, or replaces the age, net worth and growth fields
	// of the record already holding r.Year. It returns that record's
	// identifier and whether a new record was created.
	UpsertRecord(ctx context.Context, r Record) (string, bool, error)
	// InsertIfEmpty inserts every record when the store holds none and
	// reports whether it did. Either all records are stored or none.
	InsertIfEmpty(ctx context.Context, records []Record) (bool, error)
	// PatchRecord replaces every field of the record with r.ID.
	PatchRecord(ctx context.Context, r Record) error
	// DeleteRecord removes the record with id.
	DeleteRecord(ctx context.Context, id string) error
	// CountRecords returns the number of stored records.
	CountRecords(ctx context.Context) (int, error)
	// GetSettings returns nil without error before the first PutSettings.
	GetSettings(ctx context.Context) (*Settings, error)
	// PutSettings creates or replaces the settings singleton.
	PutSettings(ctx context.Context, s Settings) error
	// Close releases the backend's resources.
	Close() error
}

// Open returns the backend for driver. path is only used by the SQLite driver.
func Open(driver, path string) (Backend, error) {
	switch driver {
	case constants.StorageDriverMemory:
		return NewMemory(), nil
	case constants.StorageDriverSQLite, "":
		if path == "" {
			path = constants.DefaultStoragePath
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (r Record) clone() Record {
	r.GrowthPercentage = cloneFloat(r.GrowthPercentage)
	r.GrowthAmount = cloneFloat(r.GrowthAmount)
	return r
}

func (s Settings) clone() Settings {
	s.CustomGrowthPercentage = cloneFloat(s.CustomGrowthPercentage)
	s.AnnualContribution = cloneFloat(s.AnnualContribution)
	return s
}

var (
	_ Backend = (*Memory)(nil)
	_ Backend = (*SQLite)(nil)
)
