// Package records manages the yearly net-worth history: one record per year,
// upserted by year, with growth fields derived when a record is appended.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/adapters"
	"github.com/iwvelando/networth-forecast/pkg/constants"
	"github.com/iwvelando/networth-forecast/pkg/mathutil"
	"github.com/iwvelando/networth-forecast/pkg/projection"
	"github.com/iwvelando/networth-forecast/pkg/validation"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when an identifier does not reference a record.
	ErrNotFound = storage.ErrNotFound

	// ErrDuplicateYear is returned when an update would move a record onto a
	// year held by another record.
	ErrDuplicateYear = storage.ErrDuplicateYear
)

// Entry holds the writable fields of a record.
type Entry struct {
	Year             int      `json:"year"`
	Age              int      `json:"age"`
	NetWorth         float64  `json:"netWorth"`
	GrowthPercentage *float64 `json:"growthPercentage,omitempty"`
	GrowthAmount     *float64 `json:"growthAmount,omitempty"`
}

func (e Entry) validate() error {
	if err := validation.ValidateAmount("net worth", e.NetWorth); err != nil {
		return err
	}
	if err := validation.ValidateOptionalAmount("growth percentage", e.GrowthPercentage); err != nil {
		return err
	}
	return validation.ValidateOptionalAmount("growth amount", e.GrowthAmount)
}

func (e Entry) record(id string) storage.Record {
	return storage.Record{
		ID:               id,
		Year:             e.Year,
		Age:              e.Age,
		NetWorth:         e.NetWorth,
		GrowthPercentage: e.GrowthPercentage,
		GrowthAmount:     e.GrowthAmount,
	}
}

// Service is the record store.
type Service struct {
	backend     storage.Backend
	logger      *zap.Logger
	startingAge int
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStartingAge sets the age suggested by NextEntry for an empty store.
func WithStartingAge(age int) Option {
	return func(s *Service) {
		s.startingAge = age
	}
}

// WithClock overrides the clock used by NextEntry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a record store on backend.
func NewService(backend storage.Backend, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		backend:     backend,
		logger:      logger,
		startingAge: constants.DefaultStartingAge,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every record in ascending year order.
func (s *Service) List(ctx context.Context) ([]storage.Record, error) {
	list, err := s.backend.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return list, nil
}

// Add stores e. When a record for e.Year already exists its age, net worth
// and growth fields are replaced and its identifier is returned; otherwise a
// new record is created. Growth fields are stored exactly as given.
func (s *Service) Add(ctx context.Context, e Entry) (string, error) {
	if err := e.validate(); err != nil {
		return "", err
	}

	id, inserted, err := s.backend.UpsertRecord(ctx, e.record(""))
	if err != nil {
		return "", fmt.Errorf("failed to store record for %d: %w", e.Year, err)
	}

	msg := "updated existing record"
	if inserted {
		msg = "inserted record"
	}
	s.logger.Debug(msg,
		zap.String("op", "records.Add"),
		zap.String("id", id),
		zap.Int("year", e.Year),
	)
	return id, nil
}

// Append adds a record for year whose growth fields are derived from the
// closest earlier record. Growth is not cascaded to later records.
func (s *Service) Append(ctx context.Context, year, age int, netWorth float64) (string, error) {
	if err := validation.ValidateAmount("net worth", netWorth); err != nil {
		return "", err
	}

	list, err := s.List(ctx)
	if err != nil {
		return "", err
	}

	var earlier []storage.Record
	for _, r := range list {
		if r.Year < year {
			earlier = append(earlier, r)
		}
	}

	growth, err := projection.DeriveGrowthStrict(adapters.RecordsToProjection(earlier), netWorth)
	if errors.Is(err, projection.ErrDegenerateGrowthBase) {
		s.logger.Warn("growth percentage left empty",
			zap.String("op", "records.Append"),
			zap.Int("year", year),
			zap.Error(err),
		)
	}

	return s.Add(ctx, Entry{
		Year:             year,
		Age:              age,
		NetWorth:         netWorth,
		GrowthPercentage: growth.Percentage,
		GrowthAmount:     growth.Amount,
	})
}

// NextEntry suggests the year and age of the next record: one past the latest
// record, or next calendar year and the starting age for an empty store.
func (s *Service) NextEntry(ctx context.Context) (int, int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(list) == 0 {
		return s.now().Year() + 1, s.startingAge, nil
	}
	last := list[len(list)-1]
	return last.Year + 1, last.Age + 1, nil
}

// Update replaces every field of the record with id. It fails with
// ErrNotFound for an unknown id and ErrDuplicateYear when e.Year belongs to a
// different record. Growth fields of later records are not recomputed.
func (s *Service) Update(ctx context.Context, id string, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	existing, err := s.backend.RecordByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up record %s: %w", id, err)
	}
	if existing == nil {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}

	other, err := s.backend.RecordByYear(ctx, e.Year)
	if err != nil {
		return fmt.Errorf("failed to look up year %d: %w", e.Year, err)
	}
	if other != nil && other.ID != id {
		return fmt.Errorf("cannot move record %s to %d: %w", id, e.Year, ErrDuplicateYear)
	}

	if err := s.backend.PatchRecord(ctx, e.record(id)); err != nil {
		return fmt.Errorf("failed to update record %s: %w", id, err)
	}
	s.logger.Debug("updated record",
		zap.String("op", "records.Update"),
		zap.String("id", id),
		zap.Int("year", e.Year),
	)
	return nil
}

// Remove deletes the record with id.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.backend.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("failed to remove record: %w", err)
	}
	s.logger.Debug("removed record",
		zap.String("op", "records.Remove"),
		zap.String("id", id),
	)
	return nil
}

// Seed fills an empty store with the reference history in a single batch. A
// store that already holds records is left untouched.
func (s *Service) Seed(ctx context.Context) (SeedStatus, error) {
	data := seedData()
	inserted, err := s.backend.InsertIfEmpty(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to seed: %w", err)
	}
	if !inserted {
		n, err := s.backend.CountRecords(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to count records: %w", err)
		}
		s.logger.Info("store already holds records; skipping seed",
			zap.String("op", "records.Seed"),
			zap.Int("count", n),
		)
		return SeedStatusAlreadySeeded, nil
	}

	s.logger.Info("seeded reference history",
		zap.String("op", "records.Seed"),
		zap.Int("count", len(data)),
	)
	return SeedStatusSeeded, nil
}

// Rederive recomputes every record's growth fields from adjacent net worths
// and stores the ones that changed. It returns the number of records updated.
func (s *Service) Rederive(ctx context.Context) (int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	derived := projection.Rederive(adapters.RecordsToProjection(list))
	changed := 0
	for i, r := range list {
		d := derived[i]
		if sameOptional(r.GrowthPercentage, d.GrowthPercentage) && sameOptional(r.GrowthAmount, d.GrowthAmount) {
			continue
		}
		r.GrowthPercentage = d.GrowthPercentage
		r.GrowthAmount = d.GrowthAmount
		if err := s.backend.PatchRecord(ctx, r); err != nil {
			return changed, fmt.Errorf("failed to rederive %d: %w", r.Year, err)
		}
		changed++
	}

	s.logger.Info("rederived growth fields",
		zap.String("op", "records.Rederive"),
		zap.Int("changed", changed),
	)
	return changed, nil
}

func sameOptional(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return mathutil.WithinTolerance(*a, *b, constants.CurrencyTolerance)
}
