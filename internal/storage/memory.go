package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Backend. Records are keyed by id with a year index.
type Memory struct {
	mu       sync.RWMutex
	records  map[string]Record
	byYear   map[int]string
	settings *Settings
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]Record),
		byYear:  make(map[int]string),
	}
}

// ListRecords returns every record in ascending year order.
func (m *Memory) ListRecords(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		list = append(list, r.clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Year < list[j].Year })
	return list, nil
}

// RecordByYear looks a record up through the year index.
func (m *Memory) RecordByYear(ctx context.Context, year int) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byYear[year]
	if !ok {
		return nil, nil
	}
	r := m.records[id].clone()
	return &r, nil
}

// RecordByID looks a record up by identifier.
func (m *Memory) RecordByID(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	r = r.clone()
	return &r, nil
}

// UpsertRecord inserts r or replaces the record holding r.Year.
func (m *Memory) UpsertRecord(ctx context.Context, r Record) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r = r.clone()
	if id, exists := m.byYear[r.Year]; exists {
		r.ID = id
		m.records[id] = r
		return id, false, nil
	}
	return m.insert(r), true, nil
}

// InsertIfEmpty inserts records when the store is empty. A batch holding the
// same year twice is rejected before anything is stored.
func (m *Memory) InsertIfEmpty(ctx context.Context, records []Record) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) > 0 {
		return false, nil
	}
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		if seen[r.Year] {
			return false, fmt.Errorf("insert year %d: %w", r.Year, ErrDuplicateYear)
		}
		seen[r.Year] = true
	}
	for _, r := range records {
		m.insert(r.clone())
	}
	return true, nil
}

// insert stores r under a new identifier and returns it. The caller holds
// the write lock.
func (m *Memory) insert(r Record) string {
	r.ID = uuid.NewString()
	m.records[r.ID] = r
	m.byYear[r.Year] = r.ID
	return r.ID
}

// PatchRecord replaces the record with r.ID.
func (m *Memory) PatchRecord(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[r.ID]
	if !ok {
		return fmt.Errorf("patch %s: %w", r.ID, ErrNotFound)
	}
	if other, taken := m.byYear[r.Year]; taken && other != r.ID {
		return fmt.Errorf("patch %s to year %d: %w", r.ID, r.Year, ErrDuplicateYear)
	}

	delete(m.byYear, existing.Year)
	m.records[r.ID] = r.clone()
	m.byYear[r.Year] = r.ID
	return nil
}

// DeleteRecord removes the record with id.
func (m *Memory) DeleteRecord(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(m.records, id)
	delete(m.byYear, r.Year)
	return nil
}

// CountRecords returns the number of stored records.
func (m *Memory) CountRecords(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// GetSettings returns a copy of the settings singleton.
func (m *Memory) GetSettings(ctx context.Context) (*Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return nil, nil
	}
	s := m.settings.clone()
	return &s, nil
}

// PutSettings creates or replaces the settings singleton.
func (m *Memory) PutSettings(ctx context.Context, s Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s = s.clone()
	m.settings = &s
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
