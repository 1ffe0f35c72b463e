package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // register sqlite driver
)

const recordColumns = "id, year, age, net_worth, growth_percentage, growth_amount"

// SQLite is a Backend stored in a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening storage db: %w", err)
	}
	// A single connection serialises writers and keeps WAL readers consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var r Record
	var pct, amount sql.NullFloat64
	if err := row.Scan(&r.ID, &r.Year, &r.Age, &r.NetWorth, &pct, &amount); err != nil {
		return Record{}, err
	}
	r.GrowthPercentage = fromNull(pct)
	r.GrowthAmount = fromNull(amount)
	return r, nil
}

func fromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func toNull(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ListRecords returns every record in ascending year order.
func (s *SQLite) ListRecords(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+recordColumns+" FROM financial_records ORDER BY year ASC")
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var list []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *SQLite) queryRecord(ctx context.Context, where string, arg any) (*Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM financial_records WHERE "+where, arg)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RecordByYear uses the unique year index.
func (s *SQLite) RecordByYear(ctx context.Context, year int) (*Record, error) {
	r, err := s.queryRecord(ctx, "year = ?", year)
	if err != nil {
		return nil, fmt.Errorf("looking up year %d: %w", year, err)
	}
	return r, nil
}

// RecordByID looks a record up by primary key.
func (s *SQLite) RecordByID(ctx context.Context, id string) (*Record, error) {
	r, err := s.queryRecord(ctx, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("looking up record %s: %w", id, err)
	}
	return r, nil
}

// UpsertRecord inserts r or replaces the row holding r.Year in one
// transaction.
func (s *SQLite) UpsertRecord(ctx context.Context, r Record) (string, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, err
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRowContext(ctx, "SELECT id FROM financial_records WHERE year = ?", r.Year).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if id, err = insertTx(ctx, tx, r); err != nil {
			return "", false, err
		}
		if err := tx.Commit(); err != nil {
			return "", false, err
		}
		return id, true, nil
	case err != nil:
		return "", false, fmt.Errorf("looking up year %d: %w", r.Year, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE financial_records
		SET age = ?, net_worth = ?, growth_percentage = ?, growth_amount = ?, updated_at = ?
		WHERE id = ?`,
		r.Age, r.NetWorth, toNull(r.GrowthPercentage), toNull(r.GrowthAmount), now(), id,
	)
	if err != nil {
		return "", false, fmt.Errorf("updating record %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, err
	}
	return id, false, nil
}

// InsertIfEmpty inserts records in one transaction when the table is empty.
func (s *SQLite) InsertIfEmpty(ctx context.Context, records []Record) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM financial_records").Scan(&n); err != nil {
		return false, fmt.Errorf("counting records: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	for _, r := range records {
		if err := yearTaken(ctx, tx, r.Year, ""); err != nil {
			return false, fmt.Errorf("insert year %d: %w", r.Year, err)
		}
		if _, err := insertTx(ctx, tx, r); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func insertTx(ctx context.Context, tx *sql.Tx, r Record) (string, error) {
	id := uuid.NewString()
	ts := now()
	_, err := tx.ExecContext(ctx, `INSERT INTO financial_records
		(id, year, age, net_worth, growth_percentage, growth_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Year, r.Age, r.NetWorth, toNull(r.GrowthPercentage), toNull(r.GrowthAmount), ts, ts,
	)
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	return id, nil
}

// PatchRecord replaces every field of the record with r.ID.
func (s *SQLite) PatchRecord(ctx context.Context, r Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := yearTaken(ctx, tx, r.Year, r.ID); err != nil {
		return fmt.Errorf("patch %s to year %d: %w", r.ID, r.Year, err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE financial_records
		SET year = ?, age = ?, net_worth = ?, growth_percentage = ?, growth_amount = ?, updated_at = ?
		WHERE id = ?`,
		r.Year, r.Age, r.NetWorth, toNull(r.GrowthPercentage), toNull(r.GrowthAmount), now(), r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating record %s: %w", r.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("patch %s: %w", r.ID, ErrNotFound)
	}

	return tx.Commit()
}

// yearTaken reports ErrDuplicateYear when a record other than exceptID
// already holds year.
func yearTaken(ctx context.Context, tx *sql.Tx, year int, exceptID string) error {
	var id string
	err := tx.QueryRowContext(ctx, "SELECT id FROM financial_records WHERE year = ?", year).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if id != exceptID {
		return ErrDuplicateYear
	}
	return nil
}

// DeleteRecord removes the record with id.
func (s *SQLite) DeleteRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM financial_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountRecords returns the number of stored records.
func (s *SQLite) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM financial_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// GetSettings reads the settings row.
func (s *SQLite) GetSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	var growth, contribution sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		"SELECT projection_years, custom_growth_percentage, annual_contribution FROM user_settings WHERE id = 1",
	).Scan(&settings.ProjectionYears, &growth, &contribution)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	settings.CustomGrowthPercentage = fromNull(growth)
	settings.AnnualContribution = fromNull(contribution)
	return &settings, nil
}

// PutSettings creates or replaces the settings row.
func (s *SQLite) PutSettings(ctx context.Context, settings Settings) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_settings
		(id, projection_years, custom_growth_percentage, annual_contribution, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			projection_years = excluded.projection_years,
			custom_growth_percentage = excluded.custom_growth_percentage,
			annual_contribution = excluded.annual_contribution,
			updated_at = excluded.updated_at`,
		settings.ProjectionYears, toNull(settings.CustomGrowthPercentage), toNull(settings.AnnualContribution), now(),
	)
	if err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
