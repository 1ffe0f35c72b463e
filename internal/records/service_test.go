package records

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/testutil"
	"github.com/iwvelando/networth-forecast/pkg/validation"
)

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	return NewService(storage.NewMemory(), zap.NewNop(), opts...)
}

func TestListSortedRegardlessOfInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, year := range []int{2024, 2018, 2021, 2019, 2026} {
		_, err := svc.Add(ctx, Entry{Year: year, Age: year - 1990, NetWorth: 1000})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2018, 2019, 2021, 2024, 2026}, testutil.Years(list))
}

func TestAddUpsertsByYear(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	id, err := svc.Add(ctx, Entry{Year: 2020, Age: 30, NetWorth: 200000})
	require.NoError(t, err)
	_, err = svc.Add(ctx, Entry{Year: 2021, Age: 31, NetWorth: 300000})
	require.NoError(t, err)

	again, err := svc.Add(ctx, Entry{
		Year: 2020, Age: 29, NetWorth: 250000,
		GrowthPercentage: testutil.Float(5), GrowthAmount: testutil.Float(12500),
	})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	r := testutil.FindYear(list, 2020)
	require.NotNil(t, r)
	assert.Equal(t, 29, r.Age)
	assert.Equal(t, 250000.0, r.NetWorth)
	assert.Equal(t, 5.0, *r.GrowthPercentage)
	assert.Equal(t, 12500.0, *r.GrowthAmount)
}

func TestAddUpsertClearsGrowthFields(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Add(ctx, Entry{Year: 2020, Age: 30, NetWorth: 1, GrowthAmount: testutil.Float(1)})
	require.NoError(t, err)
	_, err = svc.Add(ctx, Entry{Year: 2020, Age: 30, NetWorth: 2})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].GrowthAmount)
}

func TestAddRejectsInvalidNumbers(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Add(ctx, Entry{Year: 2020, NetWorth: math.NaN()})
	assert.ErrorIs(t, err, validation.ErrInvalidNumeric)

	_, err = svc.Add(ctx, Entry{Year: 2020, NetWorth: 1, GrowthPercentage: testutil.Float(math.Inf(1))})
	assert.ErrorIs(t, err, validation.ErrInvalidNumeric)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAppendDerivesGrowth(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Append(ctx, 2020, 30, 200000)
	require.NoError(t, err)
	_, err = svc.Append(ctx, 2021, 31, 300000)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Nil(t, list[0].GrowthPercentage)
	assert.Nil(t, list[0].GrowthAmount)
	require.NotNil(t, list[1].GrowthAmount)
	require.NotNil(t, list[1].GrowthPercentage)
	assert.Equal(t, 100000.0, *list[1].GrowthAmount)
	assert.Equal(t, 50.0, *list[1].GrowthPercentage)
}

func TestAppendUsesClosestEarlierYear(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Append(ctx, 2020, 30, 100)
	require.NoError(t, err)
	_, err = svc.Append(ctx, 2022, 32, 400)
	require.NoError(t, err)

	// Filling the gap compares against 2020, not the latest record.
	_, err = svc.Append(ctx, 2021, 31, 150)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	r := testutil.FindYear(list, 2021)
	require.NotNil(t, r)
	assert.Equal(t, 50.0, *r.GrowthAmount)
	assert.Equal(t, 50.0, *r.GrowthPercentage)
}

func TestAppendAfterZeroNetWorth(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Append(ctx, 2020, 30, 0)
	require.NoError(t, err)
	_, err = svc.Append(ctx, 2021, 31, 5000)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	r := testutil.FindYear(list, 2021)
	require.NotNil(t, r)
	assert.Nil(t, r.GrowthPercentage)
	require.NotNil(t, r.GrowthAmount)
	assert.Equal(t, 5000.0, *r.GrowthAmount)
}

func TestNextEntry(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC) }
	svc := newService(t, WithClock(clock), WithStartingAge(40))

	year, age, err := svc.NextEntry(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2027, year)
	assert.Equal(t, 40, age)

	_, err = svc.Add(ctx, Entry{Year: 2030, Age: 44, NetWorth: 1})
	require.NoError(t, err)
	year, age, err = svc.NextEntry(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2031, year)
	assert.Equal(t, 45, age)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	id, err := svc.Add(ctx, Entry{Year: 2020, Age: 30, NetWorth: 100})
	require.NoError(t, err)
	other, err := svc.Add(ctx, Entry{Year: 2021, Age: 31, NetWorth: 200})
	require.NoError(t, err)

	t.Run("Replaces every field", func(t *testing.T) {
		err := svc.Update(ctx, id, Entry{Year: 2019, Age: 29, NetWorth: 90, GrowthAmount: testutil.Float(-10)})
		require.NoError(t, err)

		list, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2019, 2021}, testutil.Years(list))
		assert.Equal(t, -10.0, *list[0].GrowthAmount)
	})

	t.Run("Unknown id", func(t *testing.T) {
		err := svc.Update(ctx, "missing", Entry{Year: 2040, NetWorth: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Year held by another record", func(t *testing.T) {
		err := svc.Update(ctx, other, Entry{Year: 2019, Age: 31, NetWorth: 200})
		assert.ErrorIs(t, err, ErrDuplicateYear)

		list, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2019, 2021}, testutil.Years(list))
	})

	t.Run("Invalid net worth", func(t *testing.T) {
		err := svc.Update(ctx, other, Entry{Year: 2021, NetWorth: math.Inf(-1)})
		assert.ErrorIs(t, err, validation.ErrInvalidNumeric)
	})
}

func TestUpdateDoesNotCascadeGrowth(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	first, err := svc.Append(ctx, 2020, 30, 100)
	require.NoError(t, err)
	_, err = svc.Append(ctx, 2021, 31, 200)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, first, Entry{Year: 2020, Age: 30, NetWorth: 50}))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *list[1].GrowthPercentage, "later growth is left stale until Rederive")

	changed, err := svc.Rederive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, *list[1].GrowthPercentage)
	assert.Equal(t, 150.0, *list[1].GrowthAmount)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	id, err := svc.Add(ctx, Entry{Year: 2020, NetWorth: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, id))
	assert.ErrorIs(t, svc.Remove(ctx, id), ErrNotFound)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	status, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedStatusSeeded, status)

	status, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedStatusAlreadySeeded, status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 10)
	assert.Equal(t, 2017, list[0].Year)
	assert.Nil(t, list[0].GrowthPercentage)
	assert.Equal(t, 2026, list[9].Year)
	assert.Equal(t, 36, list[9].Age)
	assert.Equal(t, 3606200.0, list[9].NetWorth)
	assert.Equal(t, 30.0, *list[9].GrowthPercentage)
	assert.Equal(t, 832200.0, *list[9].GrowthAmount)

	// The literal growth values agree with the derived ones.
	changed, err := svc.Rederive(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Add(ctx, Entry{Year: 2030, NetWorth: 1})
	require.NoError(t, err)

	status, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedStatusAlreadySeeded, status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSeedFailureLeavesStoreSeedable(t *testing.T) {
	backend, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "networth.db"))
	require.NoError(t, err)
	defer func() { _ = backend.Close() }()
	svc := NewService(backend, nil)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Seed(cancelled)
	require.Error(t, err)

	ctx := context.Background()
	status, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedStatusSeeded, status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 10)
}

func TestServiceOnSQLite(t *testing.T) {
	ctx := context.Background()
	backend, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "networth.db"))
	require.NoError(t, err)
	defer func() { _ = backend.Close() }()

	svc := NewService(backend, nil)
	status, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedStatusSeeded, status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	id := list[0].ID

	again, err := svc.Add(ctx, Entry{Year: 2017, Age: 27, NetWorth: 120000})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	n, err := backend.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
