package records

import "github.com/iwvelando/networth-forecast/internal/storage"

// SeedStatus reports the outcome of Seed.
type SeedStatus string

const (
	// SeedStatusSeeded means the reference history was inserted.
	SeedStatusSeeded SeedStatus = "Data seeded successfully"
	// SeedStatusAlreadySeeded means the store held records and was left alone.
	SeedStatusAlreadySeeded SeedStatus = "Data already seeded"
)

func growth(pct, amount float64) (*float64, *float64) {
	return &pct, &amount
}

// seedData is the reference history used to bootstrap an empty store, in
// year order. Growth values are literal rather than derived.
func seedData() []storage.Record {
	rows := []struct {
		year, age   int
		netWorth    float64
		pct, amount float64
		hasGrowth   bool
	}{
		{2017, 27, 111000, 0, 0, false},
		{2018, 28, 135000, 22, 24000, true},
		{2019, 29, 170225, 26, 35225, true},
		{2020, 30, 200000, 17, 29775, true},
		{2021, 31, 497000, 149, 297000, true},
		{2022, 32, 740000, 49, 243000, true},
		{2023, 33, 1220000, 65, 480000, true},
		{2024, 34, 1987000, 63, 767000, true},
		{2025, 35, 2774000, 40, 787000, true},
		{2026, 36, 3606200, 30, 832200, true},
	}

	data := make([]storage.Record, 0, len(rows))
	for _, row := range rows {
		r := storage.Record{Year: row.year, Age: row.age, NetWorth: row.netWorth}
		if row.hasGrowth {
			r.GrowthPercentage, r.GrowthAmount = growth(row.pct, row.amount)
		}
		data = append(data, r)
	}
	return data
}
