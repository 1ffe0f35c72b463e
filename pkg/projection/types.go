// Package projection turns a yearly net-worth history and projection
// settings into summary statistics, a forward projection and milestone
// estimates.
//
// Every function in this package is pure: the same inputs always produce the
// same outputs, nothing is logged and nothing is stored. Records are expected
// in ascending year order, which is the order the record store lists them in.
package projection

import "errors"

// ErrDegenerateGrowthBase is returned by DeriveGrowthStrict when the prior net
// worth is zero or negative, which leaves the growth percentage undefined.
var ErrDegenerateGrowthBase = errors.New("prior net worth is not positive")

// Record is one year of net-worth history.
type Record struct {
	Year             int      `json:"year"`
	Age              int      `json:"age"`
	NetWorth         float64  `json:"netWorth"`
	GrowthPercentage *float64 `json:"growthPercentage,omitempty"`
	GrowthAmount     *float64 `json:"growthAmount,omitempty"`
}

// Settings controls the projection horizon and growth assumptions.
type Settings struct {
	ProjectionYears        int      `json:"projectionYears"`
	CustomGrowthPercentage *float64 `json:"customGrowthPercentage,omitempty"`
	AnnualContribution     *float64 `json:"annualContribution,omitempty"`
}

// Point is one projected year.
type Point struct {
	Year              int     `json:"year"`
	Age               int     `json:"age"`
	ProjectedNetWorth float64 `json:"projectedNetWorth"`
	GrowthAmount      float64 `json:"growthAmount"`
}

// ChartPoint is one entry of a chart-ready series. Historical points carry
// NetWorth, projected points carry ProjectedNetWorth; the last historical
// point of a projection series carries both so the two lines meet.
type ChartPoint struct {
	Year                 int      `json:"year"`
	Age                  int      `json:"age"`
	NetWorth             *float64 `json:"netWorth,omitempty"`
	ProjectedNetWorth    *float64 `json:"projectedNetWorth,omitempty"`
	GrowthPercentage     float64  `json:"growthPercentage"`
	GrowthAmount         *float64 `json:"growthAmount,omitempty"`
	CombinedGrowthAmount float64  `json:"combinedGrowthAmount"`
	Projected            bool     `json:"isProjected"`
}

// Result bundles everything derived from one set of records and settings.
type Result struct {
	Summary    Summary      `json:"summary"`
	History    []ChartPoint `json:"history"`
	Series     []ChartPoint `json:"series"`
	Projection []Point      `json:"projection"`
	Milestones []Milestone  `json:"milestones"`
}

func latest(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	return records[len(records)-1], true
}
