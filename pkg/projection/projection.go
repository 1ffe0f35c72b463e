package projection

import (
	"github.com/iwvelando/networth-forecast/pkg/constants"
	"github.com/iwvelando/networth-forecast/pkg/mathutil"
)

// step advances net worth by one year of growth plus contribution and
// returns the new net worth and the total change.
func step(netWorth, growthPercent, contribution float64) (float64, float64) {
	yearGrowth := mathutil.ApplyPercentage(netWorth, growthPercent) + contribution
	return netWorth + yearGrowth, yearGrowth
}

// Project compounds start forward for the given number of years, at most
// constants.MaxProjectionYears. Each year grows the running net worth by
// growthPercent and then adds contribution. Only the emitted values are
// rounded; the running value keeps full precision.
func Project(start Record, years int, growthPercent, contribution float64) []Point {
	if years <= 0 {
		return nil
	}
	years = min(years, constants.MaxProjectionYears)

	points := make([]Point, 0, years)
	current := start.NetWorth
	for i := 1; i <= years; i++ {
		var yearGrowth float64
		current, yearGrowth = step(current, growthPercent, contribution)
		points = append(points, Point{
			Year:              start.Year + i,
			Age:               start.Age + i,
			ProjectedNetWorth: mathutil.RoundHalfUp(current),
			GrowthAmount:      mathutil.RoundHalfUp(yearGrowth),
		})
	}
	return points
}

// History converts records into chart points. Missing growth fields chart
// as 0 percent and no amount.
func History(records []Record) []ChartPoint {
	points := make([]ChartPoint, 0, len(records))
	for _, r := range records {
		netWorth := r.NetWorth
		point := ChartPoint{
			Year:             r.Year,
			Age:              r.Age,
			NetWorth:         &netWorth,
			GrowthPercentage: mathutil.ValueOr(r.GrowthPercentage, 0),
		}
		if r.GrowthAmount != nil {
			amount := *r.GrowthAmount
			point.GrowthAmount = &amount
			point.CombinedGrowthAmount = amount
		}
		points = append(points, point)
	}
	return points
}

// ChartSeries returns the trailing historical points followed by the
// projection for settings. The last historical point also carries its net
// worth as ProjectedNetWorth so a chart can join both lines; it is never fed
// into the compounding.
func ChartSeries(records []Record, settings Settings) []ChartPoint {
	last, ok := latest(records)
	if !ok {
		return nil
	}

	trailing := records
	if len(trailing) > constants.ChartHistoryPoints {
		trailing = trailing[len(trailing)-constants.ChartHistoryPoints:]
	}
	series := History(trailing)

	anchor := last.NetWorth
	series[len(series)-1].ProjectedNetWorth = &anchor

	growthPercent := EffectiveGrowthPercent(records, settings)
	projected := Project(last, settings.ProjectionYears, growthPercent, EffectiveAnnualContribution(settings))
	for _, p := range projected {
		netWorth := p.ProjectedNetWorth
		series = append(series, ChartPoint{
			Year:                 p.Year,
			Age:                  p.Age,
			ProjectedNetWorth:    &netWorth,
			GrowthPercentage:     growthPercent,
			CombinedGrowthAmount: p.GrowthAmount,
			Projected:            true,
		})
	}
	return series
}

// Compute derives the full Result for records and settings. Milestone
// thresholds default to $5M and $10M when none are given.
func Compute(records []Record, settings Settings, thresholds ...float64) Result {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds()
	}

	summary := Summarize(records, settings)
	result := Result{
		Summary: summary,
		History: History(records),
		Series:  ChartSeries(records, settings),
	}

	if last, ok := latest(records); ok {
		result.Projection = Project(last, settings.ProjectionYears,
			summary.EffectiveGrowthPercent, summary.EffectiveAnnualContribution)
		result.Milestones = MilestonesFor(last, summary.EffectiveGrowthPercent,
			summary.EffectiveAnnualContribution, thresholds...)
	} else {
		result.Milestones = unreached(thresholds)
	}

	return result
}
