package projection

import "github.com/iwvelando/networth-forecast/pkg/mathutil"

// Summary holds headline statistics over the record history together with
// the growth assumptions a projection will use.
type Summary struct {
	RecordCount                 int     `json:"recordCount"`
	FirstNetWorth               float64 `json:"firstNetWorth"`
	LatestNetWorth              float64 `json:"latestNetWorth"`
	LatestYear                  int     `json:"latestYear"`
	LatestAge                   int     `json:"latestAge"`
	LatestGrowthPercent         float64 `json:"latestGrowthPercent"`
	LatestGrowthAmount          float64 `json:"latestGrowthAmount"`
	TotalGrowthPercent          float64 `json:"totalGrowthPercent"`
	AverageGrowthPercent        float64 `json:"averageGrowthPercent"`
	EffectiveGrowthPercent      float64 `json:"effectiveGrowthPercent"`
	EffectiveAnnualContribution float64 `json:"effectiveAnnualContribution"`
	CustomGrowth                bool    `json:"customGrowth"`
}

// TotalGrowthPercent is the change from the first to the latest net worth in
// percent. It is 0 with fewer than two records or a non-positive first value.
func TotalGrowthPercent(records []Record) float64 {
	if len(records) < 2 {
		return 0
	}
	first := records[0].NetWorth
	if first <= 0 {
		return 0
	}
	return mathutil.CalculatePercentage(records[len(records)-1].NetWorth-first, first)
}

// AverageGrowthPercent is the mean growth percentage of every record except
// the first. Records without a growth percentage count as 0.
func AverageGrowthPercent(records []Record) float64 {
	if len(records) < 2 {
		return 0
	}
	sum := 0.0
	for _, r := range records[1:] {
		sum += mathutil.ValueOr(r.GrowthPercentage, 0)
	}
	return sum / float64(len(records)-1)
}

// EffectiveGrowthPercent returns the custom growth override when set and the
// historical average otherwise.
func EffectiveGrowthPercent(records []Record, settings Settings) float64 {
	if settings.CustomGrowthPercentage != nil {
		return *settings.CustomGrowthPercentage
	}
	return AverageGrowthPercent(records)
}

// EffectiveAnnualContribution returns the configured contribution or 0.
func EffectiveAnnualContribution(settings Settings) float64 {
	return mathutil.ValueOr(settings.AnnualContribution, 0)
}

// Summarize computes the Summary for records under settings.
func Summarize(records []Record, settings Settings) Summary {
	summary := Summary{
		RecordCount:                 len(records),
		TotalGrowthPercent:          TotalGrowthPercent(records),
		AverageGrowthPercent:        AverageGrowthPercent(records),
		EffectiveGrowthPercent:      EffectiveGrowthPercent(records, settings),
		EffectiveAnnualContribution: EffectiveAnnualContribution(settings),
		CustomGrowth:                settings.CustomGrowthPercentage != nil,
	}

	if last, ok := latest(records); ok {
		summary.FirstNetWorth = records[0].NetWorth
		summary.LatestNetWorth = last.NetWorth
		summary.LatestYear = last.Year
		summary.LatestAge = last.Age
		summary.LatestGrowthPercent = mathutil.ValueOr(last.GrowthPercentage, 0)
		summary.LatestGrowthAmount = mathutil.ValueOr(last.GrowthAmount, 0)
	}

	return summary
}
