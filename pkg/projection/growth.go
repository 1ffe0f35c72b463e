package projection

import (
	"fmt"

	"github.com/iwvelando/networth-forecast/pkg/mathutil"
)

// Growth holds the derived growth fields for a new record.
type Growth struct {
	Percentage *float64
	Amount     *float64
}

// DeriveGrowth computes the growth fields of a record with newNetWorth that
// follows history. Both fields are nil when history is empty. When the last
// net worth is zero or negative the amount is still reported but the
// percentage is nil.
func DeriveGrowth(history []Record, newNetWorth float64) Growth {
	growth, _ := deriveGrowth(history, newNetWorth)
	return growth
}

// DeriveGrowthStrict is DeriveGrowth but reports ErrDegenerateGrowthBase
// instead of silently omitting the percentage.
func DeriveGrowthStrict(history []Record, newNetWorth float64) (Growth, error) {
	return deriveGrowth(history, newNetWorth)
}

func deriveGrowth(history []Record, newNetWorth float64) (Growth, error) {
	last, ok := latest(history)
	if !ok {
		return Growth{}, nil
	}
	return growthBetween(last.NetWorth, newNetWorth)
}

func growthBetween(previous, current float64) (Growth, error) {
	amount := current - previous
	growth := Growth{Amount: &amount}
	if previous <= 0 {
		return growth, fmt.Errorf("previous net worth %.2f: %w", previous, ErrDegenerateGrowthBase)
	}
	percentage := mathutil.RoundHalfUp(mathutil.CalculatePercentage(amount, previous))
	growth.Percentage = &percentage
	return growth, nil
}

// Rederive recomputes the growth fields of every record from adjacent net
// worths. The first record keeps no growth fields. The input is not modified.
func Rederive(records []Record) []Record {
	derived := make([]Record, len(records))
	copy(derived, records)
	for i := range derived {
		if i == 0 {
			derived[i].GrowthPercentage = nil
			derived[i].GrowthAmount = nil
			continue
		}
		growth, _ := growthBetween(records[i-1].NetWorth, records[i].NetWorth)
		derived[i].GrowthPercentage = growth.Percentage
		derived[i].GrowthAmount = growth.Amount
	}
	return derived
}
