// Package format renders monetary values for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// WholeCurrency returns a currency string rounded to whole dollars (e.g., "$3,606,200").
func WholeCurrency(amount float64) string {
	whole := decimal.NewFromFloat(math.Abs(amount)).StringFixed(0)
	if amount < 0 && whole != "0" {
		return "-$" + groupThousands(whole)
	}
	return "$" + groupThousands(whole)
}

// CompactCurrency abbreviates large amounts: millions keep up to two
// decimals without trailing zeros ("$3.61M", "$13.5M", "$5M"), thousands are
// rounded to whole K ("$135K") and smaller amounts are printed as is.
func CompactCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	abs := math.Abs(amount)

	switch {
	case abs >= 1_000_000:
		millions := decimal.NewFromFloat(abs).Div(decimal.NewFromInt(1_000_000)).Round(2)
		return sign + "$" + millions.String() + "M"
	case abs >= 1_000:
		thousands := decimal.NewFromFloat(abs).Div(decimal.NewFromInt(1_000))
		return sign + "$" + thousands.StringFixed(0) + "K"
	default:
		return sign + "$" + decimal.NewFromFloat(abs).Round(2).String()
	}
}

// Percent renders a percentage with the given number of decimals (e.g., "40%", "41.3%").
func Percent(value float64, decimals int32) string {
	return decimal.NewFromFloat(value).StringFixed(decimals) + "%"
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	return groupThousands(intPart) + "." + decPart
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}

	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
