package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/networth-forecast/pkg/constants"
	"github.com/iwvelando/networth-forecast/pkg/mathutil"
)

var (
	// ErrInvalidNumeric is returned when a monetary or percentage value is
	// missing, unparsable, NaN or infinite.
	ErrInvalidNumeric = errors.New("invalid numeric value")

	// ErrInvalidSettings is returned when projection settings are out of range.
	ErrInvalidSettings = errors.New("invalid settings")
)

// ValidateAmount rejects non-finite values before they reach a store.
func ValidateAmount(field string, value float64) error {
	if !mathutil.IsFinite(value) {
		return fmt.Errorf("%s must be a finite number, got %v: %w", field, value, ErrInvalidNumeric)
	}
	return nil
}

// ValidateOptionalAmount is ValidateAmount for optional values; nil passes.
func ValidateOptionalAmount(field string, value *float64) error {
	if value == nil {
		return nil
	}
	return ValidateAmount(field, *value)
}

// ParseAmount parses user input such as "1,250,000" or " 3606200.50 " into a
// finite float.
func ParseAmount(input string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount: %w", ErrInvalidNumeric)
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount %q: %w", input, ErrInvalidNumeric)
	}
	if err := ValidateAmount("amount", value); err != nil {
		return 0, err
	}
	return value, nil
}

// ValidateSettings checks a projection horizon and its optional overrides.
func ValidateSettings(projectionYears int, customGrowthPercentage, annualContribution *float64) error {
	if projectionYears < 1 {
		return fmt.Errorf("projection years must be positive, got %d: %w", projectionYears, ErrInvalidSettings)
	}
	if projectionYears > constants.MaxProjectionYears {
		return fmt.Errorf("projection years must be at most %d, got %d: %w",
			constants.MaxProjectionYears, projectionYears, ErrInvalidSettings)
	}
	if err := ValidateOptionalAmount("custom growth percentage", customGrowthPercentage); err != nil {
		return err
	}
	return ValidateOptionalAmount("annual contribution", annualContribution)
}
