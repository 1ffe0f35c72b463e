package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/networth-forecast/pkg/constants"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  float64
		expectErr bool
	}{
		{"Plain number", "3606200", 3606200, false},
		{"Thousands separators", "1,250,000", 1250000, false},
		{"Surrounding spaces", "  4500.50 ", 4500.5, false},
		{"Negative", "-1000", -1000, false},
		{"Empty", "", 0, true},
		{"Letters", "abc", 0, true},
		{"NaN literal", "NaN", 0, true},
		{"Infinity literal", "Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.expectErr {
				if !errors.Is(err, ErrInvalidNumeric) {
					t.Fatalf("ParseAmount(%q) error = %v, expected ErrInvalidNumeric", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseAmount(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount("net worth", 100); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAmount("net worth", math.NaN()); !errors.Is(err, ErrInvalidNumeric) {
		t.Errorf("expected ErrInvalidNumeric for NaN, got %v", err)
	}
	if err := ValidateOptionalAmount("growth", nil); err != nil {
		t.Errorf("nil optional should pass, got %v", err)
	}
	inf := math.Inf(1)
	if err := ValidateOptionalAmount("growth", &inf); !errors.Is(err, ErrInvalidNumeric) {
		t.Errorf("expected ErrInvalidNumeric for +Inf, got %v", err)
	}
}

func TestValidateSettings(t *testing.T) {
	ten := 10.0
	nan := math.NaN()

	tests := []struct {
		name        string
		years       int
		growth      *float64
		contrib     *float64
		expectedErr error
	}{
		{"Valid with overrides", 10, &ten, &ten, nil},
		{"Valid without overrides", 1, nil, nil, nil},
		{"Zero years", 0, nil, nil, ErrInvalidSettings},
		{"Negative years", -3, nil, nil, ErrInvalidSettings},
		{"Longest horizon", constants.MaxProjectionYears, nil, nil, nil},
		{"Past the longest horizon", constants.MaxProjectionYears + 1, nil, nil, ErrInvalidSettings},
		{"Huge horizon", 1 << 50, nil, nil, ErrInvalidSettings},
		{"NaN growth", 5, &nan, nil, ErrInvalidNumeric},
		{"NaN contribution", 5, nil, &nan, ErrInvalidNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettings(tt.years, tt.growth, tt.contrib)
			if tt.expectedErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("error = %v, expected %v", err, tt.expectedErr)
			}
		})
	}
}
