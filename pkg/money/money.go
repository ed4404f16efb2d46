// Package money holds the rounding and parsing rules shared by every monetary
// amount in the loan book. All amounts are single-currency decimals carried to
// two places.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places kept on stored amounts.
const Scale = 2

var (
	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooPrecise is returned when an amount carries more than two decimal places.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
)

// Round rounds an amount to two places, half away from zero. For the
// non-negative amounts used here that is conventional half-up rounding.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// FromFloat converts a float result into a rounded amount.
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}

// Parse parses a textual amount. Amounts with more than two decimal places
// are rejected rather than silently rounded.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidAmount, s, err)
	}
	if !FitsScale(d) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrTooPrecise, s)
	}
	return d, nil
}

// MustParse parses an amount and panics on error. Intended for constants and tests.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FitsScale reports whether d can be stored without rounding, i.e. it has at
// most two decimal places.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(Round(d))
}

// IsPositive reports whether d > 0.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
