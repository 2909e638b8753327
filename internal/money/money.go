// Package money fixes the rounding contract for all monetary values:
// two fractional digits, rounded half away from zero at every derived
// value rather than once at the end.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Round quantizes d to the cent.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Parse parses a decimal amount from its string form.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// ParsePositive parses an amount and requires it to be > 0.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount %q must be greater than 0", s)
	}
	return d, nil
}
