// Package money implements fixed-precision currency arithmetic in integer
// minor units (e.g. cents), so account balances never accumulate the
// rounding error of repeated float64 addition.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount expressed in minor units (cents for a two-decimal
// currency). The zero value is zero money.
type Money int64

// Zero is the additive identity.
const Zero Money = 0

func (m Money) Add(other Money) Money { return m + other }
func (m Money) Sub(other Money) Money { return m - other }
func (m Money) Neg() Money            { return -m }

// Cmp returns -1, 0, or 1 as m is less than, equal to, or greater than other.
func (m Money) Cmp(other Money) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	default:
		return 0
	}
}

func (m Money) Positive() bool { return m > 0 }
func (m Money) Negative() bool { return m < 0 }

// String renders the amount at the display boundary, e.g. Money(1234) -> "12.34".
func (m Money) String() string {
	neg := m < 0
	units := int64(m)
	if neg {
		units = -units
	}
	whole, cents := units/100, units%100
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%02d", sign, whole, cents)
}

// Parse reads a decimal string like "12.34" or "-5" into minor units.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("money: empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	whole, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	var cents int64
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 2 {
			return 0, fmt.Errorf("money: amount %q has sub-cent precision", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
		}
	}
	total := whole*100 + cents
	if neg {
		total = -total
	}
	return Money(total), nil
}

// FromMinorUnits wraps a raw minor-units integer (e.g. a value read back
// from the store) as Money.
func FromMinorUnits(units int64) Money { return Money(units) }

// MinorUnits exposes the raw integer for storage.
func (m Money) MinorUnits() int64 { return int64(m) }
