package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrAmountOverflow is returned when a total does not fit in Money
var ErrAmountOverflow = errors.New("amount out of range")

// Money is an amount in minor units (paise/cents). It is written to JSON as a
// decimal number with at most two fractional digits.
type Money int64

// NewMoney converts a decimal amount to Money, rounding half away from zero.
func NewMoney(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// Times multiplies a unit price by a count. Both must be non-negative.
func (m Money) Times(n int) (Money, error) {
	if m < 0 || n < 0 {
		return 0, fmt.Errorf("%w: %s x %d", ErrAmountOverflow, m, n)
	}
	if n != 0 && m > math.MaxInt64/Money(n) {
		return 0, fmt.Errorf("%w: %s x %d", ErrAmountOverflow, m, n)
	}
	return m * Money(n), nil
}

func (m Money) String() string {
	sign, units, cents := m.split()
	return fmt.Sprintf("%s%d.%02d", sign, units, cents)
}

// MarshalJSON writes the exact decimal without trailing zeros: 500, 12.9, 12.99.
func (m Money) MarshalJSON() ([]byte, error) {
	sign, units, cents := m.split()
	out := sign + strconv.FormatUint(units, 10)
	switch {
	case cents == 0:
	case cents%10 == 0:
		out += "." + strconv.FormatUint(cents/10, 10)
	default:
		out += fmt.Sprintf(".%02d", cents)
	}
	return []byte(out), nil
}

func (m Money) split() (sign string, units, cents uint64) {
	abs := uint64(m)
	if m < 0 {
		sign = "-"
		abs = -abs
	}
	return sign, abs / 100, abs % 100
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid money amount %s: %w", data, err)
	}
	*m = NewMoney(f)
	return nil
}

// UnmarshalYAML lets catalog files carry prices like 12.99.
func (m *Money) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var f float64
	if err := unmarshal(&f); err != nil {
		return fmt.Errorf("invalid money amount: %w", err)
	}
	*m = NewMoney(f)
	return nil
}
