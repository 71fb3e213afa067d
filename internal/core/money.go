// Package core provides money parsing and handling utilities.
//
// Money wraps an exact decimal so sums and averages never go through
// floating point. Amounts render with two decimals.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact fixed-point amount.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromCents builds an amount from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{Decimal: decimal.New(cents, -2)}
}

// Cents returns the amount in cents, rounding half away from zero.
func (m Money) Cents() int64 {
	return m.Decimal.Round(2).Shift(2).IntPart()
}

// String formats the amount with exactly two decimals.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// MarshalJSON writes the amount as a quoted two-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Decimal.StringFixed(2) + `"`), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}

// ParseAmount converts a decimal string to a positive Money value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up on the third decimal place. Negative and zero amounts are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,345") -> 12.35
func ParseAmount(s string) (Money, error) {
	m, err := ParseSignedAmount(s)
	if err != nil {
		return Money{}, err
	}
	if !m.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	return m, nil
}

// ParseSignedAmount is ParseAmount for balances, which may be zero or negative.
func ParseSignedAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Decimal: d.Round(2)}, nil
}

// SumMoney adds amounts exactly.
func SumMoney(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal)
	}
	return Money{Decimal: total}
}
