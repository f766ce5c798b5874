// Package core provides the ledger's domain types.
//
// This file contains the decimal money type. Amounts are never held in
// binary floating point, so sums over any number of entries are exact.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the ledger's single currency.
// The zero value is 0.
type Money struct {
	value decimal.Decimal
}

var maxEntryAmount = decimal.New(1, 13)

func NewMoney(d decimal.Decimal) Money {
	return Money{value: d}
}

// MoneyFromCents builds a Money from an integer count of hundredths.
func MoneyFromCents(cents int64) Money {
	return Money{value: decimal.New(cents, -2)}
}

// ParseMoney parses a positive decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) separators. Signs, more than
// two fractional digits and non-positive values are rejected rather than
// rounded or defaulted.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34, nil
//	ParseMoney("12,5")   -> 12.50, nil
//	ParseMoney("12.345") -> error
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, &ValidationError{Field: "amount", Reason: "amount is required"}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("%q must be an unsigned number", s)}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	m := Money{value: d}
	if err := m.ValidateEntryAmount(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// ValidateEntryAmount checks the invariants of an entry amount: strictly
// positive, at most two fractional digits, small enough to store as cents.
func (m Money) ValidateEntryAmount() error {
	if !m.value.IsPositive() {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("%s must be greater than zero", m.value)}
	}
	if !m.value.Equal(m.value.Truncate(2)) {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("%s has more than two decimal digits", m.value)}
	}
	if m.value.GreaterThanOrEqual(maxEntryAmount) {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("%s is too large", m.value)}
	}
	return nil
}

// Cents returns the amount in hundredths. Only exact for amounts that passed
// ValidateEntryAmount or were built from cents.
func (m Money) Cents() int64 {
	return m.value.Shift(2).IntPart()
}

func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value)} }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }

// String renders the amount with exactly two decimal digits.
func (m Money) String() string {
	return m.value.StringFixed(2)
}
