package models

import (
	"github.com/shopspring/decimal"
)

// Money is a currency amount kept as an exact decimal. It is written to JSON
// as a bare number with at least two fractional digits.
type Money struct {
	decimal.Decimal
}

// NewMoney parses a decimal literal such as "19.99".
func NewMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

// MustMoney is NewMoney for literals known to be valid.
func MustMoney(value string) Money {
	return Money{Decimal: decimal.RequireFromString(value)}
}

// String renders the amount with at least two fractional digits.
func (m Money) String() string {
	if m.Exponent() > -2 {
		return m.StringFixed(2)
	}
	return m.Decimal.String()
}

// MarshalJSON writes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
