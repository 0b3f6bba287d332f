// Package money holds the fixed-point amount type used for balances and
// prices. Amounts are integer minor units (cents); conversion to decimal
// text happens only at the edges.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for display when no valid currency code is configured.
const DefaultCurrency = gomoney.USD

// Scale is the number of fractional digits carried by an Amount.
const Scale = 2

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrPrecision     = errors.New("amount supports up to 2 decimals")
	ErrOutOfRange    = errors.New("amount out of range")
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Amount is a monetary quantity in cents.
type Amount int64

// Cents builds an Amount from minor units.
func Cents(c int64) Amount { return Amount(c) }

// Units builds an Amount from whole currency units.
func Units(u int64) Amount { return Amount(u * 100) }

// Parse reads a decimal string such as "12", "12.5" or "-0.01".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return FromDecimal(d)
}

// FromDecimal converts an exact decimal into cents. Values with more than
// two significant fractional digits are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	shifted := d.Shift(Scale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, ErrPrecision
	}

	if shifted.GreaterThan(maxCents) || shifted.LessThan(minCents) {
		return 0, ErrOutOfRange
	}

	return Amount(shifted.IntPart()), nil
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders the amount with exactly two decimals and no symbol.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// IsPositive reports a > 0.
func (a Amount) IsPositive() bool { return a > 0 }

// IsNegative reports a < 0.
func (a Amount) IsNegative() bool { return a < 0 }

// Add returns a+b and false when the sum overflows.
func (a Amount) Add(b Amount) (Amount, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}

	return sum, true
}

// Mul returns a*q and false when the product overflows.
func (a Amount) Mul(q int64) (Amount, bool) {
	if a == 0 || q == 0 {
		return 0, true
	}

	p := int64(a) * q
	if p/q != int64(a) || (int64(a) == -1 && q == math.MinInt64) || (q == -1 && int64(a) == math.MinInt64) {
		return 0, false
	}

	return Amount(p), true
}

// MarshalText encodes the amount as a decimal string ("12.50").
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts anything Parse does.
func (a *Amount) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}

	*a = v

	return nil
}
