package coins

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// QuoteCurrency is the currency every price is quoted in.
const QuoteCurrency = "USD"

// Money represents a monetary value in QuoteCurrency.
type Money struct {
	value decimal.Decimal // as major unit value
}

func USD[T number](value T) Money {
	return Money{value: newDecimal(value)}
}

// currency returns the quote currency definition.
func currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, QuoteCurrency).Currency()
}

// String returns the string representation of the money value, e.g. "$1,234.56".
//
// Sub-dollar amounts keep six decimals, otherwise most tokens would read "$0.00".
func (m Money) String() string {
	cur := currency()
	if !m.value.IsZero() && m.value.Abs().LessThan(decimal.NewFromInt(1)) {
		return cur.Grapheme + m.value.StringFixed(6)
	}
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Compact formats large values with a T, B, M or K suffix, e.g. "$1.23T".
func (m Money) Compact() string {
	v := m.value.InexactFloat64()
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) Cmp(n Money) int                 { return m.value.Cmp(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value)} }
func (m Money) InexactFloat64() float64         { return m.value.InexactFloat64() }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }

// Share returns m as a percentage of total, 0 when total is zero.
func (m Money) Share(total Money) Percent {
	if total.value.IsZero() {
		return 0
	}
	return Percent(m.value.Div(total.value).Mul(decimal.NewFromInt(100)).InexactFloat64())
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

func (m *Money) UnmarshalJSON(decimalBytes []byte) error {
	return m.value.UnmarshalJSON(decimalBytes)
}
