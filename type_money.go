package budget

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Money represents a monetary value in a given currency.
//
// The zero Money is a valid zero amount with no currency: it adopts the
// currency of the other operand in arithmetic.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M builds a Money from a numeric value and an ISO 4217 currency code.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

func newDecimal[T float64 | int | int64 | decimal.Decimal](v T) decimal.Decimal {
	switch x := any(v).(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case decimal.Decimal:
		return x
	}
	return decimal.Zero
}

// KnownCurrency reports whether code is an ISO 4217 currency known to go-money.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// currency returns the money's currency, or nil when the code is unknown.
func (m Money) currency() *money.Currency { return money.GetCurrency(m.cur) }

// fraction is the number of minor unit digits of the currency, 2 when unknown.
func (m Money) fraction() int32 {
	if c := m.currency(); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

// String returns the amount formatted for display, such as "₹1,450.00".
func (m Money) String() string {
	c := m.currency()
	if c == nil {
		return m.value.StringFixed(2)
	}
	minor := m.value.Shift(int32(c.Fraction)).Round(0)
	return c.Formatter().Format(minor.IntPart())
}

// SignedString returns the amount with an explicit sign, "-" for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// In returns the same amount expressed in currency code.
func (m Money) In(code string) Money { return Money{value: m.value, cur: code} }

// Round rounds the amount to the minor unit of its currency.
func (m Money) Round() Money {
	return Money{value: m.value.Round(m.fraction()), cur: m.cur}
}

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// Percent returns m as a percentage of total, rounded to one decimal.
// A zero total yields zero.
func (m Money) Percent(total Money) decimal.Decimal {
	if total.value.IsZero() {
		return decimal.Zero
	}
	return m.value.Div(total.value).Mul(decimal.NewFromInt(100)).Round(1)
}

// MarshalJSON writes the amount as a bare JSON number rounded to the currency's minor unit.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.Round(m.fraction()).MarshalJSON()
}

// ParseAmount parses a user supplied amount in currency code.
//
// Both "12.34" and "12,34" are accepted. The amount must be a number greater
// than or equal to zero, it is rounded to the currency's minor unit.
func ParseAmount(field, s, code string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, invalid(field, "amount is required")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, invalid(field, "%q is not a valid amount", s)
	}
	if v.IsNegative() {
		return Money{}, invalid(field, "amount cannot be negative, got %s", s)
	}
	return Money{value: v, cur: code}.Round(), nil
}
