package budget

import "github.com/shopspring/decimal"

// Goal is a savings target with the amount put aside so far.
// Allocated may exceed Target.
type Goal struct {
	Name      string
	Target    Money
	Allocated Money
}

// Progress returns the allocated share of the target in percent. It is not
// capped at 100, and is zero when the target is zero.
func (g Goal) Progress() decimal.Decimal { return g.Allocated.Percent(g.Target) }

// Remaining returns what is left to allocate, never negative.
func (g Goal) Remaining() Money {
	r := g.Target.Sub(g.Allocated)
	if r.IsNegative() {
		return M(0, r.Currency())
	}
	return r
}

// Reached reports whether the allocation met the target.
func (g Goal) Reached() bool { return g.Allocated.GreaterThanOrEqual(g.Target) }
