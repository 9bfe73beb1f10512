package budget

import (
	"iter"
	"slices"

	"github.com/etnz/budget/date"
)

// MonthlyHistory aggregates the activity of one calendar month.
//
// Income is the figure of the latest income posting of the month, it is
// replaced, not summed. Expenses accumulate.
type MonthlyHistory struct {
	Month        date.YearMonth
	Income       Money
	Expenses     Money
	transactions []Transaction
}

// Transactions returns the transactions posted in the month.
func (h *MonthlyHistory) Transactions() []Transaction { return slices.Clone(h.transactions) }

// Net returns income minus expenses.
func (h *MonthlyHistory) Net() Money { return h.Income.Sub(h.Expenses) }

// ChartPoint is one month of the income versus expenses chart.
type ChartPoint struct {
	Month    date.YearMonth
	Income   Money
	Expenses Money
}

// bucket returns the history of month ym, creating it if needed.
func (l *Ledger) bucket(ym date.YearMonth) *MonthlyHistory {
	h, ok := l.history[ym]
	if !ok {
		h = &MonthlyHistory{Month: ym, Income: l.zero(), Expenses: l.zero()}
		l.history[ym] = h
	}
	return h
}

// Month returns the history of month ym.
func (l *Ledger) Month(ym date.YearMonth) (MonthlyHistory, bool) {
	h, ok := l.history[ym]
	if !ok {
		return MonthlyHistory{}, false
	}
	c := *h
	c.transactions = slices.Clone(h.transactions)
	return c, true
}

// months returns the months with history, in chronological order.
func (l *Ledger) months() []date.YearMonth {
	months := make([]date.YearMonth, 0, len(l.history))
	for ym := range l.history {
		months = append(months, ym)
	}
	slices.SortFunc(months, func(a, b date.YearMonth) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	return months
}

// History iterates over the monthly history in chronological order.
func (l *Ledger) History() iter.Seq[MonthlyHistory] {
	return func(yield func(MonthlyHistory) bool) {
		for _, ym := range l.months() {
			h, _ := l.Month(ym)
			if !yield(h) {
				return
			}
		}
	}
}

// Chart returns the last n months of history that are not after on's month,
// oldest first. Months without activity are omitted.
func (l *Ledger) Chart(n int, on date.Date) []ChartPoint {
	var points []ChartPoint
	for _, ym := range l.months() {
		if on.YearMonth().Before(ym) {
			continue
		}
		h := l.history[ym]
		points = append(points, ChartPoint{Month: ym, Income: h.Income, Expenses: h.Expenses})
	}
	if n >= 0 && len(points) > n {
		points = points[len(points)-n:]
	}
	return points
}
