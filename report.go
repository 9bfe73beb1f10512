package budget

import (
	"iter"
	"slices"
	"time"

	"github.com/etnz/budget/date"
)

// Report is a read-only view of the ledger on a given day, ready to be
// rendered.
type Report struct {
	Date     date.Date
	Currency string

	TotalBalance   Money
	MonthlyIncome  Money
	MonthExpenses  Money // MonthExpenses are the expenses of Date's month.
	TotalAllocated Money
	Unallocated    Money
	LastUpdated    time.Time

	Accounts     []*Account
	Envelopes    []Envelope
	Goals        []Goal
	Transactions []Transaction // Transactions are sorted newest first.
	Chart        []ChartPoint
}

// Envelope is a named envelope balance.
type Envelope struct {
	Name    string
	Balance Money
}

// NewReport builds the report of l on day on, with a chart covering at most
// the last months of history.
func NewReport(l *Ledger, on date.Date, months int) *Report {
	r := &Report{
		Date:           on,
		Currency:       l.Currency(),
		TotalBalance:   l.TotalBalance(),
		MonthlyIncome:  l.MonthlyIncome(),
		MonthExpenses:  l.zero(),
		TotalAllocated: l.TotalAllocated(),
		Unallocated:    l.Unallocated(),
		LastUpdated:    l.LastUpdated(),
		Goals:          slices.Collect(l.Goals()),
		Accounts:       slices.Collect(l.Accounts()),
		Chart:          l.Chart(months, on),
	}
	if h, ok := l.Month(on.YearMonth()); ok {
		r.MonthExpenses = h.Expenses
	}
	for name, balance := range l.Envelopes() {
		r.Envelopes = append(r.Envelopes, Envelope{Name: name, Balance: balance})
	}
	r.Transactions = Newest(l.Transactions())
	return r
}

// Newest collects txs sorted by date, newest first. Transactions of the same
// day are listed in reverse posting order.
func Newest(txs iter.Seq2[int, Transaction]) []Transaction {
	var list []Transaction
	for _, tx := range txs {
		list = append(list, tx)
	}
	slices.Reverse(list)
	slices.SortStableFunc(list, func(a, b Transaction) int {
		switch {
		case a.Date.After(b.Date):
			return -1
		case a.Date.Before(b.Date):
			return 1
		}
		return 0
	})
	return list
}

// ExpensesByEnvelope sums the report's expenses of Date's month per envelope.
// Expenses without an envelope are summed under "".
func (r *Report) ExpensesByEnvelope() []Envelope {
	var out []Envelope
	index := make(map[string]int)
	for i := len(r.Transactions) - 1; i >= 0; i-- {
		tx := r.Transactions[i]
		if tx.Kind != Expense || !r.Date.YearMonth().Contains(tx.Date) {
			continue
		}
		j, ok := index[tx.Envelope]
		if !ok {
			j = len(out)
			index[tx.Envelope] = j
			out = append(out, Envelope{Name: tx.Envelope, Balance: M(0, r.Currency)})
		}
		out[j].Balance = out[j].Balance.Add(tx.Amount)
	}
	return out
}
