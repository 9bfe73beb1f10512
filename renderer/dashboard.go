package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/budget"
	md "github.com/nao1215/markdown"
)

// dashboardTransactions is the number of recent transactions on the dashboard.
const dashboardTransactions = 5

// DashboardMarkdown renders the overview of r: key figures, envelopes, goals
// and the latest transactions.
func DashboardMarkdown(r *budget.Report) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("Budget on %s", r.Date))
	if !r.LastUpdated.IsZero() {
		doc.PlainText(fmt.Sprintf("Last saved %s.", r.LastUpdated.Local().Format("2006-01-02 15:04")))
	}
	doc.Table(totalsTable(r))

	envelopesSection(doc, r)
	goalsSection(doc, r)

	recent := r.Transactions
	if len(recent) > dashboardTransactions {
		recent = recent[:dashboardTransactions]
	}
	doc.H2("Recent Transactions")
	transactionsTable(doc, recent)

	return doc.String()
}

// EnvelopesMarkdown renders the envelopes of r with their spending this
// month.
func EnvelopesMarkdown(r *budget.Report) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)
	doc.H1(fmt.Sprintf("Envelopes on %s", r.Date))
	envelopesSection(doc, r)
	return doc.String()
}

func envelopesSection(doc *md.Markdown, r *budget.Report) {
	doc.H2("Envelopes")
	if len(r.Envelopes) == 0 {
		doc.PlainText("No envelopes yet. Allocate unallocated funds to create one.")
		return
	}

	spent := make(map[string]budget.Money)
	for _, e := range r.ExpensesByEnvelope() {
		spent[e.Name] = e.Balance
	}

	table := md.TableSet{
		Header: []string{"Envelope", "Balance", "Spent this month", "Share"},
	}
	for _, e := range r.Envelopes {
		s, ok := spent[e.Name]
		if !ok {
			s = budget.M(0, r.Currency)
		}
		table.Rows = append(table.Rows, []string{
			e.Name,
			e.Balance.String(),
			s.String(),
			bar(e.Balance.Decimal(), r.TotalAllocated.Decimal()),
		})
	}
	if s, ok := spent[""]; ok {
		table.Rows = append(table.Rows, []string{"_unassigned_", "", s.String(), ""})
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), md.Bold(r.TotalAllocated.String()), "", ""})
	doc.Table(table)
}

// GoalsMarkdown renders the savings goals of r.
func GoalsMarkdown(r *budget.Report) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)
	doc.H1(fmt.Sprintf("Goals on %s", r.Date))
	goalsSection(doc, r)
	return doc.String()
}

func goalsSection(doc *md.Markdown, r *budget.Report) {
	doc.H2("Goals")
	if len(r.Goals) == 0 {
		doc.PlainText("No savings goals.")
		return
	}
	table := md.TableSet{
		Header: []string{"Goal", "Allocated", "Target", "Remaining", "Progress", ""},
	}
	for _, g := range r.Goals {
		name := g.Name
		if g.Reached() {
			name += " ✓"
		}
		table.Rows = append(table.Rows, []string{
			name,
			g.Allocated.String(),
			g.Target.String(),
			g.Remaining().String(),
			percent(g.Progress()),
			bar(g.Allocated.Decimal(), g.Target.Decimal()),
		})
	}
	doc.Table(table)
}
