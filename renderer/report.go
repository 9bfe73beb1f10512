package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/budget"
)

// ReportMarkdown renders every view of r in one document.
func ReportMarkdown(r *budget.Report) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("Budget Report on %s", r.Date))
	doc.H2("Summary")
	doc.Table(totalsTable(r))

	accountsSection(doc, r)
	envelopesSection(doc, r)
	goalsSection(doc, r)

	doc.H2("Income vs Expenses")
	chartSection(doc, r.Chart)

	doc.H2("Transactions")
	transactionsTable(doc, r.Transactions)

	return doc.String()
}
