package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/budget"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// HistoryMarkdown renders the monthly history, one row per month.
func HistoryMarkdown(currency string, months []budget.MonthlyHistory) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)
	doc.H1(fmt.Sprintf("Monthly History (%s)", currency))
	if len(months) == 0 {
		doc.PlainText("No activity recorded yet.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Month", "Income", "Expenses", "Net", "Transactions"},
	}
	for _, h := range months {
		table.Rows = append(table.Rows, []string{
			h.Month.String(),
			h.Income.String(),
			h.Expenses.String(),
			h.Net().SignedString(),
			fmt.Sprint(len(h.Transactions())),
		})
	}
	doc.Table(table)
	return doc.String()
}

// ChartMarkdown renders the income versus expenses chart of r.
func ChartMarkdown(r *budget.Report) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)
	doc.H1("Income vs Expenses")
	chartSection(doc, r.Chart)
	return doc.String()
}

func chartSection(doc *md.Markdown, points []budget.ChartPoint) {
	if len(points) == 0 {
		doc.PlainText("No monthly data to chart.")
		return
	}
	// Bars share one scale, the largest figure of the chart.
	scale := decimal.Zero
	for _, p := range points {
		scale = decimal.Max(scale, p.Income.Decimal(), p.Expenses.Decimal())
	}
	table := md.TableSet{
		Header: []string{"Month", "Income", "", "Expenses", ""},
	}
	for _, p := range points {
		table.Rows = append(table.Rows, []string{
			p.Month.String(),
			p.Income.String(),
			bar(p.Income.Decimal(), scale),
			p.Expenses.String(),
			bar(p.Expenses.Decimal(), scale),
		})
	}
	doc.Table(table)
}
