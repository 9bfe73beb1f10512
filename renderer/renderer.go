// Package renderer turns budget reports into Markdown documents, and
// Markdown into standalone HTML pages.
package renderer

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/etnz/budget"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// barWidth is the width in cells of a full progress or chart bar.
const barWidth = 20

// HTML converts markdown into a standalone HTML page titled title.
func HTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	gm := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := gm.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:auto}" +
		"table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:.2em .6em}" +
		"td:not(:first-child){text-align:right}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// bar draws value/full as a bar of barWidth cells. Values above full are
// drawn full.
func bar(value, full decimal.Decimal) string {
	if !full.IsPositive() || !value.IsPositive() {
		return strings.Repeat("░", barWidth)
	}
	n := int(value.Div(full).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	n = max(0, min(n, barWidth))
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

// percent formats a percentage with one decimal.
func percent(p decimal.Decimal) string { return p.StringFixed(1) + "%" }

// newDoc returns a markdown builder writing into buf.
func newDoc(buf *bytes.Buffer) *md.Markdown { return md.NewMarkdown(buf) }

// totalsTable is the key figures of a report.
func totalsTable(r *budget.Report) md.TableSet {
	return md.TableSet{
		Header: []string{"Figure", "Amount"},
		Rows: [][]string{
			{"Total balance", r.TotalBalance.String()},
			{"Monthly income", r.MonthlyIncome.String()},
			{"Expenses this month", r.MonthExpenses.String()},
			{"Allocated to envelopes", r.TotalAllocated.String()},
			{"Unallocated", r.Unallocated.String()},
		},
	}
}
