package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/budget"
	md "github.com/nao1215/markdown"
)

// MaskNumber hides all but the account number digits, as printed on
// statements.
func MaskNumber(number string) string { return "****" + number }

// AccountsMarkdown renders the accounts of r with their declared rules and,
// for emergency accounts, the replenishment status.
func AccountsMarkdown(r *budget.Report) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)
	doc.H1(fmt.Sprintf("Accounts on %s", r.Date))
	accountsSection(doc, r)
	return doc.String()
}

func accountsSection(doc *md.Markdown, r *budget.Report) {
	doc.H2("Accounts")
	if len(r.Accounts) == 0 {
		doc.PlainText("No accounts. Add one with `bgt add-account`.")
		return
	}

	table := md.TableSet{
		Header: []string{"Account", "Number", "Type", "Balance"},
	}
	for _, a := range r.Accounts {
		table.Rows = append(table.Rows, []string{
			a.Name,
			MaskNumber(a.Number),
			string(a.Type),
			a.Balance.String(),
		})
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), "", "", md.Bold(r.TotalBalance.String())})
	doc.Table(table)

	for _, a := range r.Accounts {
		var items []string
		for _, rule := range a.Rules() {
			items = append(items, fmt.Sprintf("%s: %s (not enforced)", rule.Kind(), rule.Describe()))
		}
		if a.Type == budget.Emergency {
			used := a.EmergencyUsed()
			if target, ok := a.EmergencyTarget(); ok {
				items = append(items, fmt.Sprintf("replenishment target %s, balance at %s",
					target, percent(a.Balance.Percent(target))))
			}
			if n := len(a.EmergencyHistory()); n > 0 {
				items = append(items, fmt.Sprintf("%d emergency usage(s) totaling %s", n, used))
			}
		}
		if len(items) == 0 {
			continue
		}
		doc.H3(fmt.Sprintf("%s (%s)", a.Name, MaskNumber(a.Number)))
		doc.BulletList(items...)
	}
}
