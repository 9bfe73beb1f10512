package renderer

import (
	"bytes"

	"github.com/etnz/budget"
	md "github.com/nao1215/markdown"
)

// TransactionsMarkdown renders txs, in the given order, under title.
func TransactionsMarkdown(title string, txs []budget.Transaction) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)
	doc.H1(title)
	transactionsTable(doc, txs)
	return doc.String()
}

func transactionsTable(doc *md.Markdown, txs []budget.Transaction) {
	if len(txs) == 0 {
		doc.PlainText("No transactions.")
		return
	}
	table := md.TableSet{
		Header: []string{"Date", "Name", "Type", "Account", "Envelope", "Amount"},
	}
	for _, tx := range txs {
		table.Rows = append(table.Rows, []string{
			tx.Date.String(),
			tx.Name,
			string(tx.Kind),
			route(tx),
			tx.Envelope,
			signed(tx).String(),
		})
	}
	doc.Table(table)
}

// route describes the accounts a transaction touches.
func route(tx budget.Transaction) string {
	switch tx.Kind {
	case budget.Transfer:
		return string(tx.From) + " → " + string(tx.To)
	case budget.Income:
		if tx.AccountName != "" {
			return tx.AccountName
		}
		return string(tx.To)
	default:
		if tx.AccountName != "" {
			return tx.AccountName
		}
		return string(tx.From)
	}
}

// signed returns the amount as seen by the owner: expenses are negative.
func signed(tx budget.Transaction) budget.Money {
	if tx.Kind == budget.Expense {
		return tx.Amount.Neg()
	}
	return tx.Amount
}
