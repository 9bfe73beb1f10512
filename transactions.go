package budget

import (
	"github.com/etnz/budget/date"
	"github.com/google/uuid"
)

// Kind is the type of a transaction.
type Kind string

const (
	Income   Kind = "income"
	Expense  Kind = "expense"
	Transfer Kind = "transfer"
)

// Pseudo account keys used as the source of transfers that do not leave a real account.
const (
	// FromUnallocated is the source of a month-end sweep.
	FromUnallocated AccountKey = "unallocated"
	// FromOpening is the source of an account's opening balance.
	FromOpening AccountKey = "opening"
)

// Transaction is an immutable record of money moving in the ledger.
// Amount is always a positive magnitude, direction is given by Kind and the
// From and To accounts.
type Transaction struct {
	ID          string
	Name        string
	Amount      Money
	Date        date.Date
	Kind        Kind
	From        AccountKey // From is the debited account, empty for income.
	To          AccountKey // To is the credited account, empty for expenses.
	Envelope    string     // Envelope is the envelope an expense is charged to, if any.
	AccountName string     // AccountName is the display name of the account, informational.
}

func newTransaction(kind Kind, name string, amount Money, on date.Date) Transaction {
	return Transaction{ID: uuid.NewString(), Kind: kind, Name: name, Amount: amount, Date: on}
}

// What returns the kind of the transaction.
func (t Transaction) What() Kind { return t.Kind }

// When returns the date of the transaction.
func (t Transaction) When() date.Date { return t.Date }

// SignedAmount returns the effect of t on account key's balance.
func (t Transaction) SignedAmount(key AccountKey) Money {
	switch {
	case t.To == key && t.From != key:
		return t.Amount
	case t.From == key && t.To != key:
		return t.Amount.Neg()
	default:
		return M(0, t.Amount.Currency())
	}
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("name", t.Name)
	w.Append("amount", t.Amount)
	w.Append("date", t.Date)
	w.Append("type", t.Kind)
	w.Optional("fromAccount", t.From)
	w.Optional("toAccount", t.To)
	w.Optional("envelope", t.Envelope)
	w.Optional("accountName", t.AccountName)
	return w.MarshalJSON()
}

// Filters for Ledger.Transactions.

// AcceptAll accepts every transaction.
func AcceptAll(Transaction) bool { return true }

// OfKind accepts transactions of kind k.
func OfKind(k Kind) func(Transaction) bool {
	return func(t Transaction) bool { return t.Kind == k }
}

// InMonth accepts transactions dated within ym.
func InMonth(ym date.YearMonth) func(Transaction) bool {
	return func(t Transaction) bool { return ym.Contains(t.Date) }
}

// Involving accepts transactions that debit or credit account key.
func Involving(key AccountKey) func(Transaction) bool {
	return func(t Transaction) bool { return t.From == key || t.To == key }
}
