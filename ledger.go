package budget

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/etnz/budget/date"
)

// Ledger holds the whole financial state: accounts, envelopes, goals, the
// transaction log, the monthly history and the unallocated funds.
//
// Every operation validates all of its inputs before the first write, a
// failed operation leaves the ledger untouched. A Ledger is not safe for
// concurrent use.
type Ledger struct {
	currency      string
	monthlyIncome Money
	unallocated   Money
	lastUpdated   time.Time

	accounts     map[AccountKey]*Account
	accountOrder []AccountKey

	envelopes     map[string]Money
	envelopeOrder []string

	goals     map[string]*Goal
	goalOrder []string

	transactions []Transaction
	history      map[date.YearMonth]*MonthlyHistory
}

// NewLedger creates an empty ledger keeping amounts in currency.
func NewLedger(currency string) *Ledger {
	l := &Ledger{currency: currency}
	l.Reset()
	return l
}

// Reset clears every entity back to the empty state. The currency is kept.
func (l *Ledger) Reset() {
	l.monthlyIncome = l.zero()
	l.unallocated = l.zero()
	l.lastUpdated = time.Time{}
	l.accounts = make(map[AccountKey]*Account)
	l.accountOrder = nil
	l.envelopes = make(map[string]Money)
	l.envelopeOrder = nil
	l.goals = make(map[string]*Goal)
	l.goalOrder = nil
	l.transactions = nil
	l.history = make(map[date.YearMonth]*MonthlyHistory)
}

func (l *Ledger) zero() Money { return M(0, l.currency) }

// amount validates a user amount and expresses it in the ledger currency.
func (l *Ledger) amount(field string, m Money) (Money, error) {
	if m.Currency() != "" && m.Currency() != l.currency {
		return Money{}, invalid(field, "amount is in %s, the ledger uses %s", m.Currency(), l.currency)
	}
	m = m.In(l.currency).Round()
	if err := validateAmount(field, m); err != nil {
		return Money{}, err
	}
	return m, nil
}

// account resolves a required account key.
func (l *Ledger) account(field string, key AccountKey) (*Account, error) {
	if key == "" {
		return nil, invalid(field, "select an account")
	}
	a, ok := l.accounts[key]
	if !ok {
		return nil, notFound(field, "account %q not found", key)
	}
	return a, nil
}

// post appends tx to the global log and to the logs of accounts.
func (l *Ledger) post(tx Transaction, accounts ...*Account) {
	l.transactions = append(l.transactions, tx)
	for _, a := range accounts {
		a.transactions = append(a.transactions, tx)
	}
}

// AddAccount opens an account with an opening balance.
//
// A positive opening balance is recorded as a transfer from the "opening"
// pseudo account.
func (l *Ledger) AddAccount(name, number string, typ AccountType, opening Money, on date.Date) (AccountKey, error) {
	name, number = strings.TrimSpace(name), strings.TrimSpace(number)
	if err := ValidateAccountName(name); err != nil {
		return "", err
	}
	if err := ValidateAccountNumber(number); err != nil {
		return "", err
	}
	opening, err := l.amount("balance", opening)
	if err != nil {
		return "", err
	}
	if _, err := ParseAccountType(string(typ)); err != nil {
		return "", err
	}
	key := NewAccountKey(name, number)
	if _, ok := l.accounts[key]; ok {
		return "", exists("name", "account %q already exists", key)
	}

	a := &Account{Key: key, Name: name, Number: number, Type: typ, Balance: opening}
	l.accounts[key] = a
	l.accountOrder = append(l.accountOrder, key)
	if opening.IsPositive() {
		tx := newTransaction(Transfer, "Opening balance", opening, on)
		tx.From, tx.To, tx.AccountName = FromOpening, key, name
		l.post(tx, a)
	}
	return key, nil
}

// PostIncome records the income of the month into account to.
//
// The income figure of the ledger and of the month is replaced, not summed.
// Unallocated funds are recomputed as the income minus everything allocated
// to envelopes.
func (l *Ledger) PostIncome(amount Money, to AccountKey, on date.Date) (Transaction, error) {
	amount, err := l.amount("amount", amount)
	if err != nil {
		return Transaction{}, err
	}
	a, err := l.account("account", to)
	if err != nil {
		return Transaction{}, err
	}

	tx := newTransaction(Income, "Monthly Income", amount, on)
	tx.To, tx.AccountName = to, a.Name

	l.monthlyIncome = amount
	a.Balance = a.Balance.Add(amount)
	l.post(tx, a)
	l.unallocated = amount.Sub(l.TotalAllocated())

	h := l.bucket(on.YearMonth())
	h.transactions = slices.DeleteFunc(h.transactions, func(t Transaction) bool { return t.Kind == Income })
	h.Income = amount
	h.transactions = append(h.transactions, tx)
	return tx, nil
}

// Allocate moves amount from the unallocated funds into envelope name,
// creating the envelope if needed.
func (l *Ledger) Allocate(name string, amount Money) error {
	name = strings.TrimSpace(name)
	if err := required("envelope", name); err != nil {
		return err
	}
	amount, err := l.amount("amount", amount)
	if err != nil {
		return err
	}
	if amount.GreaterThan(l.unallocated) {
		return insufficient("amount", "insufficient unallocated funds: %s available", l.unallocated)
	}

	current, ok := l.envelopes[name]
	if !ok {
		current = l.zero()
		l.envelopeOrder = append(l.envelopeOrder, name)
	}
	l.envelopes[name] = current.Add(amount)
	l.unallocated = l.unallocated.Sub(amount)
	return nil
}

// SweepEnvelopes moves every envelope balance back to the unallocated funds.
// Envelopes are kept with a zero balance. It returns the amount moved.
func (l *Ledger) SweepEnvelopes() (Money, error) {
	if len(l.envelopes) == 0 {
		return Money{}, notFound("envelope", "no envelopes to sweep")
	}
	total := l.TotalAllocated()
	l.unallocated = l.unallocated.Add(total)
	for name := range l.envelopes {
		l.envelopes[name] = l.zero()
	}
	return total, nil
}

// Spend records an expense paid from account from.
//
// When envelope is set the expense is charged to it, otherwise it is
// charged to the unallocated funds, which may become negative.
func (l *Ledger) Spend(name string, amount Money, from AccountKey, envelope string, on date.Date) (Transaction, error) {
	name, envelope = strings.TrimSpace(name), strings.TrimSpace(envelope)
	if err := required("name", name); err != nil {
		return Transaction{}, err
	}
	amount, err := l.amount("amount", amount)
	if err != nil {
		return Transaction{}, err
	}
	a, err := l.account("account", from)
	if err != nil {
		return Transaction{}, err
	}
	if amount.GreaterThan(a.Balance) {
		return Transaction{}, insufficient("amount", "insufficient funds in account %s: %s available", a.Name, a.Balance)
	}
	if envelope != "" {
		balance, ok := l.envelopes[envelope]
		if !ok {
			return Transaction{}, notFound("envelope", "envelope %q not found", envelope)
		}
		if amount.GreaterThan(balance) {
			return Transaction{}, insufficient("amount", "insufficient funds in envelope %s: %s available", envelope, balance)
		}
	}

	tx := newTransaction(Expense, name, amount, on)
	tx.From, tx.Envelope, tx.AccountName = from, envelope, a.Name

	a.Balance = a.Balance.Sub(amount)
	if envelope != "" {
		l.envelopes[envelope] = l.envelopes[envelope].Sub(amount)
	} else {
		l.unallocated = l.unallocated.Sub(amount)
	}
	l.post(tx, a)

	h := l.bucket(on.YearMonth())
	h.Expenses = h.Expenses.Add(amount)
	h.transactions = append(h.transactions, tx)
	return tx, nil
}

// Transfer moves amount from one account to another. The total balance of
// all accounts is unchanged.
func (l *Ledger) Transfer(from, to AccountKey, amount Money, on date.Date) (Transaction, error) {
	src, err := l.account("from", from)
	if err != nil {
		return Transaction{}, err
	}
	amount, err = l.amount("amount", amount)
	if err != nil {
		return Transaction{}, err
	}
	if !amount.IsPositive() {
		return Transaction{}, invalid("amount", "transfer amount must be positive")
	}
	if amount.GreaterThan(src.Balance) {
		return Transaction{}, insufficient("amount", "insufficient funds in account %s: %s available", src.Name, src.Balance)
	}
	dst, err := l.account("to", to)
	if err != nil {
		return Transaction{}, err
	}
	if from == to {
		return Transaction{}, invalid("to", "destination must differ from the source account")
	}

	tx := newTransaction(Transfer, "Transfer to "+dst.Name, amount, on)
	tx.From, tx.To = from, to

	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)
	l.post(tx, src, dst)
	return tx, nil
}

// CorrectBalance overwrites the balance of account key.
//
// This is a reconciliation escape hatch: no transaction is recorded, so the
// balance may drift from the sum of the account's transactions afterwards.
func (l *Ledger) CorrectBalance(key AccountKey, balance Money) error {
	a, err := l.account("account", key)
	if err != nil {
		return err
	}
	balance, err = l.amount("balance", balance)
	if err != nil {
		return err
	}
	a.Balance = balance
	return nil
}

// CloseMonth moves all the unallocated funds into account to.
//
// The transfer is added to the history of on's month only if that month has
// activity already.
func (l *Ledger) CloseMonth(to AccountKey, on date.Date) (Transaction, error) {
	a, err := l.account("account", to)
	if err != nil {
		return Transaction{}, err
	}
	if !l.unallocated.IsPositive() {
		return Transaction{}, insufficient("unallocated", "no unallocated funds to move")
	}

	tx := newTransaction(Transfer, "Month End - Unallocated Funds Transfer", l.unallocated, on)
	tx.From, tx.To = FromUnallocated, to

	a.Balance = a.Balance.Add(l.unallocated)
	l.post(tx, a)
	if h, ok := l.history[on.YearMonth()]; ok {
		h.transactions = append(h.transactions, tx)
	}
	l.unallocated = l.zero()
	return tx, nil
}

// CreateGoal declares a savings goal with nothing allocated yet.
func (l *Ledger) CreateGoal(name string, target Money) error {
	name = strings.TrimSpace(name)
	if err := required("name", name); err != nil {
		return err
	}
	target, err := l.amount("target", target)
	if err != nil {
		return err
	}
	if _, ok := l.goals[name]; ok {
		return exists("name", "goal %q already exists", name)
	}
	l.goals[name] = &Goal{Name: name, Target: target, Allocated: l.zero()}
	l.goalOrder = append(l.goalOrder, name)
	return nil
}

// FundGoal adds amount to the allocation of goal name. The allocation may
// exceed the target.
func (l *Ledger) FundGoal(name string, amount Money) error {
	name = strings.TrimSpace(name)
	if err := required("goal", name); err != nil {
		return err
	}
	g, ok := l.goals[name]
	if !ok {
		return notFound("goal", "goal %q not found", name)
	}
	amount, err := l.amount("amount", amount)
	if err != nil {
		return err
	}
	g.Allocated = g.Allocated.Add(amount)
	return nil
}

// SetRule declares rule on account key, replacing a rule of the same kind.
func (l *Ledger) SetRule(key AccountKey, rule Rule) error {
	a, err := l.account("account", key)
	if err != nil {
		return err
	}
	if rule == nil {
		return invalid("rule", "rule is required")
	}
	if err := rule.validate(l); err != nil {
		return err
	}
	if a.rules == nil {
		a.rules = make(map[RuleKind]Rule)
	}
	a.rules[rule.Kind()] = rule
	return nil
}

func (l *Ledger) emergencyAccount(key AccountKey) (*Account, error) {
	a, err := l.account("account", key)
	if err != nil {
		return nil, err
	}
	if a.Type != Emergency {
		return nil, invalid("account", "emergency tracking is only available for emergency accounts, %s is a %s account", a.Name, a.Type)
	}
	return a, nil
}

// RecordEmergencyUsage logs a use of the emergency fund held in account key.
// The balance is not changed.
func (l *Ledger) RecordEmergencyUsage(key AccountKey, amount Money, on date.Date) error {
	a, err := l.emergencyAccount(key)
	if err != nil {
		return err
	}
	amount, err = l.amount("amount", amount)
	if err != nil {
		return err
	}
	a.emergencyHistory = append(a.emergencyHistory, EmergencyRecord{Date: on, Amount: amount, Type: "usage"})
	return nil
}

// SetEmergencyTarget sets the replenishment target of emergency account key.
func (l *Ledger) SetEmergencyTarget(key AccountKey, target Money) error {
	a, err := l.emergencyAccount(key)
	if err != nil {
		return err
	}
	target, err = l.amount("target", target)
	if err != nil {
		return err
	}
	a.emergencyTarget, a.hasTarget = target, true
	return nil
}

// Read access. Values returned are copies.

// Currency returns the ISO code of the ledger currency.
func (l *Ledger) Currency() string { return l.currency }

// MonthlyIncome returns the latest posted income.
func (l *Ledger) MonthlyIncome() Money { return l.monthlyIncome }

// Unallocated returns the income not assigned to an envelope.
func (l *Ledger) Unallocated() Money { return l.unallocated }

// LastUpdated returns the time of the last save, zero if never saved.
func (l *Ledger) LastUpdated() time.Time { return l.lastUpdated }

// Accounts iterates over accounts in creation order.
func (l *Ledger) Accounts() iter.Seq[*Account] {
	return func(yield func(*Account) bool) {
		for _, key := range l.accountOrder {
			if !yield(l.accounts[key].clone()) {
				return
			}
		}
	}
}

// Account returns the account with key.
func (l *Ledger) Account(key AccountKey) (*Account, bool) {
	a, ok := l.accounts[key]
	if !ok {
		return nil, false
	}
	return a.clone(), true
}

// TotalBalance returns the sum of all account balances.
func (l *Ledger) TotalBalance() Money {
	total := l.zero()
	for _, a := range l.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// Envelopes iterates over envelope names and balances in creation order.
func (l *Ledger) Envelopes() iter.Seq2[string, Money] {
	return func(yield func(string, Money) bool) {
		for _, name := range l.envelopeOrder {
			if !yield(name, l.envelopes[name]) {
				return
			}
		}
	}
}

// Envelope returns the balance of envelope name.
func (l *Ledger) Envelope(name string) (Money, bool) {
	m, ok := l.envelopes[name]
	return m, ok
}

// TotalAllocated returns the sum of all envelope balances.
func (l *Ledger) TotalAllocated() Money {
	total := l.zero()
	for _, m := range l.envelopes {
		total = total.Add(m)
	}
	return total
}

// Goals iterates over goals in creation order.
func (l *Ledger) Goals() iter.Seq[Goal] {
	return func(yield func(Goal) bool) {
		for _, name := range l.goalOrder {
			if !yield(*l.goals[name]) {
				return
			}
		}
	}
}

// Goal returns the goal called name.
func (l *Ledger) Goal(name string) (Goal, bool) {
	g, ok := l.goals[name]
	if !ok {
		return Goal{}, false
	}
	return *g, true
}

// Transactions returns an iterator over the global log, in posting order,
// yielding the transactions accepted by all filters.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
	next:
		for i, tx := range l.transactions {
			for _, accept := range filters {
				if !accept(tx) {
					continue next
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Len returns the number of transactions in the global log.
func (l *Ledger) Len() int { return len(l.transactions) }
