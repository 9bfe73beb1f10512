package budget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/etnz/budget/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// This file holds the snapshot codec: the whole ledger as a single JSON
// object, the way it is persisted under StateKey.
//
// Field names follow the historical layout (monthlyIncome, envelopes,
// transactions, goals, lastUpdated, monthlyHistory, unallocatedAmount,
// accounts) so that older snapshots keep loading. Objects keyed by name keep
// the ledger's insertion order.

// MarshalJSON encodes the full ledger snapshot.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	envelopes, err := orderedObject(l.envelopeOrder, func(name string) Money { return l.envelopes[name] })
	if err != nil {
		return nil, fmt.Errorf("cannot encode envelopes: %w", err)
	}
	goals, err := orderedObject(l.goalOrder, func(name string) jgoal { return jgoal(*l.goals[name]) })
	if err != nil {
		return nil, fmt.Errorf("cannot encode goals: %w", err)
	}
	accounts, err := orderedObject(l.accountOrder, func(key AccountKey) *jaccount { return (*jaccount)(l.accounts[key]) })
	if err != nil {
		return nil, fmt.Errorf("cannot encode accounts: %w", err)
	}
	months := make(map[string]date.YearMonth, len(l.history))
	var monthKeys []string
	for _, ym := range l.months() {
		months[ym.String()] = ym
		monthKeys = append(monthKeys, ym.String())
	}
	history, err := orderedObject(monthKeys, func(key string) *jhistory { return (*jhistory)(l.history[months[key]]) })
	if err != nil {
		return nil, fmt.Errorf("cannot encode monthly history: %w", err)
	}

	var w jsonObjectWriter
	w.Append("currency", l.currency)
	w.Append("monthlyIncome", l.monthlyIncome)
	w.Append("unallocatedAmount", l.unallocated)
	w.Append("envelopes", json.RawMessage(envelopes))
	w.Append("goals", json.RawMessage(goals))
	w.Append("accounts", json.RawMessage(accounts))
	w.Append("transactions", nonNil(l.transactions))
	w.Append("monthlyHistory", json.RawMessage(history))
	if !l.lastUpdated.IsZero() {
		w.Append("lastUpdated", l.lastUpdated.UTC().Format(time.RFC3339Nano))
	}
	return w.MarshalJSON()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type jgoal Goal

func (g jgoal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("target", g.Target)
	w.Append("allocated", g.Allocated)
	return w.MarshalJSON()
}

type jaccount Account

func (a *jaccount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", a.Name)
	w.Append("number", a.Number)
	w.Append("type", a.Type)
	w.Append("balance", a.Balance)
	w.Append("transactions", nonNil(a.transactions))
	if len(a.rules) > 0 {
		w.Append("rules", jrules(a.rules))
	}
	if a.hasTarget {
		w.Append("emergencyTarget", a.emergencyTarget)
	}
	if len(a.emergencyHistory) > 0 {
		w.Append("emergencyHistory", jemergencyHistory(a.emergencyHistory))
	}
	return w.MarshalJSON()
}

type jrules map[RuleKind]Rule

func (r jrules) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	if rule, ok := r[MinBalanceAlert].(RuleMinBalanceAlert); ok {
		w.Append("minBalance", rule.Threshold)
	}
	if rule, ok := r[AutoTransfer].(RuleAutoTransfer); ok {
		var o jsonObjectWriter
		o.Append("targetAccount", rule.Target)
		o.Append("percentage", rule.Percentage)
		w.Append("autoTransfer", &o)
	}
	if rule, ok := r[MonthlyTransferSchedule].(RuleMonthlyTransfer); ok {
		var o jsonObjectWriter
		o.Append("day", rule.Day)
		o.Append("amount", rule.Amount)
		w.Append("monthlyTransfer", &o)
	}
	return w.MarshalJSON()
}

type jemergencyHistory []EmergencyRecord

func (h jemergencyHistory) MarshalJSON() ([]byte, error) {
	objs := make([]json.Marshaler, 0, len(h))
	for _, r := range h {
		var w jsonObjectWriter
		w.Append("date", r.Date)
		w.Append("amount", r.Amount)
		w.Append("type", r.Type)
		objs = append(objs, &w)
	}
	return json.Marshal(objs)
}

type jhistory MonthlyHistory

func (h *jhistory) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("income", h.Income)
	w.Append("expenses", h.Expenses)
	w.Append("transactions", nonNil(h.transactions))
	return w.MarshalJSON()
}

// Decoding.

// snapshot is the loose shape of a persisted ledger. Maps are decoded as raw
// objects so that their key order can be recovered.
type snapshot struct {
	Currency          string          `json:"currency"`
	MonthlyIncome     decimal.Decimal `json:"monthlyIncome"`
	UnallocatedAmount decimal.Decimal `json:"unallocatedAmount"`
	Envelopes         json.RawMessage `json:"envelopes"`
	Goals             json.RawMessage `json:"goals"`
	Accounts          json.RawMessage `json:"accounts"`
	Transactions      []jtransaction  `json:"transactions"`
	MonthlyHistory    json.RawMessage `json:"monthlyHistory"`
	LastUpdated       string          `json:"lastUpdated"`
}

type jtransaction struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Type        Kind            `json:"type"`
	FromAccount AccountKey      `json:"fromAccount"`
	ToAccount   AccountKey      `json:"toAccount"`
	Envelope    string          `json:"envelope"`
	AccountName string          `json:"accountName"`
}

type jaccountIn struct {
	Name             string           `json:"name"`
	Number           string           `json:"number"`
	Type             AccountType      `json:"type"`
	Balance          decimal.Decimal  `json:"balance"`
	Transactions     []jtransaction   `json:"transactions"`
	Rules            *jrulesIn        `json:"rules"`
	EmergencyTarget  *decimal.Decimal `json:"emergencyTarget"`
	EmergencyHistory []struct {
		Date   string          `json:"date"`
		Amount decimal.Decimal `json:"amount"`
		Type   string          `json:"type"`
	} `json:"emergencyHistory"`
}

type jrulesIn struct {
	MinBalance   *decimal.Decimal `json:"minBalance"`
	AutoTransfer *struct {
		TargetAccount AccountKey      `json:"targetAccount"`
		Percentage    decimal.Decimal `json:"percentage"`
	} `json:"autoTransfer"`
	MonthlyTransfer *struct {
		Day    int             `json:"day"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"monthlyTransfer"`
}

type jhistoryIn struct {
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	Transactions []jtransaction  `json:"transactions"`
}

// decoder carries the state of one snapshot decoding, including the list of
// legacy conversions applied.
type decoder struct {
	l          *Ledger
	migrations map[string]struct{}
}

func (d *decoder) migrated(format string, args ...any) {
	d.migrations[fmt.Sprintf(format, args...)] = struct{}{}
}

func (d *decoder) money(v decimal.Decimal) Money { return M(v, d.l.currency) }

// DecodeSnapshot decodes a persisted ledger snapshot.
//
// Snapshots written by earlier versions are migrated on the fly: numeric
// transaction ids, "January 2006" month keys, timestamp dates and a missing
// currency (replaced by defaultCurrency) are all accepted.
func DecodeSnapshot(data []byte, defaultCurrency string) (*Ledger, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("cannot decode ledger snapshot: %w", err)
	}
	d := &decoder{migrations: make(map[string]struct{})}
	currency := s.Currency
	if currency == "" {
		currency = defaultCurrency
		d.migrated("missing currency set to %s", currency)
	}
	d.l = NewLedger(currency)
	l := d.l

	l.monthlyIncome = d.money(s.MonthlyIncome)
	l.unallocated = d.money(s.UnallocatedAmount)
	if s.LastUpdated != "" {
		t, err := time.Parse(time.RFC3339Nano, s.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("invalid lastUpdated %q: %w", s.LastUpdated, err)
		}
		l.lastUpdated = t
	}

	if err := d.decodeEnvelopes(s.Envelopes); err != nil {
		return nil, err
	}
	if err := d.decodeGoals(s.Goals); err != nil {
		return nil, err
	}
	if err := d.decodeAccounts(s.Accounts); err != nil {
		return nil, err
	}
	txs, err := d.transactions("transactions", s.Transactions)
	if err != nil {
		return nil, err
	}
	l.transactions = txs
	if err := d.decodeHistory(s.MonthlyHistory); err != nil {
		return nil, err
	}

	if len(d.migrations) > 0 {
		notes := slices.Sorted(maps.Keys(d.migrations))
		log.Printf("ledger snapshot migrated from a legacy format: %s", strings.Join(notes, "; "))
	}
	return l, nil
}

// decodeObject decodes a JSON object of T and calls add for each key in document order.
func decodeObject[T any](what string, raw json.RawMessage, add func(key string, v T) error) error {
	keys, err := objectKeys(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", what, err)
	}
	if len(keys) == 0 {
		return nil
	}
	values := make(map[string]T, len(keys))
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("invalid %s: %w", what, err)
	}
	for _, k := range keys {
		if err := add(k, values[k]); err != nil {
			return fmt.Errorf("invalid %s %q: %w", what, k, err)
		}
	}
	return nil
}

func (d *decoder) decodeEnvelopes(raw json.RawMessage) error {
	l := d.l
	return decodeObject("envelopes", raw, func(name string, v decimal.Decimal) error {
		if _, ok := l.envelopes[name]; !ok {
			l.envelopeOrder = append(l.envelopeOrder, name)
		}
		l.envelopes[name] = d.money(v)
		return nil
	})
}

func (d *decoder) decodeGoals(raw json.RawMessage) error {
	l := d.l
	type goal struct {
		Target    decimal.Decimal `json:"target"`
		Allocated decimal.Decimal `json:"allocated"`
	}
	return decodeObject("goals", raw, func(name string, g goal) error {
		if _, ok := l.goals[name]; !ok {
			l.goalOrder = append(l.goalOrder, name)
		}
		l.goals[name] = &Goal{Name: name, Target: d.money(g.Target), Allocated: d.money(g.Allocated)}
		return nil
	})
}

func (d *decoder) decodeAccounts(raw json.RawMessage) error {
	l := d.l
	return decodeObject("accounts", raw, func(key string, ja jaccountIn) error {
		a := &Account{
			Key:     AccountKey(key),
			Name:    ja.Name,
			Number:  ja.Number,
			Type:    ja.Type,
			Balance: d.money(ja.Balance),
		}
		txs, err := d.transactions("transactions", ja.Transactions)
		if err != nil {
			return err
		}
		a.transactions = txs

		if r := ja.Rules; r != nil {
			a.rules = make(map[RuleKind]Rule)
			if r.MinBalance != nil {
				a.rules[MinBalanceAlert] = RuleMinBalanceAlert{Threshold: d.money(*r.MinBalance)}
			}
			if r.AutoTransfer != nil {
				a.rules[AutoTransfer] = RuleAutoTransfer{Target: r.AutoTransfer.TargetAccount, Percentage: r.AutoTransfer.Percentage}
			}
			if r.MonthlyTransfer != nil {
				a.rules[MonthlyTransferSchedule] = RuleMonthlyTransfer{Day: r.MonthlyTransfer.Day, Amount: d.money(r.MonthlyTransfer.Amount)}
			}
		}
		if ja.EmergencyTarget != nil {
			a.emergencyTarget, a.hasTarget = d.money(*ja.EmergencyTarget), true
		}
		for _, e := range ja.EmergencyHistory {
			on, err := d.date(e.Date)
			if err != nil {
				return fmt.Errorf("invalid emergency record: %w", err)
			}
			typ := e.Type
			if typ == "" {
				typ = "usage"
			}
			a.emergencyHistory = append(a.emergencyHistory, EmergencyRecord{Date: on, Amount: d.money(e.Amount), Type: typ})
		}

		if _, ok := l.accounts[a.Key]; !ok {
			l.accountOrder = append(l.accountOrder, a.Key)
		}
		l.accounts[a.Key] = a
		return nil
	})
}

// decodeHistory merges legacy "January 2006" buckets into their canonical
// month. The canonical bucket's income wins, expenses are summed and
// transactions concatenated.
func (d *decoder) decodeHistory(raw json.RawMessage) error {
	l := d.l
	type entry struct {
		jhistoryIn
		legacy bool
	}
	var legacy []date.YearMonth
	entries := make(map[date.YearMonth][]entry)
	err := decodeObject("monthlyHistory", raw, func(key string, h jhistoryIn) error {
		ym, isLegacy, err := date.ParseYearMonth(key)
		if err != nil {
			// month names in another language: the transactions tell the month.
			ym, err = d.monthOf(h)
			if err != nil {
				return err
			}
			if ym.IsZero() {
				d.migrated("monthly history %q dropped, its month is unknown", key)
				return nil
			}
			isLegacy = true
		}
		if isLegacy {
			legacy = append(legacy, ym)
		}
		entries[ym] = append(entries[ym], entry{h, isLegacy})
		return nil
	})
	if err != nil {
		return err
	}
	if len(legacy) > 0 {
		d.migrated("%d monthly history keys converted to %s", len(legacy), date.MonthFormat)
	}

	for ym, es := range entries {
		// canonical first, so that it sets the income.
		slices.SortStableFunc(es, func(a, b entry) int {
			switch {
			case a.legacy == b.legacy:
				return 0
			case b.legacy:
				return -1
			}
			return 1
		})
		h := l.bucket(ym)
		for i, e := range es {
			if i == 0 {
				h.Income = d.money(e.Income)
			}
			h.Expenses = h.Expenses.Add(d.money(e.Expenses))
			txs, err := d.transactions("monthlyHistory "+ym.String(), e.Transactions)
			if err != nil {
				return err
			}
			h.transactions = append(h.transactions, txs...)
		}
	}
	return nil
}

// monthOf returns the month of the first dated transaction of h, or the zero
// YearMonth.
func (d *decoder) monthOf(h jhistoryIn) (date.YearMonth, error) {
	for _, jt := range h.Transactions {
		on, err := d.date(jt.Date)
		if err != nil {
			return date.YearMonth{}, err
		}
		if !on.IsZero() {
			return on.YearMonth(), nil
		}
	}
	return date.YearMonth{}, nil
}

func (d *decoder) date(s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	if strings.Contains(s, "T") {
		d.migrated("timestamps truncated to their day")
	}
	return date.Parse(s)
}

func (d *decoder) transactions(what string, jtxs []jtransaction) ([]Transaction, error) {
	if len(jtxs) == 0 {
		return nil, nil
	}
	txs := make([]Transaction, 0, len(jtxs))
	for i, jt := range jtxs {
		tx, err := d.transaction(jt)
		if err != nil {
			return nil, fmt.Errorf("invalid %s #%d: %w", what, i, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (d *decoder) transaction(jt jtransaction) (Transaction, error) {
	id, err := d.id(jt)
	if err != nil {
		return Transaction{}, err
	}
	on, err := d.date(jt.Date)
	if err != nil {
		return Transaction{}, err
	}
	switch jt.Type {
	case Income, Expense, Transfer:
	default:
		return Transaction{}, fmt.Errorf("unknown transaction type %q", jt.Type)
	}
	return Transaction{
		ID:          id,
		Name:        jt.Name,
		Amount:      d.money(jt.Amount),
		Date:        on,
		Kind:        jt.Type,
		From:        jt.FromAccount,
		To:          jt.ToAccount,
		Envelope:    jt.Envelope,
		AccountName: jt.AccountName,
	}, nil
}

// legacyIDSpace is the namespace of ids derived from transaction content.
var legacyIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/budget/transaction"))

// id reads a transaction id. Legacy ids are millisecond timestamps stored as
// JSON numbers, they are kept as their decimal string. Missing ids are
// derived from the transaction content, so that the copies of one
// transaction in the global, account and monthly logs share their id.
func (d *decoder) id(jt jtransaction) (string, error) {
	raw := bytes.TrimSpace(jt.ID)
	if len(raw) == 0 || string(raw) == "null" {
		d.migrated("missing transaction ids derived from their content")
		content := strings.Join([]string{jt.Name, jt.Amount.String(), jt.Date, string(jt.Type), string(jt.FromAccount), string(jt.ToAccount), jt.Envelope}, "\x00")
		return uuid.NewSHA1(legacyIDSpace, []byte(content)).String(), nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid transaction id %s: %w", raw, err)
	}
	d.migrated("numeric transaction ids converted to strings")
	return n.String(), nil
}
