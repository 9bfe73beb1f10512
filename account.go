package budget

import (
	"fmt"
	"slices"

	"github.com/etnz/budget/date"
)

// AccountType classifies an account.
type AccountType string

const (
	Salary    AccountType = "salary"
	Savings   AccountType = "savings"
	Emergency AccountType = "emergency"
)

// ParseAccountType parses "salary", "savings" or "emergency".
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(s); t {
	case Salary, Savings, Emergency:
		return t, nil
	case "":
		return "", invalid("type", "select an account type")
	default:
		return "", invalid("type", "unknown account type %q, want salary, savings or emergency", s)
	}
}

// AccountKey identifies an account: its name and the last 4 digits of its number.
type AccountKey string

// NewAccountKey returns the key of the account named name with number.
func NewAccountKey(name, number string) AccountKey {
	return AccountKey(fmt.Sprintf("%s-%s", name, number))
}

// EmergencyRecord is a dated use of an emergency fund. It is informational
// only and does not move money.
type EmergencyRecord struct {
	Date   date.Date
	Amount Money
	Type   string // always "usage"
}

// Account is a real-world account tracked by the ledger.
type Account struct {
	Key     AccountKey
	Name    string
	Number  string // Number holds the last 4 digits only.
	Type    AccountType
	Balance Money

	transactions []Transaction
	rules        map[RuleKind]Rule

	// Emergency accounts only.
	emergencyTarget  Money
	hasTarget        bool
	emergencyHistory []EmergencyRecord
}

// Transactions returns the account's transactions in posting order.
func (a *Account) Transactions() []Transaction { return slices.Clone(a.transactions) }

// Rules returns the rules declared on the account, ordered by kind.
// Rules are descriptive: nothing in the ledger evaluates them.
func (a *Account) Rules() []Rule {
	rules := make([]Rule, 0, len(a.rules))
	for _, k := range ruleKinds {
		if r, ok := a.rules[k]; ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// Rule returns the rule of kind k, if declared.
func (a *Account) Rule(k RuleKind) (Rule, bool) {
	r, ok := a.rules[k]
	return r, ok
}

// EmergencyTarget returns the replenishment target of an emergency account.
func (a *Account) EmergencyTarget() (Money, bool) { return a.emergencyTarget, a.hasTarget }

// EmergencyHistory returns the recorded emergency usages.
func (a *Account) EmergencyHistory() []EmergencyRecord { return slices.Clone(a.emergencyHistory) }

// EmergencyUsed returns the sum of recorded emergency usages.
func (a *Account) EmergencyUsed() Money {
	total := M(0, a.Balance.Currency())
	for _, r := range a.emergencyHistory {
		total = total.Add(r.Amount)
	}
	return total
}

// clone returns a deep copy, so that callers cannot alter the ledger.
func (a *Account) clone() *Account {
	c := *a
	c.transactions = slices.Clone(a.transactions)
	c.emergencyHistory = slices.Clone(a.emergencyHistory)
	if a.rules != nil {
		c.rules = make(map[RuleKind]Rule, len(a.rules))
		for k, r := range a.rules {
			c.rules[k] = r
		}
	}
	return &c
}
