package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RuleKind enumerates the account rules.
type RuleKind int

const (
	MinBalanceAlert RuleKind = iota
	AutoTransfer
	MonthlyTransferSchedule
)

var ruleKinds = []RuleKind{MinBalanceAlert, AutoTransfer, MonthlyTransferSchedule}

func (k RuleKind) String() string {
	switch k {
	case MinBalanceAlert:
		return "min-balance"
	case AutoTransfer:
		return "auto-transfer"
	case MonthlyTransferSchedule:
		return "monthly-transfer"
	default:
		return "unknown"
	}
}

// ParseRuleKind parses the String form of a RuleKind.
func ParseRuleKind(s string) (RuleKind, error) {
	for _, k := range ruleKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, invalid("rule", "unknown rule %q, want min-balance, auto-transfer or monthly-transfer", s)
}

// Rule is a declarative account setting.
//
// Rules are recorded and displayed but never evaluated: no alert is raised
// and no transfer is triggered by them.
type Rule interface {
	Kind() RuleKind
	Describe() string
	validate(l *Ledger) error
}

// RuleMinBalanceAlert asks to be alerted when the balance drops below Threshold.
type RuleMinBalanceAlert struct {
	Threshold Money
}

func (RuleMinBalanceAlert) Kind() RuleKind { return MinBalanceAlert }
func (r RuleMinBalanceAlert) Describe() string {
	return fmt.Sprintf("alert below %s", r.Threshold)
}
func (r RuleMinBalanceAlert) validate(*Ledger) error { return validateAmount("threshold", r.Threshold) }

// RuleAutoTransfer asks to move Percentage of incoming funds to Target.
type RuleAutoTransfer struct {
	Target     AccountKey
	Percentage decimal.Decimal
}

func (RuleAutoTransfer) Kind() RuleKind { return AutoTransfer }
func (r RuleAutoTransfer) Describe() string {
	return fmt.Sprintf("move %s%% to %s", r.Percentage, r.Target)
}
func (r RuleAutoTransfer) validate(l *Ledger) error {
	if r.Target == "" {
		return invalid("to", "destination account is required")
	}
	if _, ok := l.accounts[r.Target]; !ok {
		return notFound("to", "account %q not found", r.Target)
	}
	if r.Percentage.IsNegative() || r.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return invalid("percentage", "percentage must be between 0 and 100, got %s", r.Percentage)
	}
	return nil
}

// RuleMonthlyTransfer schedules a transfer of Amount on Day of every month.
type RuleMonthlyTransfer struct {
	Day    int
	Amount Money
}

func (RuleMonthlyTransfer) Kind() RuleKind { return MonthlyTransferSchedule }
func (r RuleMonthlyTransfer) Describe() string {
	return fmt.Sprintf("transfer %s on day %d", r.Amount, r.Day)
}
func (r RuleMonthlyTransfer) validate(*Ledger) error {
	if r.Day < 1 || r.Day > 31 {
		return invalid("day", "day of month must be between 1 and 31, got %d", r.Day)
	}
	return validateAmount("amount", r.Amount)
}
