package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// --- Add Account Command ---

type addAccountCmd struct {
	name    string
	number  string
	typ     string
	balance string
	date    string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "track a new bank account" }
func (*addAccountCmd) Usage() string {
	return `bgt add-account -name <name> -number <last 4 digits> -type <salary|savings|emergency> [-balance <amount>] [-d <date>]

  Adds an account identified by <name>-<number>. A positive opening balance is
  recorded as a transfer from "opening".
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name, 3 to 50 characters")
	f.StringVar(&c.number, "number", "", "Last 4 digits of the account number")
	f.StringVar(&c.typ, "type", string(budget.Salary), "Account type: salary, savings or emergency")
	f.StringVar(&c.balance, "balance", "0", "Opening balance")
	f.StringVar(&c.date, "d", "", "Opening date (YYYY-MM-DD), today by default")
}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	return update(ctx, func(s *session) (string, error) {
		typ, err := budget.ParseAccountType(c.typ)
		if err != nil {
			return "", err
		}
		opening, err := s.amount("balance", c.balance)
		if err != nil {
			return "", err
		}
		key, err := s.ledger.AddAccount(c.name, c.number, typ, opening, day)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added account %s with a balance of %s.", key, opening), nil
	})
}

// --- Transfer Command ---

type transferCmd struct {
	from, to string
	amount   string
	date     string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `bgt transfer -from <account> -to <account> -amount <amount> [-d <date>]

  Moves money between two different accounts. The total balance is unchanged.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account key (<name>-<number>)")
	f.StringVar(&c.to, "to", "", "Destination account key")
	f.StringVar(&c.amount, "amount", "", "Amount to transfer")
	f.StringVar(&c.date, "d", "", "Transfer date (YYYY-MM-DD), today by default")
}

func (c *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	return update(ctx, func(s *session) (string, error) {
		amount, err := s.amount("amount", c.amount)
		if err != nil {
			return "", err
		}
		tx, err := s.ledger.Transfer(budget.AccountKey(c.from), budget.AccountKey(c.to), amount, day)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Transferred %s from %s to %s.", tx.Amount, tx.From, tx.To), nil
	})
}

// --- Correct Balance Command ---

type correctBalanceCmd struct {
	account string
	balance string
}

func (*correctBalanceCmd) Name() string     { return "correct-balance" }
func (*correctBalanceCmd) Synopsis() string { return "overwrite an account balance to match the bank" }
func (*correctBalanceCmd) Usage() string {
	return `bgt correct-balance -a <account> -balance <amount>

  Sets the balance of an account. The correction is not a transaction and is
  not logged.
`
}

func (c *correctBalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account key (<name>-<number>)")
	f.StringVar(&c.balance, "balance", "", "The actual balance")
}

func (c *correctBalanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return update(ctx, func(s *session) (string, error) {
		balance, err := s.amount("balance", c.balance)
		if err != nil {
			return "", err
		}
		if err := s.ledger.CorrectBalance(budget.AccountKey(c.account), balance); err != nil {
			return "", err
		}
		return fmt.Sprintf("Balance of %s set to %s.", c.account, balance), nil
	})
}

// --- Add Rule Command ---

type addRuleCmd struct {
	account string
	kind    string
	amount  string
	to      string
	percent string
	day     int
}

func (*addRuleCmd) Name() string     { return "add-rule" }
func (*addRuleCmd) Synopsis() string { return "declare a rule on an account" }
func (*addRuleCmd) Usage() string {
	return `bgt add-rule -a <account> -kind <kind> [options]

  Declares a rule, replacing the account's rule of the same kind. Rules are
  informational, bgt never enforces them. Kinds:

    min-balance       -amount <threshold>
    auto-transfer     -to <account> -percent <0..100>
    monthly-transfer  -day <1..31> -amount <amount>
`
}

func (c *addRuleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account key (<name>-<number>)")
	f.StringVar(&c.kind, "kind", "", "Rule kind: min-balance, auto-transfer or monthly-transfer")
	f.StringVar(&c.amount, "amount", "", "Threshold or transfer amount")
	f.StringVar(&c.to, "to", "", "Destination account of an auto-transfer")
	f.StringVar(&c.percent, "percent", "", "Share of incoming funds to auto-transfer")
	f.IntVar(&c.day, "day", 0, "Day of the month of a monthly transfer")
}

func (c *addRuleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return update(ctx, func(s *session) (string, error) {
		rule, err := c.rule(s)
		if err != nil {
			return "", err
		}
		if err := s.ledger.SetRule(budget.AccountKey(c.account), rule); err != nil {
			return "", err
		}
		return fmt.Sprintf("Rule %s on %s: %s.", rule.Kind(), c.account, rule.Describe()), nil
	})
}

func (c *addRuleCmd) rule(s *session) (budget.Rule, error) {
	kind, err := budget.ParseRuleKind(c.kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case budget.MinBalanceAlert:
		threshold, err := s.amount("amount", c.amount)
		if err != nil {
			return nil, err
		}
		return budget.RuleMinBalanceAlert{Threshold: threshold}, nil
	case budget.AutoTransfer:
		p, err := decimal.NewFromString(c.percent)
		if err != nil {
			return nil, &budget.FieldError{Field: "percentage", Msg: fmt.Sprintf("%q is not a number", c.percent), Err: budget.ErrInvalid}
		}
		return budget.RuleAutoTransfer{Target: budget.AccountKey(c.to), Percentage: p}, nil
	default:
		amount, err := s.amount("amount", c.amount)
		if err != nil {
			return nil, err
		}
		return budget.RuleMonthlyTransfer{Day: c.day, Amount: amount}, nil
	}
}

// --- Emergency Command ---

type emergencyCmd struct {
	account string
	target  string
	use     string
	date    string
}

func (*emergencyCmd) Name() string     { return "emergency" }
func (*emergencyCmd) Synopsis() string { return "set an emergency fund target or record its use" }
func (*emergencyCmd) Usage() string {
	return `bgt emergency -a <account> [-target <amount>] [-use <amount> [-d <date>]]

  Sets the replenishment target of an emergency account, or records a use of
  the fund. Recording a use does not change the balance.
`
}

func (c *emergencyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Emergency account key (<name>-<number>)")
	f.StringVar(&c.target, "target", "", "Replenishment target")
	f.StringVar(&c.use, "use", "", "Amount used from the fund")
	f.StringVar(&c.date, "d", "", "Date of the use (YYYY-MM-DD), today by default")
}

func (c *emergencyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.target == "" && c.use == "" {
		return usage(f, "one of -target or -use is required")
	}
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	key := budget.AccountKey(c.account)
	return update(ctx, func(s *session) (string, error) {
		var msg string
		if c.target != "" {
			target, err := s.amount("target", c.target)
			if err != nil {
				return "", err
			}
			if err := s.ledger.SetEmergencyTarget(key, target); err != nil {
				return "", err
			}
			msg = fmt.Sprintf("Emergency target of %s set to %s.", key, target)
		}
		if c.use != "" {
			used, err := s.amount("amount", c.use)
			if err != nil {
				return "", err
			}
			if err := s.ledger.RecordEmergencyUsage(key, used, day); err != nil {
				return "", err
			}
			if msg != "" {
				msg += "\n"
			}
			msg += fmt.Sprintf("Recorded an emergency use of %s on %s.", used, day)
		}
		return msg, nil
	})
}
