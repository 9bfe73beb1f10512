package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

// --- Income Command ---

type incomeCmd struct {
	account string
	amount  string
	date    string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "post the monthly income into an account" }
func (*incomeCmd) Usage() string {
	return `bgt income -a <account> -amount <amount> [-d <date>]

  Credits the account and sets the income of the month. Posting again in the
  same month replaces the month's income. The unallocated amount becomes the
  income minus everything allocated to envelopes.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account key (<name>-<number>)")
	f.StringVar(&c.amount, "amount", "", "Income amount")
	f.StringVar(&c.date, "d", "", "Income date (YYYY-MM-DD), today by default")
}

func (c *incomeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	return update(ctx, func(s *session) (string, error) {
		amount, err := s.amount("amount", c.amount)
		if err != nil {
			return "", err
		}
		if _, err := s.ledger.PostIncome(amount, budget.AccountKey(c.account), day); err != nil {
			return "", err
		}
		return fmt.Sprintf("Income of %s set to %s, %s unallocated.", day.YearMonth(), amount, s.ledger.Unallocated()), nil
	})
}

// --- Allocate Command ---

type allocateCmd struct {
	envelope string
	amount   string
}

func (*allocateCmd) Name() string     { return "allocate" }
func (*allocateCmd) Synopsis() string { return "put unallocated funds in an envelope" }
func (*allocateCmd) Usage() string {
	return `bgt allocate -e <envelope> -amount <amount>

  Moves funds from the unallocated amount to an envelope, creating it if
  needed.
`
}

func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.envelope, "e", "", "Envelope name")
	f.StringVar(&c.amount, "amount", "", "Amount to allocate")
}

func (c *allocateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return update(ctx, func(s *session) (string, error) {
		amount, err := s.amount("amount", c.amount)
		if err != nil {
			return "", err
		}
		name := strings.TrimSpace(c.envelope)
		if err := s.ledger.Allocate(name, amount); err != nil {
			return "", err
		}
		balance, _ := s.ledger.Envelope(name)
		return fmt.Sprintf("Envelope %s: %s, %s left unallocated.", name, balance, s.ledger.Unallocated()), nil
	})
}

// --- Spend Command ---

type spendCmd struct {
	name     string
	account  string
	envelope string
	amount   string
	date     string
}

func (*spendCmd) Name() string     { return "spend" }
func (*spendCmd) Synopsis() string { return "record an expense" }
func (*spendCmd) Usage() string {
	return `bgt spend -name <name> -a <account> -amount <amount> [-e <envelope>] [-d <date>]

  Debits the account and the envelope. Without an envelope the expense is
  taken from the unallocated amount.
`
}

func (c *spendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "What the expense is for")
	f.StringVar(&c.account, "a", "", "Account key (<name>-<number>)")
	f.StringVar(&c.envelope, "e", "", "Envelope charged, if any")
	f.StringVar(&c.amount, "amount", "", "Expense amount")
	f.StringVar(&c.date, "d", "", "Expense date (YYYY-MM-DD), today by default")
}

func (c *spendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	return update(ctx, func(s *session) (string, error) {
		amount, err := s.amount("amount", c.amount)
		if err != nil {
			return "", err
		}
		tx, err := s.ledger.Spend(c.name, amount, budget.AccountKey(c.account), c.envelope, day)
		if err != nil {
			return "", err
		}
		a, _ := s.ledger.Account(tx.From)
		return fmt.Sprintf("Spent %s on %s, %s left on %s.", tx.Amount, tx.Name, a.Balance, a.Key), nil
	})
}

// --- Sweep Command ---

type sweepCmd struct{}

func (*sweepCmd) Name() string     { return "sweep" }
func (*sweepCmd) Synopsis() string { return "return every envelope to the unallocated amount" }
func (*sweepCmd) Usage() string {
	return `bgt sweep

  Adds the balance of every envelope to the unallocated amount and sets the
  envelopes to zero. The envelopes are kept.
`
}

func (*sweepCmd) SetFlags(*flag.FlagSet) {}

func (*sweepCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return update(ctx, func(s *session) (string, error) {
		swept, err := s.ledger.SweepEnvelopes()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Swept %s back, %s unallocated.", swept, s.ledger.Unallocated()), nil
	})
}

// --- Close Month Command ---

type closeMonthCmd struct {
	account string
	date    string
}

func (*closeMonthCmd) Name() string     { return "close-month" }
func (*closeMonthCmd) Synopsis() string { return "move the unallocated amount into an account" }
func (*closeMonthCmd) Usage() string {
	return `bgt close-month -a <account> [-d <date>]

  Records the positive unallocated amount as a transfer into the account,
  typically savings, and resets the unallocated amount to zero.
`
}

func (c *closeMonthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account receiving the unallocated amount")
	f.StringVar(&c.date, "d", "", "Date of the transfer (YYYY-MM-DD), today by default")
}

func (c *closeMonthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	return update(ctx, func(s *session) (string, error) {
		tx, err := s.ledger.CloseMonth(budget.AccountKey(c.account), day)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved %s to %s.", tx.Amount, tx.To), nil
	})
}

// --- Goal Commands ---

type addGoalCmd struct {
	name   string
	target string
}

func (*addGoalCmd) Name() string     { return "add-goal" }
func (*addGoalCmd) Synopsis() string { return "create a savings goal" }
func (*addGoalCmd) Usage() string {
	return `bgt add-goal -name <name> -target <amount>
`
}

func (c *addGoalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Goal name")
	f.StringVar(&c.target, "target", "", "Amount to save")
}

func (c *addGoalCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return update(ctx, func(s *session) (string, error) {
		target, err := s.amount("target", c.target)
		if err != nil {
			return "", err
		}
		name := strings.TrimSpace(c.name)
		if err := s.ledger.CreateGoal(name, target); err != nil {
			return "", err
		}
		return fmt.Sprintf("Goal %s created with a target of %s.", name, target), nil
	})
}

type fundGoalCmd struct {
	name   string
	amount string
}

func (*fundGoalCmd) Name() string     { return "fund-goal" }
func (*fundGoalCmd) Synopsis() string { return "put money aside for a goal" }
func (*fundGoalCmd) Usage() string {
	return `bgt fund-goal -name <name> -amount <amount>

  Adds to the amount allocated to a goal. No money moves between accounts.
`
}

func (c *fundGoalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Goal name")
	f.StringVar(&c.amount, "amount", "", "Amount put aside")
}

func (c *fundGoalCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return update(ctx, func(s *session) (string, error) {
		amount, err := s.amount("amount", c.amount)
		if err != nil {
			return "", err
		}
		if err := s.ledger.FundGoal(c.name, amount); err != nil {
			return "", err
		}
		g, _ := s.ledger.Goal(strings.TrimSpace(c.name))
		return fmt.Sprintf("Goal %s: %s of %s (%s%%).", g.Name, g.Allocated, g.Target, g.Progress()), nil
	})
}
