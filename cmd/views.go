package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/renderer"
	"github.com/google/subcommands"
)

// --- Dashboard Command ---

type dashboardCmd struct {
	date string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show totals, envelopes, goals and recent transactions" }
func (*dashboardCmd) Usage() string {
	return `bgt dashboard [-d <date>]
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day of the dashboard (YYYY-MM-DD), today by default")
}

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	return view(ctx, func(s *session) (string, error) {
		return renderer.DashboardMarkdown(budget.NewReport(s.ledger, day, s.cfg.General.ChartMonths)), nil
	})
}

// --- Section Commands ---

// sectionCmd shows one section of the dashboard on its own.
type sectionCmd struct {
	name, synopsis string
	render         func(*budget.Report) string
	date           string
}

func (c *sectionCmd) Name() string     { return c.name }
func (c *sectionCmd) Synopsis() string { return c.synopsis }
func (c *sectionCmd) Usage() string {
	return fmt.Sprintf("bgt %s [-d <date>]\n", c.name)
}

func (c *sectionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day of the view (YYYY-MM-DD), today by default")
}

func (c *sectionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	return view(ctx, func(s *session) (string, error) {
		return c.render(budget.NewReport(s.ledger, day, s.cfg.General.ChartMonths)), nil
	})
}

func accountsCmd() *sectionCmd {
	return &sectionCmd{name: "accounts", synopsis: "show accounts with their rules and emergency usage", render: renderer.AccountsMarkdown}
}

func envelopesCmd() *sectionCmd {
	return &sectionCmd{name: "envelopes", synopsis: "show envelopes and their spending this month", render: renderer.EnvelopesMarkdown}
}

func goalsCmd() *sectionCmd {
	return &sectionCmd{name: "goals", synopsis: "show savings goals and their progress", render: renderer.GoalsMarkdown}
}

func chartCmd() *sectionCmd {
	return &sectionCmd{name: "chart", synopsis: "chart income against expenses for the last months", render: renderer.ChartMarkdown}
}

// --- Report Command ---

type reportCmd struct {
	date string
	html string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show the full budget report" }
func (*reportCmd) Usage() string {
	return `bgt report [-d <date>] [-html <file>]

  Shows accounts, envelopes, goals, the monthly chart and all transactions.
  With -html the report is written as a web page to <file> instead.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day of the report (YYYY-MM-DD), today by default")
	f.StringVar(&c.html, "html", "", "Write the report as HTML to this file")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	doc := renderer.ReportMarkdown(budget.NewReport(s.ledger, day, s.cfg.General.ChartMonths))
	if c.html == "" {
		printMarkdown(doc)
		return subcommands.ExitSuccess
	}

	page, err := renderer.HTML(fmt.Sprintf("Budget Report %s", day), doc)
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(c.html, []byte(page), 0o644); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", c.html)
	return subcommands.ExitSuccess
}

// --- Transactions Command ---

type txCmd struct {
	month   string
	account string
	tail    int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions, newest first" }
func (*txCmd) Usage() string {
	return `bgt tx [-m <YYYY-MM>] [-a <account>] [-tail <n>]
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Only transactions of this month (YYYY-MM)")
	f.StringVar(&c.account, "a", "", "Only transactions of this account")
	f.IntVar(&c.tail, "tail", 0, "Only the n most recent transactions")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filters := []func(budget.Transaction) bool{budget.AcceptAll}
	title := "Transactions"
	if c.month != "" {
		ym, _, err := date.ParseYearMonth(c.month)
		if err != nil {
			return usage(f, "%v", err)
		}
		filters = append(filters, budget.InMonth(ym))
		title += " of " + ym.String()
	}
	if c.tail < 0 {
		return usage(f, "-tail must not be negative")
	}
	return view(ctx, func(s *session) (string, error) {
		if c.account != "" {
			key := budget.AccountKey(c.account)
			if _, ok := s.ledger.Account(key); !ok {
				return "", &budget.FieldError{Field: "account", Msg: fmt.Sprintf("account %q not found", c.account), Err: budget.ErrNotFound}
			}
			filters = append(filters, budget.Involving(key))
			title += " on " + c.account
		}
		txs := budget.Newest(s.ledger.Transactions(filters...))
		if c.tail > 0 && len(txs) > c.tail {
			txs = txs[:c.tail]
		}
		return renderer.TransactionsMarkdown(title, txs), nil
	})
}

// --- History Command ---

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show income and expenses month by month" }
func (*historyCmd) Usage() string {
	return `bgt history
`
}

func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return view(ctx, func(s *session) (string, error) {
		return renderer.HistoryMarkdown(s.ledger.Currency(), slices.Collect(s.ledger.History())), nil
	})
}

// --- Query Command ---

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression on the saved state" }
func (*queryCmd) Usage() string {
	return `bgt query <jsonpath>

  Prints the result as indented JSON. Examples:

    bgt query '$.unallocatedAmount'
    bgt query '$.accounts[*].balance'
`
}

func (*queryCmd) SetFlags(*flag.FlagSet) {}

func (*queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage(f, "exactly one JSONPath expression is required")
	}
	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	v, err := s.ledger.Query(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// --- Export Command ---

type exportCmd struct{}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the transaction log as JSON lines" }
func (*exportCmd) Usage() string {
	return `bgt export

  Writes every transaction, in posting order, one JSON object per line.
`
}

func (*exportCmd) SetFlags(*flag.FlagSet) {}

func (*exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := budget.EncodeTransactions(stdout, s.ledger.Transactions()); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
