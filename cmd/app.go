// Package cmd implements the bgt command line application to manage a
// personal budget.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/budget"
	"github.com/etnz/budget/config"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addAccountCmd{}, "accounts")
	c.Register(&transferCmd{}, "accounts")
	c.Register(&correctBalanceCmd{}, "accounts")
	c.Register(&addRuleCmd{}, "accounts")
	c.Register(&emergencyCmd{}, "accounts")

	c.Register(&incomeCmd{}, "budget")
	c.Register(&allocateCmd{}, "budget")
	c.Register(&spendCmd{}, "budget")
	c.Register(&sweepCmd{}, "budget")
	c.Register(&closeMonthCmd{}, "budget")

	c.Register(&addGoalCmd{}, "goals")
	c.Register(&fundGoalCmd{}, "goals")

	c.Register(&dashboardCmd{}, "views")
	c.Register(accountsCmd(), "views")
	c.Register(envelopesCmd(), "views")
	c.Register(goalsCmd(), "views")
	c.Register(chartCmd(), "views")
	c.Register(&reportCmd{}, "views")
	c.Register(&txCmd{}, "views")
	c.Register(&historyCmd{}, "views")
	c.Register(&queryCmd{}, "views")
	c.Register(&exportCmd{}, "views")

	c.Register(&topicCmd{}, "help")
	c.Register(&configCmd{}, "tools")
	c.Register(&assistCmd{}, "tools")
	c.Register(&resetCmd{}, "tools")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configPath = flag.String("config", "", "Path to the configuration file (default $XDG_CONFIG_HOME/bgt/config.toml)")
	// Verbose enables diagnostics on stderr.
	Verbose = flag.Bool("v", false, "Print diagnostics on stderr")
	plain   = flag.Bool("plain", false, "Print Markdown as is, without terminal formatting")
)

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// now returns the time stamped on saved states.
var now = time.Now

// LoadConfig loads and validates the configuration selected by the global
// flags.
func LoadConfig() (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// session is a ledger loaded from the configured storage.
type session struct {
	cfg     config.Config
	storage budget.Storage
	closer  io.Closer
	ledger  *budget.Ledger
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	s, closer, err := store.Open(cfg.Storage.Backend, cfg.StatePath())
	if err != nil {
		return nil, err
	}
	l, err := budget.Load(ctx, s, cfg.General.Currency)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &session{cfg: cfg, storage: s, closer: closer, ledger: l}, nil
}

func (s *session) Close() error { return s.closer.Close() }

// amount parses a user amount in the ledger currency.
func (s *session) amount(field, value string) (budget.Money, error) {
	return budget.ParseAmount(field, value, s.ledger.Currency())
}

// update loads the ledger, applies fn, and saves the ledger only if fn
// succeeded. The message returned by fn is printed.
func update(ctx context.Context, fn func(s *session) (string, error)) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	msg, err := fn(s)
	if err != nil {
		return fail(err)
	}
	if err := budget.Save(ctx, s.storage, s.ledger, now()); err != nil {
		return fail(err)
	}
	if msg != "" {
		fmt.Fprintln(stdout, msg)
	}
	return subcommands.ExitSuccess
}

// view loads the ledger and prints the Markdown document returned by fn.
func view(ctx context.Context, fn func(s *session) (string, error)) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	doc, err := fn(s)
	if err != nil {
		return fail(err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// fail prints err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// usage prints a usage error of command f.
func usage(f *flag.FlagSet, format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	f.Usage()
	return subcommands.ExitUsageError
}

// parseDay parses the -d flag of posting commands.
func parseDay(value string) (date.Date, error) {
	if value == "" {
		return date.Today(), nil
	}
	return date.Parse(value)
}

// printMarkdown prints a Markdown document, formatted for the terminal
// unless -plain is set.
func printMarkdown(doc string) { fmt.Fprint(stdout, renderMarkdown(doc)) }

// renderMarkdown formats doc for the terminal. It returns doc unchanged when
// -plain is set or formatting fails.
func renderMarkdown(doc string) string {
	if *plain {
		return doc
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		log.Printf("cannot format markdown: %v", err)
		return doc
	}
	out, err := r.Render(doc)
	if err != nil {
		log.Printf("cannot format markdown: %v", err)
		return doc
	}
	return out
}
