package cmd

import (
	"context"
	"flag"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "erase all budget data" }
func (*resetCmd) Usage() string {
	return `bgt reset -yes

  Erases every account, envelope, goal and transaction. This cannot be undone.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset")
}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		return usage(f, "reset erases all data, confirm with -yes")
	}
	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := budget.Erase(ctx, s.storage, s.ledger); err != nil {
		return fail(err)
	}
	printMarkdown("All data has been reset.\n")
	return subcommands.ExitSuccess
}
