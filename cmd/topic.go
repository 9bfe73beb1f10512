package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/budget/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `bgt topic [-list] [<topic>...]

  Shows documentation topics, the overview by default. "*" shows them all.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "List the available topics")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		topics, err := docs.GetAllTopics()
		if err != nil {
			return fail(err)
		}
		for _, t := range topics {
			title, err := docs.Title(t)
			if err != nil {
				return fail(err)
			}
			fmt.Fprintf(stdout, "%-12s %s\n", t, title)
		}
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return fail(fmt.Errorf("reading doc: %w", err))
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
