package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/agent"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with the budget assistant" }
func (*assistCmd) Usage() string {
	return `bgt assist [<question>]

  Starts an interactive session with an assistant that can read the ledger.
  It requires a Gemini API key, in GEMINI_API_KEY or in the configuration.
`
}

func (*assistCmd) SetFlags(*flag.FlagSet) {}

func (*assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	if cfg.Assist.APIKey == "" {
		return fail(errors.New("no API key: set GEMINI_API_KEY or [assist] api_key"))
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Assist.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fail(fmt.Errorf("initializing Gemini's client: %w", err))
	}

	// Tools read the saved ledger on every call.
	source := func(ctx context.Context) (*budget.Ledger, error) {
		s, closer, err := store.Open(cfg.Storage.Backend, cfg.StatePath())
		if err != nil {
			return nil, err
		}
		defer closer.Close()
		return budget.Load(ctx, s, cfg.General.Currency)
	}

	model := cfg.Assist.Model
	a := agent.New(stdout, stdin, model, agent.NewAdvisor(model), agent.NewBookkeeper(model, source, cfg.General.ChartMonths))
	a.Render = renderMarkdown
	if err := a.Run(ctx, client, strings.Join(f.Args(), " ")); err != nil {
		return fail(fmt.Errorf("assistant failed: %w", err))
	}
	return subcommands.ExitSuccess
}
