package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/renderer"
	"google.golang.org/genai"
)

// Source loads the ledger the tools read. It is called on every tool call
// so that answers reflect the saved state.
type Source func(ctx context.Context) (*budget.Ledger, error)

func instruction(s string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: s}}}
}

func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			You are in charge of the conversation and of solving the user's request about their
			personal budget.

			The experts available as tools are dedicated to you and keep the context of your previous
			questions. Devise a plan of questions to ask each of them, then write the best response
			to the user's request in Markdown.

			Never invent figures: every amount you quote comes from the Bookkeeper.`),
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor returns an expert in personal finance practices, without
// access to the ledger.
func NewAdvisor(model string) *Expert {
	return &Expert{
		Name: "Advisor",
		Description: `An expert in personal budgeting: envelope budgeting, emergency funds,
		savings goals and good spending habits. Ask the Advisor for advice and explanations.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: instruction(`
			You are a personal finance advisor. You explain envelope budgeting, how to size an
			emergency fund and how to reach savings goals. You are concise and practical, and you
			never recommend specific financial products.`),
		},
	}
}

// NewBookkeeper returns the expert reading the user's ledger from source.
// Its dashboard charts the last chartMonths months.
func NewBookkeeper(model string, source Source, chartMonths int) *Expert {
	lib := BookkeeperFunctions(source, chartMonths)
	return &Expert{
		Name: "Bookkeeper",
		Description: `The Bookkeeper reads the user's budget ledger: accounts, envelopes,
		goals, transactions and monthly history. Ask the Bookkeeper for any figure.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are the bookkeeper of the user's budget ledger. Use the tools to read it and answer
			with exact figures. The ledger is read-only for you.`),
		},
		Library: NewLibrary(lib),
	}
}

// BookkeeperFunctions returns the ledger reading tools.
func BookkeeperFunctions(source Source, chartMonths int) []*Func {
	dateParam := &genai.Schema{
		Type:        genai.TypeString,
		Description: "The day of the report, as YYYY-MM-DD. Today is the default.",
	}
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Dashboard",
				Description: "Returns the budget report as Markdown: totals, accounts, envelopes, goals, monthly chart and transactions.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"date": dateParam},
				},
				Response: &genai.Schema{Type: genai.TypeString},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				l, err := source(ctx)
				if err != nil {
					return "", err
				}
				on, err := dateArg(args)
				if err != nil {
					return "", err
				}
				return renderer.ReportMarkdown(budget.NewReport(l, on, chartMonths)), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Transactions",
				Description: "Returns transactions as a Markdown table, newest first, optionally restricted to a month or an account.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"month":   {Type: genai.TypeString, Description: "A month as YYYY-MM."},
						"account": {Type: genai.TypeString, Description: "An account key, like Main-1234."},
					},
				},
				Response: &genai.Schema{Type: genai.TypeString},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				l, err := source(ctx)
				if err != nil {
					return "", err
				}
				var filters []func(budget.Transaction) bool
				month, err := stringArg(args, "month")
				if err != nil {
					return "", err
				}
				if month != "" {
					ym, _, err := date.ParseYearMonth(month)
					if err != nil {
						return "", err
					}
					filters = append(filters, budget.InMonth(ym))
				}
				account, err := stringArg(args, "account")
				if err != nil {
					return "", err
				}
				if account != "" {
					key := budget.AccountKey(account)
					if _, ok := l.Account(key); !ok {
						return "", fmt.Errorf("account %q not found", account)
					}
					filters = append(filters, budget.Involving(key))
				}
				return renderer.TransactionsMarkdown("Transactions", budget.Newest(l.Transactions(filters...))), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "History",
				Description: "Returns the income, expenses and net of every month as a Markdown table.",
				Response:    &genai.Schema{Type: genai.TypeString},
			},
			Func: func(ctx context.Context, _ map[string]any) (string, error) {
				l, err := source(ctx)
				if err != nil {
					return "", err
				}
				return renderer.HistoryMarkdown(l.Currency(), slices.Collect(l.History())), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name: "Query",
				Description: `Evaluates a JSONPath expression over the saved ledger document and returns the
				result as JSON. The document has the keys currency, monthlyIncome, unallocatedAmount,
				envelopes, goals, accounts, transactions, monthlyHistory and lastUpdated.`,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"path": {Type: genai.TypeString, Description: "A JSONPath expression, like $.accounts[*].balance"},
					},
					Required: []string{"path"},
				},
				Response: &genai.Schema{Type: genai.TypeString},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				l, err := source(ctx)
				if err != nil {
					return "", err
				}
				path, err := stringArg(args, "path")
				if err != nil {
					return "", err
				}
				v, err := l.Query(path)
				if err != nil {
					return "", err
				}
				out, err := json.Marshal(v)
				return string(out), err
			},
		},
	}
}

func dateArg(args map[string]any) (date.Date, error) {
	s, err := stringArg(args, "date")
	if err != nil || s == "" {
		return date.Today(), err
	}
	return date.Parse(s)
}
