package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"google.golang.org/genai"
)

func testSource(t *testing.T) Source {
	t.Helper()
	l := budget.NewLedger("EUR")
	on := date.MustParse("2025-03-14")
	key, err := l.AddAccount("Main", "1234", budget.Salary, budget.M(100, "EUR"), on)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.PostIncome(budget.M(2000, "EUR"), key, on); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Spend("Groceries", budget.M(42, "EUR"), key, "", on); err != nil {
		t.Fatal(err)
	}
	return func(context.Context) (*budget.Ledger, error) { return l, nil }
}

func call(t *testing.T, lib Library, name string, args map[string]any) map[string]any {
	t.Helper()
	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
	if resp.ID != "1" || resp.Name != name {
		t.Errorf("%s response is for %s/%s", name, resp.ID, resp.Name)
	}
	return resp.Response
}

func TestBookkeeperFunctions(t *testing.T) {
	lib := NewLibrary(BookkeeperFunctions(testSource(t), 6))

	tests := []struct {
		name    string
		args    map[string]any
		want    string
		wantErr bool
	}{
		{name: "Dashboard", args: map[string]any{"date": "2025-03-14"}, want: "Budget Report on 2025-03-14"},
		{name: "Dashboard", args: map[string]any{"date": "yesterday"}, wantErr: true},
		{name: "Transactions", args: map[string]any{"month": "2025-03"}, want: "Groceries"},
		{name: "Transactions", args: map[string]any{"account": "Main-1234"}, want: "Groceries"},
		{name: "Transactions", args: map[string]any{"account": "Nope-0000"}, wantErr: true},
		{name: "Transactions", args: map[string]any{"month": 3}, wantErr: true},
		{name: "History", want: "2025-03"},
		{name: "Query", args: map[string]any{"path": "$.currency"}, want: `"EUR"`},
		{name: "Query", args: map[string]any{"path": `$.accounts["Main-1234"].balance`}, want: "2058"},
		{name: "Unknown", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, lib, tc.name, tc.args)
			if tc.wantErr {
				if _, ok := resp["error"]; !ok {
					t.Errorf("%s(%v) = %v, want an error", tc.name, tc.args, resp)
				}
				return
			}
			out, ok := resp["output"].(string)
			if !ok {
				t.Fatalf("%s(%v) = %v, want an output", tc.name, tc.args, resp)
			}
			if !strings.Contains(out, tc.want) {
				t.Errorf("%s(%v) output does not contain %q:\n%s", tc.name, tc.args, tc.want, out)
			}
		})
	}
}

func TestBookkeeperFunctions_ChartMonths(t *testing.T) {
	l := budget.NewLedger("EUR")
	key, err := l.AddAccount("Main", "1234", budget.Salary, budget.M(0, "EUR"), date.MustParse("2025-02-01"))
	if err != nil {
		t.Fatal(err)
	}
	for _, on := range []string{"2025-02-01", "2025-03-01"} {
		if _, err := l.PostIncome(budget.M(1000, "EUR"), key, date.MustParse(on)); err != nil {
			t.Fatal(err)
		}
	}
	source := func(context.Context) (*budget.Ledger, error) { return l, nil }

	for months, wantFebruary := range map[int]bool{1: false, 6: true} {
		resp := call(t, NewLibrary(BookkeeperFunctions(source, months)), "Dashboard", map[string]any{"date": "2025-03-14"})
		out, _ := resp["output"].(string)
		if got := strings.Contains(out, "2025-02 "); got != wantFebruary {
			t.Errorf("Dashboard charting %d months shows 2025-02: %v, want %v\n%s", months, got, wantFebruary, out)
		}
	}
}

func TestBookkeeperFunctions_SourceError(t *testing.T) {
	failing := func(context.Context) (*budget.Ledger, error) { return nil, errors.New("disk on fire") }
	lib := NewLibrary(BookkeeperFunctions(failing, 6))
	resp := call(t, lib, "History", nil)
	if got, _ := resp["error"].(string); got != "disk on fire" {
		t.Errorf("History() error = %v, want the source error", resp)
	}
}

func TestDeclarations(t *testing.T) {
	source := testSource(t)
	experts := []*Expert{NewAdvisor("m"), NewBookkeeper("m", source, 6)}
	decls := NewDeclaration(experts)
	if len(decls) != 2 || decls[0].Name != "Advisor" || decls[1].Name != "Bookkeeper" {
		t.Errorf("NewDeclaration() = %v", decls)
	}

	f := newFacilitator("m", experts...)
	if got := len(f.Config.Tools[0].FunctionDeclarations); got != 2 {
		t.Errorf("facilitator has %d tools, want 2", got)
	}
	// A call without question is refused before reaching any chat.
	resp := f.Library(context.Background(), &genai.FunctionCall{Name: "Bookkeeper", Args: map[string]any{}})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("call without a question = %v, want an error", resp.Response)
	}
}
