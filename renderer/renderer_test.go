package renderer

import (
	"slices"
	"strings"
	"testing"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var day = date.MustParse("2025-03-14")

func inr(v float64) budget.Money { return budget.M(v, "INR") }

// sampleReport builds a report exercising every section.
func sampleReport(t *testing.T) *budget.Report {
	t.Helper()
	l := budget.NewLedger("INR")
	check := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	main, err := l.AddAccount("Main", "1234", budget.Salary, inr(1000), day.Add(-40))
	check(err)
	rainy, err := l.AddAccount("Rainy Day", "9876", budget.Emergency, inr(5000), day.Add(-40))
	check(err)

	_, err = l.PostIncome(inr(3000), main, day.Add(-30))
	check(err)
	_, err = l.PostIncome(inr(4000), main, day)
	check(err)
	check(l.Allocate("Groceries", inr(1500)))
	check(l.Allocate("Rent", inr(2000)))
	_, err = l.Spend("Market", inr(300), main, "Groceries", day)
	check(err)
	_, err = l.Spend("Cinema", inr(100), main, "", day)
	check(err)
	_, err = l.Transfer(main, rainy, inr(200), day)
	check(err)
	check(l.CreateGoal("Bike", inr(1000)))
	check(l.FundGoal("Bike", inr(250)))
	check(l.CreateGoal("Book", inr(20)))
	check(l.FundGoal("Book", inr(20)))
	check(l.SetRule(main, budget.RuleMinBalanceAlert{Threshold: inr(500)}))
	check(l.SetRule(main, budget.RuleAutoTransfer{Target: rainy, Percentage: decimal.NewFromInt(10)}))
	check(l.SetEmergencyTarget(rainy, inr(10000)))
	check(l.RecordEmergencyUsage(rainy, inr(700), day))

	return budget.NewReport(l, day, 6)
}

// parse returns the tables of a GFM document as rows of cell texts, headers
// included.
func parse(t *testing.T, markdown string) (headings []string, tables [][][]string) {
	t.Helper()
	src := []byte(markdown)
	root := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(src))

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			headings = append(headings, nodeText(n, src))
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			var rows [][]string
			for row := n.FirstChild(); row != nil; row = row.NextSibling() {
				var cells []string
				for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
					cells = append(cells, nodeText(cell, src))
				}
				rows = append(rows, cells)
			}
			tables = append(tables, rows)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return headings, tables
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// row returns the first row of table whose first cell is key.
func row(table [][]string, key string) []string {
	for _, r := range table {
		if len(r) > 0 && r[0] == key {
			return r
		}
	}
	return nil
}

func TestDashboardMarkdown(t *testing.T) {
	r := sampleReport(t)
	headings, tables := parse(t, DashboardMarkdown(r))

	want := []string{"Budget on 2025-03-14", "Envelopes", "Goals", "Recent Transactions"}
	if !slices.Equal(headings, want) {
		t.Errorf("headings = %q, want %q", headings, want)
	}
	if len(tables) != 4 {
		t.Fatalf("got %d tables, want 4", len(tables))
	}

	totals := tables[0]
	if got := row(totals, "Unallocated"); got == nil || got[1] != r.Unallocated.String() {
		t.Errorf("Unallocated row = %q, want %s", got, r.Unallocated)
	}
	if got := row(totals, "Total balance"); got == nil || got[1] != r.TotalBalance.String() {
		t.Errorf("Total balance row = %q, want %s", got, r.TotalBalance)
	}

	envelopes := tables[1]
	if got := row(envelopes, "Groceries"); got == nil || got[1] != inr(1200).String() || got[2] != inr(300).String() {
		t.Errorf("Groceries row = %q", got)
	}
	if got := row(envelopes, "unassigned"); got == nil || got[2] != inr(100).String() {
		t.Errorf("unassigned spending row = %q", got)
	}

	goals := tables[2]
	if got := row(goals, "Bike"); got == nil || got[4] != "25.0%" {
		t.Errorf("Bike row = %q, want 25.0%% progress", got)
	}
	if got := row(goals, "Book ✓"); got == nil {
		t.Errorf("reached goal is not marked: %q", goals)
	}

	// header + the latest transactions only.
	if got := len(tables[3]) - 1; got != dashboardTransactions {
		t.Errorf("recent transactions = %d, want %d", got, dashboardTransactions)
	}
}

func TestSectionsMarkdown(t *testing.T) {
	r := sampleReport(t)
	tests := []struct {
		name     string
		markdown string
		headings []string
		first    string
	}{
		{"envelopes", EnvelopesMarkdown(r), []string{"Envelopes on 2025-03-14", "Envelopes"}, "Groceries"},
		{"goals", GoalsMarkdown(r), []string{"Goals on 2025-03-14", "Goals"}, "Bike"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			headings, tables := parse(t, tc.markdown)
			if !slices.Equal(headings, tc.headings) {
				t.Errorf("headings = %q, want %q", headings, tc.headings)
			}
			if len(tables) != 1 || row(tables[0], tc.first) == nil {
				t.Errorf("tables = %q, want one with a %s row", tables, tc.first)
			}
		})
	}

	empty := budget.NewReport(budget.NewLedger("INR"), day, 6)
	if out := EnvelopesMarkdown(empty); !strings.Contains(out, "No envelopes yet.") {
		t.Errorf("EnvelopesMarkdown() of an empty ledger =\n%s", out)
	}
	if out := GoalsMarkdown(empty); !strings.Contains(out, "No savings goals.") {
		t.Errorf("GoalsMarkdown() of an empty ledger =\n%s", out)
	}
}

func TestAccountsMarkdown(t *testing.T) {
	r := sampleReport(t)
	out := AccountsMarkdown(r)
	headings, tables := parse(t, out)

	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	main := row(tables[0], "Main")
	if main == nil || main[1] != "****1234" || main[2] != "salary" {
		t.Errorf("Main row = %q", main)
	}
	if strings.Contains(out, "| 1234") {
		t.Errorf("account number is not masked:\n%s", out)
	}
	if !slices.Contains(headings, "Main (****1234)") || !slices.Contains(headings, "Rainy Day (****9876)") {
		t.Errorf("headings = %q, want a section per account with rules", headings)
	}
	for _, want := range []string{"min-balance: alert below", "(not enforced)", "replenishment target", "1 emergency usage(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("AccountsMarkdown() does not contain %q:\n%s", want, out)
		}
	}
}

func TestTransactionsMarkdown(t *testing.T) {
	r := sampleReport(t)
	_, tables := parse(t, TransactionsMarkdown("Transactions", r.Transactions))
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	rows := tables[0][1:]
	if len(rows) != len(r.Transactions) {
		t.Fatalf("got %d rows, want %d", len(rows), len(r.Transactions))
	}
	for _, tx := range r.Transactions {
		got := row(rows, tx.Date.String())
		if got == nil {
			t.Errorf("no row for %s", tx.Date)
		}
	}
	cinema := slices.IndexFunc(rows, func(r []string) bool { return r[1] == "Cinema" })
	if cinema < 0 || rows[cinema][5] != inr(-100).String() {
		t.Errorf("expense is not negative: %q", rows)
	}

	_, tables = parse(t, TransactionsMarkdown("Empty", nil))
	if len(tables) != 0 {
		t.Errorf("empty list rendered a table")
	}
}

func TestHistoryAndChart(t *testing.T) {
	l := budget.NewLedger("INR")
	key, err := l.AddAccount("Main", "1234", budget.Salary, inr(0), day)
	if err != nil {
		t.Fatal(err)
	}
	for i, amount := range []float64{1000, 2000} {
		if _, err := l.PostIncome(inr(amount), key, day.YearMonth().Add(i-1).First()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := l.Spend("Rent", inr(500), key, "", day); err != nil {
		t.Fatal(err)
	}

	_, tables := parse(t, HistoryMarkdown("INR", slices.Collect(l.History())))
	if len(tables) != 1 || len(tables[0]) != 3 {
		t.Fatalf("history tables = %q", tables)
	}
	march := row(tables[0], "2025-03")
	if march == nil || march[3] != inr(1500).SignedString() || march[4] != "2" {
		t.Errorf("2025-03 row = %q", march)
	}

	r := budget.NewReport(l, day, 6)
	_, tables = parse(t, ChartMarkdown(r))
	if len(tables) != 1 {
		t.Fatalf("chart tables = %q", tables)
	}
	if got := row(tables[0], "2025-03"); got == nil || got[2] != strings.Repeat("█", barWidth) {
		t.Errorf("largest figure is not drawn full: %q", got)
	}
	if got := row(tables[0], "2025-02"); got == nil || got[4] != strings.Repeat("░", barWidth) {
		t.Errorf("zero expenses are not drawn empty: %q", got)
	}
}

func TestReportMarkdown(t *testing.T) {
	headings, _ := parse(t, ReportMarkdown(sampleReport(t)))
	for _, want := range []string{"Summary", "Accounts", "Envelopes", "Goals", "Income vs Expenses", "Transactions"} {
		if !slices.Contains(headings, want) {
			t.Errorf("ReportMarkdown() has no %q section, headings %q", want, headings)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, full int64
		want        int
	}{
		{0, 100, 0},
		{50, 100, barWidth / 2},
		{100, 100, barWidth},
		{250, 100, barWidth},
		{10, 0, 0},
		{-5, 100, 0},
	}
	for _, tc := range tests {
		got := bar(decimal.NewFromInt(tc.value), decimal.NewFromInt(tc.full))
		if n := strings.Count(got, "█"); n != tc.want {
			t.Errorf("bar(%d, %d) = %q, want %d full cells", tc.value, tc.full, got, tc.want)
		}
		if n := len([]rune(got)); n != barWidth {
			t.Errorf("bar(%d, %d) has %d cells, want %d", tc.value, tc.full, n, barWidth)
		}
	}
}

func TestHTML(t *testing.T) {
	page, err := HTML("Budget <March>", DashboardMarkdown(sampleReport(t)))
	if err != nil {
		t.Fatalf("HTML() unexpected error: %v", err)
	}
	for _, want := range []string{"<title>Budget &lt;March&gt;</title>", "<table>", "<h1>Budget on 2025-03-14</h1>"} {
		if !strings.Contains(page, want) {
			t.Errorf("HTML() does not contain %q", want)
		}
	}
}
