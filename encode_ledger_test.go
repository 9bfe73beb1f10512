package budget

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func TestEncodeTransactions(t *testing.T) {
	l := richLedger(t)
	var buf bytes.Buffer
	if err := EncodeTransactions(&buf, l.Transactions()); err != nil {
		t.Fatalf("EncodeTransactions() unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != l.Len() {
		t.Fatalf("got %d lines, want %d", len(lines), l.Len())
	}
	if !strings.HasPrefix(lines[0], `{"id":"`) {
		t.Errorf("first line = %s, want the id first", lines[0])
	}
	if !strings.Contains(lines[2], `"type":"expense"`) || !strings.Contains(lines[2], `"envelope":"Food"`) || !strings.Contains(lines[2], `"amount":40.5`) {
		t.Errorf("expense line = %s", lines[2])
	}

	got, err := decodeTransactions(&buf, "INR")
	if err != nil {
		t.Fatalf("decodeTransactions() unexpected error: %v", err)
	}
	var want []Transaction
	for _, tx := range l.Transactions() {
		want = append(want, tx)
	}
	if !slices.EqualFunc(got, want, func(a, b Transaction) bool {
		return a.ID == b.ID && a.Name == b.Name && a.Amount.Equal(b.Amount) && a.Date == b.Date &&
			a.Kind == b.Kind && a.From == b.From && a.To == b.To && a.Envelope == b.Envelope && a.AccountName == b.AccountName
	}) {
		t.Errorf("decodeTransactions() = %+v, want %+v", got, want)
	}
}

func TestEncodeTransactions_Filtered(t *testing.T) {
	l := richLedger(t)
	var buf bytes.Buffer
	if err := EncodeTransactions(&buf, l.Transactions(OfKind(Expense))); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("got %d expense lines, want 2", got)
	}
}

func TestDecodeTransactions_Error(t *testing.T) {
	in := `{"id":"a","name":"x","amount":1,"date":"2025-01-01","type":"income"}` + "\n\n" + `{"id":"b","type":"gift","date":"2025-01-01"}`
	_, err := decodeTransactions(strings.NewReader(in), "INR")
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("decodeTransactions() error = %v, want a line 3 error", err)
	}
}
