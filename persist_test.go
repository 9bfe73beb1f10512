package budget

import (
	"context"
	"testing"
	"time"
)

func TestPersist(t *testing.T) {
	ctx := context.Background()
	s := memStorage{}

	l, err := Load(ctx, s, "INR")
	if err != nil {
		t.Fatalf("Load() on empty storage unexpected error: %v", err)
	}
	if l.Len() != 0 || l.Currency() != "INR" {
		t.Fatalf("Load() on empty storage = %d transactions in %s", l.Len(), l.Currency())
	}

	a := mustAccount(t, l, "Main", "1234", Salary, 250)
	now := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	if err := Save(ctx, s, l, now); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if _, ok := s[StateKey]; !ok {
		t.Fatalf("Save() did not write %q", StateKey)
	}

	loaded, err := Load(ctx, s, "EUR")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !loaded.LastUpdated().Equal(now) {
		t.Errorf("LastUpdated() = %v, want %v", loaded.LastUpdated(), now)
	}
	if loaded.Currency() != "INR" {
		t.Errorf("Currency() = %q, want the saved INR", loaded.Currency())
	}
	acc, ok := loaded.Account(a)
	if !ok {
		t.Fatalf("account %q not persisted", a)
	}
	assertMoney(t, "balance", acc.Balance, INR(250))

	if err := Erase(ctx, s, loaded); err != nil {
		t.Fatalf("Erase() unexpected error: %v", err)
	}
	if len(s) != 0 {
		t.Errorf("Erase() left %d keys", len(s))
	}
	if loaded.Len() != 0 {
		t.Errorf("Erase() did not reset the ledger")
	}
	// erasing twice is fine.
	if err := Erase(ctx, s, loaded); err != nil {
		t.Errorf("second Erase() unexpected error: %v", err)
	}
}

func TestLoad_Corrupted(t *testing.T) {
	s := memStorage{StateKey: []byte("{not json")}
	if _, err := Load(context.Background(), s, "INR"); err == nil {
		t.Errorf("Load() of a corrupted snapshot expected an error")
	}
}
