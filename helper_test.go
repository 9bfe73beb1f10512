package budget

import (
	"context"
	"fmt"
	"io/fs"
	"testing"

	"github.com/etnz/budget/date"
)

// INR is a helper for test to create rupee money from const
func INR(v float64) Money { return M(v, "INR") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

var day = date.MustParse("2025-03-14")

// mustAccount adds an account to l, failing the test on error.
func mustAccount(t *testing.T, l *Ledger, name, number string, typ AccountType, balance float64) AccountKey {
	t.Helper()
	key, err := l.AddAccount(name, number, typ, INR(balance), day)
	if err != nil {
		t.Fatalf("AddAccount(%q, %q) unexpected error: %v", name, number, err)
	}
	return key
}

func assertMoney(t *testing.T, what string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}

// memStorage is an in-memory Storage.
type memStorage map[string][]byte

func (m memStorage) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, fs.ErrNotExist)
	}
	return v, nil
}

func (m memStorage) Put(_ context.Context, key string, value []byte) error {
	m[key] = value
	return nil
}

func (m memStorage) Delete(_ context.Context, key string) error {
	if _, ok := m[key]; !ok {
		return fmt.Errorf("key %q: %w", key, fs.ErrNotExist)
	}
	delete(m, key)
	return nil
}
