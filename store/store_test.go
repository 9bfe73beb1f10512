package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
)

// backends returns a fresh instance of every backend.
func backends(t *testing.T) map[string]budget.Storage {
	t.Helper()
	dir := t.TempDir()
	db, err := OpenSQLite(filepath.Join(dir, "db", "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]budget.Storage{
		BackendFile:   NewFile(filepath.Join(dir, "files")),
		BackendSQLite: db,
	}
}

func TestStorage_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Get(missing) error = %v, want fs.ErrNotExist", err)
			}
			if err := s.Delete(ctx, "missing"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Delete(missing) error = %v, want fs.ErrNotExist", err)
			}

			if err := s.Put(ctx, "k", []byte("one")); err != nil {
				t.Fatalf("Put() unexpected error: %v", err)
			}
			if err := s.Put(ctx, "k", []byte("two")); err != nil {
				t.Fatalf("Put() over an existing key unexpected error: %v", err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			}
			if string(got) != "two" {
				t.Errorf("Get() = %q, want %q", got, "two")
			}

			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() unexpected error: %v", err)
			}
			if _, err := s.Get(ctx, "k"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Get() after Delete() error = %v, want fs.ErrNotExist", err)
			}
		})
	}
}

func TestStorage_Ledger(t *testing.T) {
	ctx := context.Background()
	on := date.MustParse("2025-06-01")
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			l := budget.NewLedger("INR")
			key, err := l.AddAccount("Main", "1234", budget.Salary, budget.M(100, "INR"), on)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := l.PostIncome(budget.M(900, "INR"), key, on); err != nil {
				t.Fatal(err)
			}
			if err := budget.Save(ctx, s, l, time.Now()); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}

			loaded, err := budget.Load(ctx, s, "INR")
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !loaded.TotalBalance().Equal(budget.M(1000, "INR")) {
				t.Errorf("TotalBalance() = %s, want 1000", loaded.TotalBalance())
			}
			if err := budget.Erase(ctx, s, loaded); err != nil {
				t.Fatalf("Erase() unexpected error: %v", err)
			}
			if _, err := s.Get(ctx, budget.StateKey); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("state still present after Erase(): %v", err)
			}
		})
	}
}

func TestFile_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir)
	for i := 0; i < 3; i++ {
		if err := f.Put(context.Background(), "state", []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory content = %v, want [state.json]", names)
	}
}

func TestFile_InvalidKey(t *testing.T) {
	f := NewFile(t.TempDir())
	for _, key := range []string{"", "../escape", `a\b`, ".."} {
		if err := f.Put(context.Background(), key, nil); err == nil {
			t.Errorf("Put(%q) expected an error", key)
		}
	}
}

func TestSQLite_UpdatedAt(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	db.now = func() time.Time { return fixed }

	ctx := context.Background()
	if err := db.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := db.UpdatedAt(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(fixed) {
		t.Errorf("UpdatedAt() = %v, want %v", got, fixed)
	}
}

func TestFile_UpdatedAt(t *testing.T) {
	f := NewFile(t.TempDir())
	ctx := context.Background()
	if _, err := f.UpdatedAt(ctx, "k"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("UpdatedAt() of a missing key = %v, want fs.ErrNotExist", err)
	}
	before := time.Now().Add(-time.Minute)
	if err := f.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := f.UpdatedAt(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if got.Before(before) {
		t.Errorf("UpdatedAt() = %v, want after %v", got, before)
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Put(ctx, "k", []byte("kept")); err != nil {
		t.Fatal(err)
	}
	db.Close()

	// migrations are not applied twice.
	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("second OpenSQLite() unexpected error: %v", err)
	}
	defer db.Close()
	got, err := db.Get(ctx, "k")
	if err != nil || string(got) != "kept" {
		t.Errorf("Get() = %q, %v, want %q", got, err, "kept")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{BackendFile, BackendSQLite} {
		s, closer, err := Open(backend, filepath.Join(dir, backend))
		if err != nil {
			t.Errorf("Open(%q) unexpected error: %v", backend, err)
			continue
		}
		if s == nil {
			t.Errorf("Open(%q) returned a nil storage", backend)
		}
		closer.Close()
	}
	if _, _, err := Open("s3", dir); err == nil {
		t.Errorf("Open(s3) expected an error")
	}
}
