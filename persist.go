package budget

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"
)

// StateKey is the storage key holding the ledger snapshot.
const StateKey = "budgetAppState"

// Storage is a durable key-value store.
//
// Get reports a missing key with an error wrapping fs.ErrNotExist. Put
// replaces the whole value at once.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Load reads the ledger from s. A missing snapshot yields an empty ledger in
// currency, which is also the currency of legacy snapshots that have none.
func Load(ctx context.Context, s Storage, currency string) (*Ledger, error) {
	data, err := s.Get(ctx, StateKey)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("no saved state found, starting with an empty ledger in %s", currency)
		return NewLedger(currency), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read state: %w", err)
	}
	l, err := DecodeSnapshot(data, currency)
	if err != nil {
		return nil, fmt.Errorf("cannot load state: %w", err)
	}
	return l, nil
}

// Save stamps the ledger with now and writes a full snapshot to s.
func Save(ctx context.Context, s Storage, l *Ledger, now time.Time) error {
	previous := l.lastUpdated
	l.lastUpdated = now
	data, err := l.MarshalJSON()
	if err != nil {
		l.lastUpdated = previous
		return fmt.Errorf("cannot encode state: %w", err)
	}
	if err := s.Put(ctx, StateKey, data); err != nil {
		l.lastUpdated = previous
		return fmt.Errorf("cannot write state: %w", err)
	}
	return nil
}

// Erase resets the ledger and removes its snapshot from s. Erasing an
// already empty storage succeeds.
func Erase(ctx context.Context, s Storage, l *Ledger) error {
	l.Reset()
	if err := s.Delete(ctx, StateKey); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot erase state: %w", err)
	}
	return nil
}
