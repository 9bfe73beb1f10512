package store

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/etnz/budget"
)

var (
	_ budget.Storage = (*File)(nil)
	_ budget.Storage = (*SQLite)(nil)
)

// Timestamped is implemented by backends that know when a key was last
// written.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

var (
	_ Timestamped = (*File)(nil)
	_ Timestamped = (*SQLite)(nil)
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the storage backend named backend at path.
//
// For the file backend, path is the directory holding the values. For
// sqlite it is the database file.
func Open(backend, path string) (budget.Storage, io.Closer, error) {
	switch backend {
	case BackendFile:
		log.Printf("using file storage in %s", path)
		return NewFile(path), nopCloser{}, nil
	case BackendSQLite:
		log.Printf("using sqlite storage %s", path)
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q, want %q or %q", backend, BackendFile, BackendSQLite)
	}
}
