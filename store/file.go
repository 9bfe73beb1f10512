// Package store provides durable key-value backends for the ledger
// snapshot: a directory of JSON files and a SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File stores each key as a file in a directory.
//
// Writes go to a temporary file in the same directory that is renamed over
// the previous value, so a value is either fully replaced or untouched.
type File struct {
	dir string
}

// NewFile returns a File storage rooted at dir. The directory is created on
// the first write.
func NewFile(dir string) *File { return &File{dir: dir} }

// path returns the file holding key.
func (f *File) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get returns the value of key, or an error wrapping fs.ErrNotExist.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", key, err)
	}
	return data, nil
}

// Put replaces the value of key.
func (f *File) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create storage directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key reports fs.ErrNotExist.
func (f *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot delete %q: %w", key, fs.ErrNotExist)
		}
		return fmt.Errorf("cannot delete %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (f *File) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	name, err := f.path(key)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(name)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot stat %q: %w", key, err)
	}
	return info.ModTime(), nil
}
