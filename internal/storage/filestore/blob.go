package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Blob is one JSON document on disk guarded by an advisory file lock,
// so a CLI and a server sharing a directory never interleave writes.
type Blob[T any] struct {
	path string
	lock *flock.Flock
}

// NewBlob returns a blob stored at path. Nothing is read until Load.
func NewBlob[T any](path string) *Blob[T] {
	return &Blob[T]{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the blob's file path.
func (b *Blob[T]) Path() string {
	return b.path
}

// Load reads the blob. A missing file yields the zero value.
func (b *Blob[T]) Load() (T, error) {
	var v T

	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return v, fmt.Errorf("creating directory: %w", err)
	}
	if err := b.lock.RLock(); err != nil {
		return v, fmt.Errorf("locking %s: %w", b.path, err)
	}
	defer b.lock.Unlock()

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("reading %s: %w", b.path, err)
	}
	if len(data) == 0 {
		return v, nil
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("parsing %s: %w", b.path, err)
	}
	return v, nil
}

// Save replaces the blob atomically (write temp file, then rename).
func (b *Blob[T]) Save(v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", b.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := b.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", b.path, err)
	}
	defer b.lock.Unlock()

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", b.path, err)
	}
	return nil
}

// Remove deletes the blob file. A missing file is not an error.
func (b *Blob[T]) Remove() error {
	if err := b.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", b.path, err)
	}
	defer b.lock.Unlock()

	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", b.path, err)
	}
	return nil
}
