// Package filestore is the local durable fallback: each collection is a flat
// JSON blob loaded at startup and rewritten on every mutation.
package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/gofrs/flock"

	"github.com/mmynk/basket/internal/directory"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// friendEdge is the persisted form of a relationship; profiles are joined on read.
type friendEdge struct {
	FriendID  string `json:"friend_id"`
	CreatedAt int64  `json:"created_at"`
}

// Store implements storage.Store over JSON files in one directory.
// A directory lock held for the store's lifetime keeps a second process out.
type Store struct {
	mu  sync.RWMutex
	dir *flock.Flock

	usersBlob   *Blob[[]models.User]
	itemsBlob   *Blob[map[string][]models.Item]
	friendsBlob *Blob[map[string][]friendEdge]
	logsBlob    *Blob[[]models.APILog]

	users   []models.User
	index   *directory.Index
	items   map[string][]models.Item // owner -> newest first
	friends map[string][]friendEdge  // owner -> insertion order
	logs    []models.APILog          // oldest first
}

// Open loads every collection under dir.
func Open(dir string) (*Store, error) {
	s := &Store{
		dir:         flock.New(filepath.Join(dir, ".basket.lock")),
		usersBlob:   NewBlob[[]models.User](filepath.Join(dir, "users.json")),
		itemsBlob:   NewBlob[map[string][]models.Item](filepath.Join(dir, "items.json")),
		friendsBlob: NewBlob[map[string][]friendEdge](filepath.Join(dir, "friends.json")),
		logsBlob:    NewBlob[[]models.APILog](filepath.Join(dir, "api_logs.json")),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	locked, err := s.dir.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("data directory %s is in use by another process", dir)
	}

	return s, nil
}

func (s *Store) load() error {
	var err error
	if s.users, err = s.usersBlob.Load(); err != nil {
		return err
	}
	if s.items, err = s.itemsBlob.Load(); err != nil {
		return err
	}
	if s.friends, err = s.friendsBlob.Load(); err != nil {
		return err
	}
	if s.logs, err = s.logsBlob.Load(); err != nil {
		return err
	}

	if s.items == nil {
		s.items = make(map[string][]models.Item)
	}
	if s.friends == nil {
		s.friends = make(map[string][]friendEdge)
	}
	s.index = directory.New(s.users...)
	return nil
}

// Close releases the directory lock.
func (s *Store) Close() error {
	return s.dir.Unlock()
}

// saveItems copies the items map with owner's slice replaced, saves it and
// only then swaps it in, so a failed write leaves memory untouched.
func (s *Store) saveItems(ownerID string, next []models.Item) error {
	all := make(map[string][]models.Item, len(s.items)+1)
	for k, v := range s.items {
		all[k] = v
	}
	all[ownerID] = next
	if err := s.itemsBlob.Save(all); err != nil {
		return err
	}
	s.items = all
	return nil
}

func (s *Store) saveFriends(ownerID string, next []friendEdge) error {
	all := make(map[string][]friendEdge, len(s.friends)+1)
	for k, v := range s.friends {
		all[k] = v
	}
	all[ownerID] = next
	if err := s.friendsBlob.Save(all); err != nil {
		return err
	}
	s.friends = all
	return nil
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

func cloneSlice[T any](in []T) []T {
	return slices.Clone(in)
}
