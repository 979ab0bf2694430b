package state

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmynk/basket/internal/directory"
	"github.com/mmynk/basket/internal/models"
)

// FriendStore holds the signed-in user's friends together with the directory
// of every known user.
type FriendStore struct {
	backend FriendBackend
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	directory *directory.Index
	ops       fifo

	mu      sync.RWMutex
	owner   string
	gen     uint64
	friends []models.Friend

	onExpired func()
}

func NewFriendStore(backend FriendBackend, opts ...Option) *FriendStore {
	c := newConfig(opts)
	return &FriendStore{
		backend:   backend,
		timeout:   c.timeout,
		logger:    c.logger,
		now:       c.now,
		directory: directory.New(),
	}
}

// Load replaces the friend set for ownerID and refreshes the directory. It
// queues behind earlier mutations, and a load overtaken by Reset is discarded.
func (s *FriendStore) Load(ctx context.Context, ownerID string) error {
	release := s.ops.enter()
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	gen := s.generation()
	friends, err := s.backend.ListFriends(ctx, ownerID)
	if err != nil {
		s.logger.Warn("Failed to load friends", "owner_id", ownerID, "error", err)
		return err
	}

	s.mu.Lock()
	stale := s.gen != gen
	if !stale {
		s.owner = ownerID
		s.friends = slices.Clone(friends)
		s.gen++
		gen = s.gen
	}
	s.mu.Unlock()
	if stale {
		s.logger.Debug("Discarded stale friend load", "owner_id", ownerID)
		return nil
	}

	return s.refreshDirectory(ctx, gen)
}

func (s *FriendStore) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// refreshDirectory reloads the known users unless the store changed
// generation since gen was read.
func (s *FriendStore) refreshDirectory(ctx context.Context, gen uint64) error {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		s.logger.Warn("Failed to refresh user directory", "error", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.directory.Reset(users)
	}
	return nil
}

// Reset forgets every friend and scopes the store to ownerID, which may be empty.
func (s *FriendStore) Reset(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = ownerID
	s.friends = nil
	s.gen++
	if ownerID == "" {
		s.directory.Reset(nil)
	}
}

// Friends returns a copy of the friend list in insertion order.
func (s *FriendStore) Friends() []models.Friend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.friends)
}

func (s *FriendStore) FindByUsername(username string) (models.User, bool) {
	return s.directory.ByUsername(username)
}

func (s *FriendStore) FindByEmail(email string) (models.User, bool) {
	return s.directory.ByEmail(email)
}

// ListAllKnownUsers returns the directory, including users who are not friends.
func (s *FriendStore) ListAllKnownUsers() []models.User {
	return s.directory.All()
}

// resolve matches candidate against the directory, refreshing it once on a miss.
func (s *FriendStore) resolve(ctx context.Context, candidate string) (models.User, error) {
	if u, ok := s.directory.Resolve(candidate); ok {
		return u, nil
	}
	gen := s.generation()
	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.refreshDirectory(rctx, gen); err != nil {
		return models.User{}, err
	}
	if u, ok := s.directory.Resolve(candidate); ok {
		return u, nil
	}
	return models.User{}, ErrNotFound
}

type friendUndo struct {
	gen    uint64
	index  int
	friend models.Friend
}

// AddFriend adds the user whose username or email matches candidate.
func (s *FriendStore) AddFriend(ctx context.Context, candidate string) (_ models.Friend, err error) {
	defer s.expireOn(&err)
	release := s.ops.enter()
	defer release()

	owner := s.currentOwner()
	if owner == "" {
		return models.Friend{}, ErrNotAuthenticated
	}
	target, err := s.resolve(ctx, candidate)
	if err != nil {
		return models.Friend{}, s.failed(err)
	}
	if target.ID == owner {
		return models.Friend{}, ErrSelfReference
	}

	friend := models.FriendFromUser(&target)
	friend.CreatedAt = s.now().Unix()

	err = commit(ctx, &s.mu, s.timeout, mutation[friendUndo]{
		op: "add friend",
		apply: func() (friendUndo, error) {
			if s.owner != owner {
				return friendUndo{}, ErrNotAuthenticated
			}
			if s.indexLocked(friend.ID) >= 0 {
				return friendUndo{}, ErrAlreadyFriends
			}
			s.friends = append(s.friends, friend)
			return friendUndo{gen: s.gen, friend: friend}, nil
		},
		persist: func(ctx context.Context) error {
			return s.backend.AddFriend(ctx, owner, friend)
		},
		revert: func(u friendUndo) {
			if s.gen != u.gen {
				return
			}
			if i := s.indexLocked(u.friend.ID); i >= 0 {
				s.friends = slices.Delete(s.friends, i, i+1)
			}
		},
	})
	if err != nil {
		return models.Friend{}, s.failed(err)
	}
	return friend, nil
}

// RemoveFriend drops friendID. On a durable failure the entry returns to its
// former position.
func (s *FriendStore) RemoveFriend(ctx context.Context, friendID string) (err error) {
	defer s.expireOn(&err)
	release := s.ops.enter()
	defer release()

	var owner string
	err = commit(ctx, &s.mu, s.timeout, mutation[friendUndo]{
		op: "remove friend",
		apply: func() (friendUndo, error) {
			i := s.indexLocked(friendID)
			if i < 0 {
				return friendUndo{}, ErrNotFound
			}
			owner = s.owner
			removed := s.friends[i]
			s.friends = slices.Delete(s.friends, i, i+1)
			return friendUndo{gen: s.gen, index: i, friend: removed}, nil
		},
		persist: func(ctx context.Context) error {
			return s.backend.RemoveFriend(ctx, owner, friendID)
		},
		revert: func(u friendUndo) {
			if s.gen != u.gen {
				return
			}
			s.friends = slices.Insert(s.friends, min(u.index, len(s.friends)), u.friend)
		},
	})
	return s.failed(err)
}

func (s *FriendStore) currentOwner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

func (s *FriendStore) failed(err error) error {
	var perr *PersistenceError
	if errors.As(err, &perr) {
		s.logger.Warn("Friend change rolled back", "op", perr.Op, "error", perr.Err)
	}
	return err
}

func (s *FriendStore) expireOn(err *error) {
	expiredHook(*err, s.onExpired)
}

func (s *FriendStore) indexLocked(id string) int {
	return slices.IndexFunc(s.friends, func(f models.Friend) bool { return f.ID == id })
}
