// Package directory indexes known users by case-folded username and email.
package directory

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/mmynk/basket/internal/models"
)

// Key normalizes a username or email for lookups.
// A cases.Caser is not safe for concurrent use, so one is built per call.
func Key(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Index is a concurrency-safe user directory with constant-time lookups.
// Entries are updated incrementally; keys are re-pointed when a user's
// username or email changes.
type Index struct {
	mu         sync.RWMutex
	byID       map[string]models.User
	byUsername map[string]string
	byEmail    map[string]string
}

// New creates an index holding the given users.
func New(users ...models.User) *Index {
	idx := &Index{}
	idx.Reset(users)
	return idx
}

// Reset replaces the whole directory.
func (x *Index) Reset(users []models.User) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.byID = make(map[string]models.User, len(users))
	x.byUsername = make(map[string]string, len(users))
	x.byEmail = make(map[string]string, len(users))
	for _, u := range users {
		x.putLocked(u)
	}
}

// Put inserts or updates a user.
func (x *Index) Put(u models.User) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.putLocked(u)
}

func (x *Index) putLocked(u models.User) {
	if old, ok := x.byID[u.ID]; ok {
		x.dropKeysLocked(old)
	}
	x.byID[u.ID] = u
	if u.Username != "" {
		x.byUsername[Key(u.Username)] = u.ID
	}
	if u.Email != "" {
		x.byEmail[Key(u.Email)] = u.ID
	}
}

func (x *Index) dropKeysLocked(u models.User) {
	if id, ok := x.byUsername[Key(u.Username)]; ok && id == u.ID {
		delete(x.byUsername, Key(u.Username))
	}
	if id, ok := x.byEmail[Key(u.Email)]; ok && id == u.ID {
		delete(x.byEmail, Key(u.Email))
	}
}

// Remove deletes a user by ID.
func (x *Index) Remove(id string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if u, ok := x.byID[id]; ok {
		x.dropKeysLocked(u)
		delete(x.byID, id)
	}
}

// ByID returns the user with the given ID.
func (x *Index) ByID(id string) (models.User, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	u, ok := x.byID[id]
	return u, ok
}

// ByUsername returns the user whose username matches case-insensitively.
func (x *Index) ByUsername(username string) (models.User, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.lookupLocked(x.byUsername, username)
}

// ByEmail returns the user whose email matches case-insensitively.
func (x *Index) ByEmail(email string) (models.User, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.lookupLocked(x.byEmail, email)
}

// Resolve matches a candidate against usernames first, then emails.
func (x *Index) Resolve(candidate string) (models.User, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if u, ok := x.lookupLocked(x.byUsername, candidate); ok {
		return u, true
	}
	return x.lookupLocked(x.byEmail, candidate)
}

func (x *Index) lookupLocked(keys map[string]string, s string) (models.User, bool) {
	id, ok := keys[Key(s)]
	if !ok {
		return models.User{}, false
	}
	u, ok := x.byID[id]
	return u, ok
}

// All returns every user sorted by username.
func (x *Index) All() []models.User {
	x.mu.RLock()
	users := make([]models.User, 0, len(x.byID))
	for _, u := range x.byID {
		users = append(users, u)
	}
	x.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		return Key(users[i].Username) < Key(users[j].Username)
	})
	return users
}

// Len returns the number of indexed users.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byID)
}
