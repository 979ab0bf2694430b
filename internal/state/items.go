package state

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/basket/internal/calculator"
	"github.com/mmynk/basket/internal/models"
)

// ItemStore holds the signed-in user's grocery list and keeps it in step
// with an ItemBackend. Mutations are applied locally first and rolled back
// when the backend rejects them.
type ItemStore struct {
	backend ItemBackend
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	loads singleflight.Group
	ops   fifo

	mu       sync.RWMutex
	owner    string
	gen      uint64
	items    []models.Item
	category models.Category

	onExpired func()
}

func NewItemStore(backend ItemBackend, opts ...Option) *ItemStore {
	c := newConfig(opts)
	return &ItemStore{
		backend:  backend,
		timeout:  c.timeout,
		logger:   c.logger,
		now:      c.now,
		newID:    c.newID,
		category: models.CategoryAll,
	}
}

// Load replaces the list with the owner's items. Concurrent loads for the
// same owner share one fetch. Loads queue behind earlier mutations, and a
// load overtaken by Reset is discarded.
func (s *ItemStore) Load(ctx context.Context, ownerID string) error {
	_, err, _ := s.loads.Do(ownerID, func() (any, error) {
		release := s.ops.enter()
		defer release()

		gen := s.generation()
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		items, err := s.backend.ListItems(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if !s.replace(gen, ownerID, items) {
			s.logger.Debug("Discarded stale item load", "owner_id", ownerID)
		}
		return nil, nil
	})
	if err != nil {
		s.logger.Warn("Failed to load items", "owner_id", ownerID, "error", err)
	}
	return err
}

func (s *ItemStore) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// replace installs items for ownerID unless the store changed generation
// since gen was read.
func (s *ItemStore) replace(gen uint64, ownerID string, items []models.Item) bool {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.Item) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.owner = ownerID
	s.items = sorted
	s.gen++
	return true
}

// Reset empties the list and scopes it to ownerID, which may be empty.
func (s *ItemStore) Reset(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = ownerID
	s.items = nil
	s.category = models.CategoryAll
	s.gen++
}

func (s *ItemStore) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// Items returns a copy of the current list, newest first.
func (s *ItemStore) Items() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Item returns the item with the given id.
func (s *ItemStore) Item(id string) (models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	return models.Item{}, false
}

// FilteredItems returns the items in category, or every item for CategoryAll.
func (s *ItemStore) FilteredItems(category models.Category) []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if category == models.CategoryAll {
		return slices.Clone(s.items)
	}
	var out []models.Item
	for _, item := range s.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// SetCategory selects the filter used by Visible.
func (s *ItemStore) SetCategory(category models.Category) error {
	if category != models.CategoryAll && !category.Valid() {
		return validation(models.ErrInvalidCategory)
	}
	s.mu.Lock()
	s.category = category
	s.mu.Unlock()
	return nil
}

func (s *ItemStore) Category() models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// Visible returns the items matching the selected category.
func (s *ItemStore) Visible() []models.Item {
	return s.FilteredItems(s.Category())
}

func (s *ItemStore) Summary() calculator.Summary {
	return calculator.Summarize(s.Items())
}

type itemUndo struct {
	gen   uint64
	index int
	item  models.Item
	items []models.Item
}

// AddItem prepends a new item and persists it.
func (s *ItemStore) AddItem(ctx context.Context, name string, category models.Category, price float64) (_ models.Item, err error) {
	item := models.Item{
		Name:     strings.TrimSpace(name),
		Category: category,
		Price:    price,
	}
	if err := item.Validate(); err != nil {
		return models.Item{}, validation(err)
	}

	defer s.expireOn(&err)
	release := s.ops.enter()
	defer release()

	err = commit(ctx, &s.mu, s.timeout, mutation[itemUndo]{
		op: "add item",
		apply: func() (itemUndo, error) {
			if s.owner == "" {
				return itemUndo{}, ErrNotAuthenticated
			}
			item.ID = s.newID()
			item.OwnerID = s.owner
			item.CreatedAt = s.now().UnixMilli()
			s.items = slices.Insert(s.items, 0, item)
			return itemUndo{gen: s.gen, item: item}, nil
		},
		persist: func(ctx context.Context) error {
			return s.backend.CreateItem(ctx, item)
		},
		revert: func(u itemUndo) {
			if s.gen != u.gen {
				return
			}
			if i := s.indexLocked(u.item.ID); i >= 0 {
				s.items = slices.Delete(s.items, i, i+1)
			}
		},
	})
	if err != nil {
		return models.Item{}, s.failed(err)
	}
	return item, nil
}

// ToggleItem flips the completed flag of an item.
func (s *ItemStore) ToggleItem(ctx context.Context, id string) (models.Item, error) {
	return s.update(ctx, "toggle item", id, func(item *models.Item) {
		item.Completed = !item.Completed
	})
}

// EditItem replaces the editable fields of an item.
func (s *ItemStore) EditItem(ctx context.Context, id, name string, category models.Category, price float64) (models.Item, error) {
	name = strings.TrimSpace(name)
	candidate := models.Item{Name: name, Category: category, Price: price}
	if err := candidate.Validate(); err != nil {
		return models.Item{}, validation(err)
	}
	return s.update(ctx, "edit item", id, func(item *models.Item) {
		item.Name = name
		item.Category = category
		item.Price = price
	})
}

func (s *ItemStore) update(ctx context.Context, op, id string, change func(*models.Item)) (_ models.Item, err error) {
	defer s.expireOn(&err)
	release := s.ops.enter()
	defer release()

	var updated models.Item
	err = commit(ctx, &s.mu, s.timeout, mutation[itemUndo]{
		op: op,
		apply: func() (itemUndo, error) {
			i := s.indexLocked(id)
			if i < 0 {
				return itemUndo{}, ErrNotFound
			}
			previous := s.items[i]
			updated = previous
			change(&updated)
			s.items[i] = updated
			return itemUndo{gen: s.gen, item: previous}, nil
		},
		persist: func(ctx context.Context) error {
			return s.backend.UpdateItem(ctx, updated)
		},
		revert: func(u itemUndo) {
			if s.gen != u.gen {
				return
			}
			if i := s.indexLocked(u.item.ID); i >= 0 {
				s.items[i] = u.item
			}
		},
	})
	if err != nil {
		return models.Item{}, s.failed(err)
	}
	return updated, nil
}

// DeleteItem removes an item. A failed delete reloads the list from the backend.
func (s *ItemStore) DeleteItem(ctx context.Context, id string) (err error) {
	defer s.expireOn(&err)
	release := s.ops.enter()
	defer release()

	var owner string
	err = commit(ctx, &s.mu, s.timeout, mutation[itemUndo]{
		op: "delete item",
		apply: func() (itemUndo, error) {
			i := s.indexLocked(id)
			if i < 0 {
				return itemUndo{}, ErrNotFound
			}
			owner = s.owner
			removed := s.items[i]
			s.items = slices.Delete(s.items, i, i+1)
			return itemUndo{gen: s.gen, index: i, item: removed}, nil
		},
		persist: func(ctx context.Context) error {
			return s.backend.DeleteItem(ctx, owner, id)
		},
		reload: func(ctx context.Context) error {
			return s.resync(ctx, owner)
		},
		revert: func(u itemUndo) {
			if s.gen != u.gen {
				return
			}
			s.items = slices.Insert(s.items, min(u.index, len(s.items)), u.item)
		},
	})
	return s.failed(err)
}

// ClearCompletedItems removes every completed item and returns how many were
// removed. It reports ErrNothingToClear when none are completed.
func (s *ItemStore) ClearCompletedItems(ctx context.Context) (_ int, err error) {
	defer s.expireOn(&err)
	release := s.ops.enter()
	defer release()

	var owner string
	var ids []string
	err = commit(ctx, &s.mu, s.timeout, mutation[itemUndo]{
		op: "clear completed items",
		apply: func() (itemUndo, error) {
			previous := slices.Clone(s.items)
			kept := make([]models.Item, 0, len(s.items))
			for _, item := range s.items {
				if item.Completed {
					ids = append(ids, item.ID)
				} else {
					kept = append(kept, item)
				}
			}
			if len(ids) == 0 {
				return itemUndo{}, ErrNothingToClear
			}
			owner = s.owner
			s.items = kept
			return itemUndo{gen: s.gen, items: previous}, nil
		},
		persist: func(ctx context.Context) error {
			return s.backend.DeleteItems(ctx, owner, ids)
		},
		reload: func(ctx context.Context) error {
			return s.resync(ctx, owner)
		},
		revert: func(u itemUndo) {
			if s.gen == u.gen {
				s.items = u.items
			}
		},
	})
	if err != nil {
		return 0, s.failed(err)
	}
	return len(ids), nil
}

// resync reloads the owner's items unless the store has moved on to another owner.
func (s *ItemStore) resync(ctx context.Context, owner string) error {
	s.mu.RLock()
	gen, current := s.gen, s.owner
	s.mu.RUnlock()
	if current != owner {
		return nil
	}
	items, err := s.backend.ListItems(ctx, owner)
	if err != nil {
		return err
	}
	s.replace(gen, owner, items)
	return nil
}

func (s *ItemStore) failed(err error) error {
	var perr *PersistenceError
	if errors.As(err, &perr) {
		s.logger.Warn("Item change rolled back", "op", perr.Op, "error", perr.Err)
	}
	return err
}

// expireOn runs the expiry hook for *err. It is deferred ahead of the ops
// release so the hook never runs while the queue is held.
func (s *ItemStore) expireOn(err *error) {
	expiredHook(*err, s.onExpired)
}

func (s *ItemStore) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(item models.Item) bool { return item.ID == id })
}
