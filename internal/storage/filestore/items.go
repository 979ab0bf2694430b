package filestore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
)

// ListItems returns a copy of the owner's items, newest first.
func (s *Store) ListItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := cloneSlice(s.items[ownerID])
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// CreateItem inserts an item keeping newest-first order.
func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.items[item.OwnerID]
	pos := len(current)
	for i, existing := range current {
		if existing.ID == item.ID {
			return fmt.Errorf("item %s: %w", item.ID, storage.ErrAlreadyExists)
		}
		if pos == len(current) && existing.CreatedAt <= item.CreatedAt {
			pos = i
		}
	}

	next := make([]models.Item, 0, len(current)+1)
	next = append(next, current[:pos]...)
	next = append(next, *item)
	next = append(next, current[pos:]...)

	if err := s.saveItems(item.OwnerID, next); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// UpdateItem overwrites the editable fields of an owned item.
func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneSlice(s.items[item.OwnerID])
	for i := range next {
		if next[i].ID != item.ID {
			continue
		}
		next[i].Name = item.Name
		next[i].Category = item.Category
		next[i].Completed = item.Completed
		next[i].Price = item.Price
		if err := s.saveItems(item.OwnerID, next); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		return nil
	}
	return fmt.Errorf("item %s: %w", item.ID, storage.ErrNotFound)
}

// DeleteItem removes an owned item.
func (s *Store) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	n, err := s.DeleteItems(ctx, ownerID, []string{itemID})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	}
	return nil
}

// DeleteItems removes owned items with one write.
func (s *Store) DeleteItems(ctx context.Context, ownerID string, itemIDs []string) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	if len(itemIDs) == 0 {
		return 0, nil
	}

	remove := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		remove[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.items[ownerID]
	next := make([]models.Item, 0, len(current))
	for _, item := range current {
		if !remove[item.ID] {
			next = append(next, item)
		}
	}

	removed := len(current) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.saveItems(ownerID, next); err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}
	return removed, nil
}
