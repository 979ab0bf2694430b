package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
)

// ListItems returns the owner's items, newest first.
// rowid breaks ties between items created in the same millisecond.
func (s *SQLiteStore) ListItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, category, completed, price, created_at
		 FROM items WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		var category string
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name, &category,
			&item.Completed, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Category = models.Category(category)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// CreateItem persists a new item to the database.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	// Generate ID if not set
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, owner_id, name, category, completed, price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.OwnerID, item.Name, string(item.Category), item.Completed, item.Price, item.CreatedAt,
	)
	if isConstraintError(err) {
		return fmt.Errorf("failed to insert item %s: %w", item.ID, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// UpdateItem overwrites the editable fields of an owned item.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.Item) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, completed = ?, price = ?
		 WHERE id = ? AND owner_id = ?`,
		item.Name, string(item.Category), item.Completed, item.Price, item.ID, item.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	return requireAffected(result, "item", item.ID)
}

// DeleteItem removes an owned item by ID.
func (s *SQLiteStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ? AND owner_id = ?", itemID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return requireAffected(result, "item", itemID)
}

// DeleteItems removes owned items in a single statement.
func (s *SQLiteStore) DeleteItems(ctx context.Context, ownerID string, itemIDs []string) (int, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(itemIDs)+1)
	args = append(args, ownerID)
	for _, id := range itemIDs {
		args = append(args, id)
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE owner_id = ? AND id IN (`+placeholders(len(itemIDs))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted items: %w", err)
	}
	return int(n), nil
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireAffected(result rowsAffecter, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s rows: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
