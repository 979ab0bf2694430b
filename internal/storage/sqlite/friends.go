package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
)

// ListFriends returns the owner's friends joined with their profiles.
func (s *SQLiteStore) ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.username, u.avatar_url, u.email, f.created_at
		 FROM friends f JOIN users u ON u.id = f.friend_id
		 WHERE f.owner_id = ?
		 ORDER BY f.created_at, f.rowid`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.Username, &f.AvatarURL, &f.Email, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}

// AddFriend records a directed relationship.
func (s *SQLiteStore) AddFriend(ctx context.Context, ownerID, friendID string, createdAt int64) error {
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Check target exists so the caller gets NotFound rather than a constraint error
	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", friendID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("user %s: %w", friendID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check friend existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO friends (owner_id, friend_id, created_at) VALUES (?, ?, ?)",
		ownerID, friendID, createdAt,
	)
	if isConstraintError(err) {
		return fmt.Errorf("friend %s: %w", friendID, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveFriend deletes a directed relationship.
func (s *SQLiteStore) RemoveFriend(ctx context.Context, ownerID, friendID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM friends WHERE owner_id = ? AND friend_id = ?",
		ownerID, friendID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}

	return requireAffected(result, "friend", friendID)
}
