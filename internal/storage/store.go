// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/basket/internal/models"
)

var (
	// ErrNotFound is returned when an owner-scoped row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// UserStore persists accounts. Lookups return (nil, nil) when no user matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// ListUsers returns the whole directory ordered by username.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// ItemStore persists grocery items. Every call is scoped by owner.
type ItemStore interface {
	// ListItems returns the owner's items, newest first.
	ListItems(ctx context.Context, ownerID string) ([]models.Item, error)

	// CreateItem inserts an item. ID and CreatedAt are generated when empty.
	CreateItem(ctx context.Context, item *models.Item) error

	// UpdateItem overwrites name, category, price and completed.
	UpdateItem(ctx context.Context, item *models.Item) error

	DeleteItem(ctx context.Context, ownerID, itemID string) error

	// DeleteItems removes the given items in one batch and returns how many existed.
	DeleteItems(ctx context.Context, ownerID string, itemIDs []string) (int, error)
}

// FriendStore persists directed owner -> friend relationships.
type FriendStore interface {
	// ListFriends returns the owner's friends in the order they were added.
	ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error)

	// AddFriend returns ErrAlreadyExists for a duplicate pair and ErrNotFound for
	// an unknown friend ID.
	AddFriend(ctx context.Context, ownerID, friendID string, createdAt int64) error

	RemoveFriend(ctx context.Context, ownerID, friendID string) error
}

// APILogStore persists upstream chat call records.
type APILogStore interface {
	CreateAPILog(ctx context.Context, log *models.APILog) error

	// ListAPILogs returns the user's most recent entries first, at most limit (0 = all).
	ListAPILogs(ctx context.Context, userID string, limit int) ([]models.APILog, error)

	// ClearAPILogs deletes the user's entries and returns how many were removed.
	ClearAPILogs(ctx context.Context, userID string) (int, error)
}

// Store defines the full persistence collaborator.
// This abstraction allows swapping storage backends (SQLite, local JSON files, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	ItemStore
	FriendStore
	APILogStore

	// Close releases any resources held by the store.
	Close() error
}
