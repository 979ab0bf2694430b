package state

import (
	"context"

	"github.com/mmynk/basket/internal/models"
)

// IdentityProvider authenticates users and reports the persisted session.
// Implementations translate their failures into this package's errors:
// ErrDuplicate for a taken email, ErrNotFound and ErrInvalidCredential on sign-in,
// ErrSessionExpired when the backend no longer accepts the session.
type IdentityProvider interface {
	// CurrentSession returns the persisted identity, or nil when there is none.
	CurrentSession(ctx context.Context) (*models.Identity, error)
	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	SignOut(ctx context.Context) error
}

// ItemBackend is the durable home of grocery items, scoped by owner.
type ItemBackend interface {
	// ListItems returns the owner's items ordered newest first.
	ListItems(ctx context.Context, ownerID string) ([]models.Item, error)
	CreateItem(ctx context.Context, item models.Item) error
	UpdateItem(ctx context.Context, item models.Item) error
	DeleteItem(ctx context.Context, ownerID, id string) error
	DeleteItems(ctx context.Context, ownerID string, ids []string) error
}

// FriendBackend is the durable home of friend relationships and the user directory.
type FriendBackend interface {
	ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error)
	AddFriend(ctx context.Context, ownerID string, friend models.Friend) error
	RemoveFriend(ctx context.Context, ownerID, friendID string) error
	// ListUsers returns the public directory of every known user.
	ListUsers(ctx context.Context) ([]models.User, error)
}
