// Package local backs the state stores with a storage.Store opened in-process,
// for running the client without a server.
package local

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mmynk/basket/internal/auth"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/storage"
	"github.com/mmynk/basket/internal/storage/filestore"
)

var (
	_ state.IdentityProvider = (*Backend)(nil)
	_ state.ItemBackend      = (*Backend)(nil)
	_ state.FriendBackend    = (*Backend)(nil)
)

// sessionFile remembers who is signed in between runs.
type sessionFile struct {
	UserID string `json:"user_id"`
}

// Backend implements every state collaborator over one storage.Store.
type Backend struct {
	store   storage.Store
	authn   auth.Authenticator
	session *filestore.Blob[sessionFile]

	mu      sync.Mutex
	current string
}

// New returns a backend over store. When sessionPath is empty the session
// lives only as long as the Backend.
func New(store storage.Store, authn auth.Authenticator, sessionPath string) *Backend {
	b := &Backend{store: store, authn: authn}
	if sessionPath != "" {
		b.session = filestore.NewBlob[sessionFile](sessionPath)
	}
	return b
}

func (b *Backend) CurrentSession(ctx context.Context) (*models.Identity, error) {
	userID, err := b.sessionUser()
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	user, err := b.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = b.remember("")
		return nil, state.ErrSessionExpired
	}
	b.mu.Lock()
	b.current = user.ID
	b.mu.Unlock()
	return user.Identity(), nil
}

func (b *Backend) sessionUser() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return b.current, nil
	}
	sf, err := b.session.Load()
	if err != nil {
		return "", fmt.Errorf("reading session: %w", err)
	}
	return sf.UserID, nil
}

func (b *Backend) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	user, err := b.authn.Register(ctx, email, password)
	if err != nil {
		return nil, authError(err)
	}
	if err := b.remember(user.ID); err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	user, err := b.authn.Authenticate(ctx, email, password)
	if err != nil {
		return nil, authError(err)
	}
	if err := b.remember(user.ID); err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

func (b *Backend) SignOut(ctx context.Context) error {
	return b.remember("")
}

func (b *Backend) remember(userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = userID
	if b.session == nil {
		return nil
	}
	if userID == "" {
		return b.session.Remove()
	}
	if err := b.session.Save(sessionFile{UserID: userID}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (b *Backend) ListItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	items, err := b.store.ListItems(ctx, ownerID)
	return items, storageError(err)
}

func (b *Backend) CreateItem(ctx context.Context, item models.Item) error {
	return storageError(b.store.CreateItem(ctx, &item))
}

func (b *Backend) UpdateItem(ctx context.Context, item models.Item) error {
	return storageError(b.store.UpdateItem(ctx, &item))
}

func (b *Backend) DeleteItem(ctx context.Context, ownerID, id string) error {
	return storageError(b.store.DeleteItem(ctx, ownerID, id))
}

func (b *Backend) DeleteItems(ctx context.Context, ownerID string, ids []string) error {
	_, err := b.store.DeleteItems(ctx, ownerID, ids)
	return storageError(err)
}

func (b *Backend) ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error) {
	friends, err := b.store.ListFriends(ctx, ownerID)
	return friends, storageError(err)
}

func (b *Backend) AddFriend(ctx context.Context, ownerID string, friend models.Friend) error {
	return storageError(b.store.AddFriend(ctx, ownerID, friend.ID, friend.CreatedAt))
}

func (b *Backend) RemoveFriend(ctx context.Context, ownerID, friendID string) error {
	return storageError(b.store.RemoveFriend(ctx, ownerID, friendID))
}

func (b *Backend) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := b.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		public := *u
		public.PasswordHash = ""
		out = append(out, public)
	}
	return out, nil
}

func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return fmt.Errorf("%w: %w", state.ErrDuplicate, err)
	case errors.Is(err, auth.ErrUserNotFound):
		return fmt.Errorf("%w: %w", state.ErrNotFound, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fmt.Errorf("%w: %w", state.ErrInvalidCredential, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return fmt.Errorf("%w: %w", state.ErrValidation, err)
	}
	return err
}

func storageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", state.ErrNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", state.ErrDuplicate, err)
	}
	return err
}
