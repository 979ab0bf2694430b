package filestore

import (
	"context"
	"fmt"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
)

// CreateUser appends a user. Email and username are unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index.ByEmail(user.Email); ok {
		return fmt.Errorf("email %s: %w", user.Email, storage.ErrAlreadyExists)
	}
	if _, ok := s.index.ByUsername(user.Username); ok {
		return fmt.Errorf("username %s: %w", user.Username, storage.ErrAlreadyExists)
	}
	if _, ok := s.index.ByID(user.ID); ok {
		return fmt.Errorf("user %s: %w", user.ID, storage.ErrAlreadyExists)
	}

	next := append(cloneSlice(s.users), *user)
	if err := s.usersBlob.Save(next); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.users = next
	s.index.Put(*user)
	return nil
}

func (s *Store) lookupUser(u models.User, ok bool) (*models.User, error) {
	if !ok {
		return nil, nil // User not found
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return s.lookupUser(s.index.ByEmail(email))
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return s.lookupUser(s.index.ByID(id))
}

// GetUserByUsername retrieves a user by username (case-insensitive).
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return s.lookupUser(s.index.ByUsername(username))
}

// UsernameExists reports whether a username is taken.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}
	_, ok := s.index.ByUsername(username)
	return ok, nil
}

// ListUsers returns the directory ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	all := s.index.All()
	users := make([]*models.User, len(all))
	for i := range all {
		users[i] = &all[i]
	}
	return users, nil
}
