package filestore

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
)

// ListFriends joins the owner's edges with the user directory.
func (s *Store) ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	friends := []models.Friend{}
	for _, edge := range s.friends[ownerID] {
		u, ok := s.index.ByID(edge.FriendID)
		if !ok {
			continue
		}
		f := models.FriendFromUser(&u)
		f.CreatedAt = edge.CreatedAt
		friends = append(friends, f)
	}
	return friends, nil
}

// AddFriend appends a relationship edge.
func (s *Store) AddFriend(ctx context.Context, ownerID, friendID string, createdAt int64) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index.ByID(friendID); !ok {
		return fmt.Errorf("user %s: %w", friendID, storage.ErrNotFound)
	}

	current := s.friends[ownerID]
	for _, edge := range current {
		if edge.FriendID == friendID {
			return fmt.Errorf("friend %s: %w", friendID, storage.ErrAlreadyExists)
		}
	}

	next := append(cloneSlice(current), friendEdge{FriendID: friendID, CreatedAt: createdAt})
	if err := s.saveFriends(ownerID, next); err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}
	return nil
}

// RemoveFriend deletes a relationship edge.
func (s *Store) RemoveFriend(ctx context.Context, ownerID, friendID string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.friends[ownerID]
	for i, edge := range current {
		if edge.FriendID != friendID {
			continue
		}
		next := make([]friendEdge, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		if err := s.saveFriends(ownerID, next); err != nil {
			return fmt.Errorf("failed to delete friend: %w", err)
		}
		return nil
	}
	return fmt.Errorf("friend %s: %w", friendID, storage.ErrNotFound)
}
