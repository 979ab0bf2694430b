package filestore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/basket/internal/models"
)

// CreateAPILog appends a log entry.
func (s *Store) CreateAPILog(ctx context.Context, log *models.APILog) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Timestamp == 0 {
		log.Timestamp = time.Now().UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(cloneSlice(s.logs), *log)
	if err := s.logsBlob.Save(next); err != nil {
		return fmt.Errorf("failed to insert api log: %w", err)
	}
	s.logs = next
	return nil
}

// ListAPILogs returns the user's entries, most recent first.
func (s *Store) ListAPILogs(ctx context.Context, userID string, limit int) ([]models.APILog, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := []models.APILog{}
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].UserID != userID {
			continue
		}
		logs = append(logs, s.logs[i])
		if limit > 0 && len(logs) == limit {
			break
		}
	}
	return logs, nil
}

// ClearAPILogs deletes the user's entries.
func (s *Store) ClearAPILogs(ctx context.Context, userID string) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.APILog, 0, len(s.logs))
	for _, l := range s.logs {
		if l.UserID != userID {
			next = append(next, l)
		}
	}
	removed := len(s.logs) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.logsBlob.Save(next); err != nil {
		return 0, fmt.Errorf("failed to clear api logs: %w", err)
	}
	s.logs = next
	return removed, nil
}
