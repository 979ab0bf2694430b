package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/basket/internal/models"
)

// CreateAPILog persists a record of an upstream call.
func (s *SQLiteStore) CreateAPILog(ctx context.Context, log *models.APILog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Timestamp == 0 {
		log.Timestamp = time.Now().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_logs (id, user_id, timestamp, endpoint, method, request, response, status, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.UserID, log.Timestamp, log.Endpoint, log.Method,
		log.Request, log.Response, log.Status, log.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert api log: %w", err)
	}

	return nil
}

// ListAPILogs returns the user's entries, most recent first.
func (s *SQLiteStore) ListAPILogs(ctx context.Context, userID string, limit int) ([]models.APILog, error) {
	query := `SELECT id, user_id, timestamp, endpoint, method, request, response, status, duration_ms
		 FROM api_logs WHERE user_id = ? ORDER BY timestamp DESC, rowid DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list api logs: %w", err)
	}
	defer rows.Close()

	logs := []models.APILog{}
	for rows.Next() {
		var l models.APILog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Timestamp, &l.Endpoint, &l.Method,
			&l.Request, &l.Response, &l.Status, &l.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan api log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate api logs: %w", err)
	}

	return logs, nil
}

// ClearAPILogs deletes all of the user's entries.
func (s *SQLiteStore) ClearAPILogs(ctx context.Context, userID string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM api_logs WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear api logs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared api logs: %w", err)
	}
	return int(n), nil
}
