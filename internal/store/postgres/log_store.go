package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arbisport/arbisport/internal/domain"
)

// LogStore persists the scan log: the durable trail of passes, fetch
// failures, and detections that the API exposes for tailing.
type LogStore struct {
	pool *pgxpool.Pool
}

// NewLogStore creates a new LogStore backed by the given connection pool.
func NewLogStore(pool *pgxpool.Pool) *LogStore {
	return &LogStore{pool: pool}
}

// Append adds one entry to the scan log.
func (s *LogStore) Append(ctx context.Context, level, message string, fields map[string]any) error {
	var raw []byte
	if len(fields) > 0 {
		var err error
		raw, err = json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("postgres: encode log fields: %w", err)
		}
	}

	const query = `INSERT INTO scan_logs (level, message, fields) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, level, message, raw); err != nil {
		return fmt.Errorf("postgres: append scan log: %w", err)
	}
	return nil
}

// List returns entries with ID greater than sinceID, oldest first, so
// clients can tail the log by passing their last-seen ID.
func (s *LogStore) List(ctx context.Context, sinceID int64, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	const query = `
		SELECT id, created_at, level, message, fields
		FROM scan_logs
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list scan logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var entry domain.LogEntry
		var raw []byte
		if err := rows.Scan(&entry.ID, &entry.CreatedAt, &entry.Level, &entry.Message, &raw); err != nil {
			return nil, fmt.Errorf("postgres: scan log row: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &entry.Fields); err != nil {
				return nil, fmt.Errorf("postgres: decode log fields %d: %w", entry.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate scan log rows: %w", err)
	}
	return entries, nil
}
