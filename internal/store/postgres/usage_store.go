package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arbisport/arbisport/internal/domain"
)

// UsageStore persists the odds provider's request-quota samples.
type UsageStore struct {
	pool *pgxpool.Pool
}

// NewUsageStore creates a new UsageStore backed by the given connection pool.
func NewUsageStore(pool *pgxpool.Pool) *UsageStore {
	return &UsageStore{pool: pool}
}

// Insert records one quota sample. Nil fields store as NULL.
func (s *UsageStore) Insert(ctx context.Context, usage domain.RateUsage) error {
	const query = `INSERT INTO api_usage (remaining, reset_at) VALUES ($1, $2)`
	if _, err := s.pool.Exec(ctx, query, usage.Remaining, usage.Reset); err != nil {
		return fmt.Errorf("postgres: insert api usage: %w", err)
	}
	return nil
}
