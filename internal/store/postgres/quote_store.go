package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arbisport/arbisport/internal/domain"
)

// QuoteStore persists raw bookmaker market payloads, one row per
// event+market+bookmaker fetch.
type QuoteStore struct {
	pool *pgxpool.Pool
}

// NewQuoteStore creates a new QuoteStore backed by the given connection pool.
func NewQuoteStore(pool *pgxpool.Pool) *QuoteStore {
	return &QuoteStore{pool: pool}
}

// Insert appends one bookmaker's market payload for an event.
func (s *QuoteStore) Insert(ctx context.Context, eventID, marketKey, bookmakerKey string, payload domain.MarketOdds) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("postgres: encode quotes %s/%s: %w", eventID, marketKey, err)
	}

	const query = `
		INSERT INTO quotes (event_id, market_key, bookmaker_key, payload)
		VALUES ($1, $2, $3, $4)`

	if _, err := s.pool.Exec(ctx, query, eventID, marketKey, bookmakerKey, raw); err != nil {
		return fmt.Errorf("postgres: insert quotes %s/%s: %w", eventID, marketKey, err)
	}
	return nil
}
