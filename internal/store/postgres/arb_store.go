package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arbisport/arbisport/internal/domain"
)

// ArbStore persists detected opportunities and serves the recent-history
// query for the API surface.
type ArbStore struct {
	pool *pgxpool.Pool
}

// NewArbStore creates a new ArbStore backed by the given connection pool.
func NewArbStore(pool *pgxpool.Pool) *ArbStore {
	return &ArbStore{pool: pool}
}

// Insert appends a detected opportunity.
func (s *ArbStore) Insert(ctx context.Context, rec domain.ArbitrageRecord) error {
	opportunity, err := json.Marshal(rec.Opportunity)
	if err != nil {
		return fmt.Errorf("postgres: encode opportunity %s: %w", rec.ID, err)
	}

	const query = `
		INSERT INTO arbitrage (
			id, event_id, event_name, sport_key, market_key,
			commence_time, edge, payout, total_stake, opportunity, detected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = s.pool.Exec(ctx, query,
		rec.ID, rec.EventID, rec.EventName, rec.SportKey, rec.MarketKey,
		rec.CommenceTime,
		rec.Opportunity.Edge, rec.Opportunity.Payout, rec.Opportunity.TotalStake,
		opportunity, rec.DetectedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert arbitrage %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecent returns the newest opportunities, most recent first.
func (s *ArbStore) ListRecent(ctx context.Context, limit int) ([]domain.ArbitrageRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, event_id, event_name, sport_key, market_key,
		       commence_time, opportunity, detected_at
		FROM arbitrage
		ORDER BY detected_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list arbitrage: %w", err)
	}
	defer rows.Close()

	var records []domain.ArbitrageRecord
	for rows.Next() {
		var rec domain.ArbitrageRecord
		var opportunity []byte
		if err := rows.Scan(
			&rec.ID, &rec.EventID, &rec.EventName, &rec.SportKey, &rec.MarketKey,
			&rec.CommenceTime, &opportunity, &rec.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan arbitrage row: %w", err)
		}
		if err := json.Unmarshal(opportunity, &rec.Opportunity); err != nil {
			return nil, fmt.Errorf("postgres: decode opportunity %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate arbitrage rows: %w", err)
	}
	return records, nil
}
