package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arbisport/arbisport/internal/domain"
)

// EventStore persists event snapshots.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore creates a new EventStore backed by the given connection pool.
func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Upsert inserts the event or refreshes its payload and last-seen timestamp.
// Concurrent upserts of the same event are resolved by the conflict clause.
func (s *EventStore) Upsert(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("postgres: encode event %s: %w", ev.ID, err)
	}

	var commence any
	if t, ok := ev.Commence(); ok {
		commence = t
	}

	const query = `
		INSERT INTO events (id, sport_key, sport_title, commence_time, home_team, away_team, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			sport_key     = EXCLUDED.sport_key,
			sport_title   = EXCLUDED.sport_title,
			commence_time = EXCLUDED.commence_time,
			home_team     = EXCLUDED.home_team,
			away_team     = EXCLUDED.away_team,
			payload       = EXCLUDED.payload,
			last_seen_at  = NOW()`

	_, err = s.pool.Exec(ctx, query,
		ev.ID, ev.SportKey, ev.SportTitle, commence, ev.HomeTeam, ev.AwayTeam, payload,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert event %s: %w", ev.ID, err)
	}
	return nil
}
