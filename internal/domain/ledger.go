package domain

import (
	"context"
	"time"
)

// Ledger is the persistence collaborator the scanning core reports to. It
// must tolerate concurrent appends: the continuous loop, snapshot passes, and
// rescans may all write at the same time. Implementations log-and-swallow is
// not expected here; the core logs ledger errors itself and keeps scanning.
type Ledger interface {
	// RecordEvent upserts an event snapshot with its raw feed payload.
	RecordEvent(ctx context.Context, ev Event) error

	// RecordQuotes stores one bookmaker's raw market payload for an event.
	RecordQuotes(ctx context.Context, eventID, marketKey, bookmakerKey string, payload MarketOdds) error

	// RecordArbitrage appends a detected opportunity.
	RecordArbitrage(ctx context.Context, rec ArbitrageRecord) error

	// RecordAPIUsage stores the provider's latest request-quota headers.
	RecordAPIUsage(ctx context.Context, usage RateUsage) error

	// AppendLog appends a structured entry to the scan log.
	AppendLog(ctx context.Context, level, message string, fields map[string]any) error
}

// LogEntry is one row of the scan log.
type LogEntry struct {
	ID        int64          `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// ArbHistory reads back recorded opportunities for the API surface.
type ArbHistory interface {
	ListRecent(ctx context.Context, limit int) ([]ArbitrageRecord, error)
}

// ScanLog reads back scan-log entries for the API surface.
type ScanLog interface {
	List(ctx context.Context, sinceID int64, limit int) ([]LogEntry, error)
}
