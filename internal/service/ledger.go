// Package service contains application services that sit between the scan
// core and the infrastructure stores.
package service

import (
	"context"
	"log/slog"

	"github.com/arbisport/arbisport/internal/domain"
	"github.com/arbisport/arbisport/internal/store/postgres"
)

// Ledger implements domain.Ledger over the PostgreSQL stores. Each method is
// a single insert; the stores tolerate concurrent appends, so the continuous
// loop, snapshots, and rescans can all write at once.
type Ledger struct {
	events *postgres.EventStore
	quotes *postgres.QuoteStore
	arbs   *postgres.ArbStore
	usage  *postgres.UsageStore
	logs   *postgres.LogStore
	logger *slog.Logger
}

// NewLedger creates a Ledger over the given stores.
func NewLedger(
	events *postgres.EventStore,
	quotes *postgres.QuoteStore,
	arbs *postgres.ArbStore,
	usage *postgres.UsageStore,
	logs *postgres.LogStore,
	logger *slog.Logger,
) *Ledger {
	return &Ledger{
		events: events,
		quotes: quotes,
		arbs:   arbs,
		usage:  usage,
		logs:   logs,
		logger: logger.With(slog.String("component", "ledger")),
	}
}

// RecordEvent upserts an event snapshot.
func (l *Ledger) RecordEvent(ctx context.Context, ev domain.Event) error {
	return l.events.Upsert(ctx, ev)
}

// RecordQuotes stores one bookmaker's raw market payload for an event.
func (l *Ledger) RecordQuotes(ctx context.Context, eventID, marketKey, bookmakerKey string, payload domain.MarketOdds) error {
	return l.quotes.Insert(ctx, eventID, marketKey, bookmakerKey, payload)
}

// RecordArbitrage appends a detected opportunity.
func (l *Ledger) RecordArbitrage(ctx context.Context, rec domain.ArbitrageRecord) error {
	return l.arbs.Insert(ctx, rec)
}

// RecordAPIUsage stores the provider's latest request-quota sample.
func (l *Ledger) RecordAPIUsage(ctx context.Context, usage domain.RateUsage) error {
	return l.usage.Insert(ctx, usage)
}

// AppendLog writes the entry to the scan log and mirrors it to the process
// logger so the durable trail and the console stay in sync.
func (l *Ledger) AppendLog(ctx context.Context, level, message string, fields map[string]any) error {
	attrs := make([]any, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	switch level {
	case "error":
		l.logger.ErrorContext(ctx, message, attrs...)
	case "warn":
		l.logger.WarnContext(ctx, message, attrs...)
	default:
		l.logger.DebugContext(ctx, message, attrs...)
	}
	return l.logs.Append(ctx, level, message, fields)
}
