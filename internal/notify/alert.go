package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbisport/arbisport/internal/domain"
)

var hundredPct = decimal.NewFromInt(100)

// EventArbitrage is the event type under which opportunity alerts are
// dispatched, so operators can filter them via the notifier's event list.
const EventArbitrage = "arbitrage"

// FormatAlert renders an opportunity as a notification title and body. The
// body lists one line per leg: stake, bookmaker, outcome, and american odds.
func FormatAlert(rec domain.ArbitrageRecord) (title, message string) {
	edgePct := rec.Opportunity.Edge.Mul(hundredPct).StringFixed(2)
	title = fmt.Sprintf("Arbitrage %s%% — %s", edgePct, rec.EventName)

	var b strings.Builder
	fmt.Fprintf(&b, "%s / %s\n", rec.SportKey, rec.MarketKey)
	if rec.CommenceTime != nil {
		fmt.Fprintf(&b, "Starts %s\n", rec.CommenceTime.UTC().Format(time.RFC1123))
	}
	fmt.Fprintf(&b, "Stake %s, guaranteed payout %s\n",
		rec.Opportunity.TotalStake.StringFixed(2),
		rec.Opportunity.Payout.StringFixed(2),
	)
	for _, leg := range rec.Opportunity.Recommendations {
		fmt.Fprintf(&b, "• %s on %s @ %+d (%s)\n",
			leg.Stake.StringFixed(2), leg.Label, leg.AmericanOdds, leg.BookmakerTitle)
	}
	return title, strings.TrimRight(b.String(), "\n")
}

// Forward subscribes to the opportunity channel on the bus and dispatches an
// alert for every record until ctx is cancelled. It returns once the
// subscription channel closes.
func Forward(ctx context.Context, bus domain.SignalBus, channel string, notifier *Notifier, logger *slog.Logger) error {
	msgs, err := bus.Subscribe(ctx, channel)
	if err != nil {
		return fmt.Errorf("notify: subscribe %s: %w", channel, err)
	}

	for payload := range msgs {
		var rec domain.ArbitrageRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			logger.Warn("dropping malformed opportunity payload", slog.String("error", err.Error()))
			continue
		}
		title, message := FormatAlert(rec)
		if err := notifier.Notify(ctx, EventArbitrage, title, message); err != nil {
			logger.Warn("alert dispatch failed", slog.String("error", err.Error()))
		}
	}
	return nil
}
