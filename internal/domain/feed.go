package domain

import (
	"context"
	"time"
)

// RateUsage carries the odds provider's request-quota headers. Either field
// may be nil when the provider omits the header.
type RateUsage struct {
	Remaining *int
	Reset     *time.Time
}

// OddsSnapshot is the result of one odds fetch: the decoded events plus the
// quota headers that accompanied the response.
type OddsSnapshot struct {
	Events []Event
	Usage  RateUsage
}

// MarketList is a sport's officially supported market keys.
type MarketList struct {
	Markets []string
	Usage   RateUsage
}

// OddsFeed is the transport to the odds provider. Any call may fail with a
// transport error; callers treat failure as "no data this round", never as
// fatal (a failed fetch skips the sport or the deep expansion and the scan
// continues).
type OddsFeed interface {
	// Odds fetches primary-market odds for every upcoming event of a sport.
	Odds(ctx context.Context, sportKey string, regions, bookmakers, markets []string) (OddsSnapshot, error)

	// EventOdds fetches odds for a single event, typically for deep markets
	// that the bulk endpoint does not carry.
	EventOdds(ctx context.Context, sportKey, eventID string, regions, bookmakers, markets []string) (OddsSnapshot, error)

	// ListMarkets returns the market catalog for a sport.
	ListMarkets(ctx context.Context, sportKey string) (MarketList, error)
}
