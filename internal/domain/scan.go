package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScanMode selects how the scheduler paces passes.
type ScanMode string

const (
	// ModeSnapshot runs a single pass on demand.
	ModeSnapshot ScanMode = "snapshot"
	// ModeContinuous repeats passes at the normal interval.
	ModeContinuous ScanMode = "continuous"
	// ModeBurst behaves like continuous but switches to the burst interval
	// while an in-window event is about to start.
	ModeBurst ScanMode = "burst"
)

// ScanSchedule holds the pacing parameters for continuous scanning.
type ScanSchedule struct {
	Interval      time.Duration
	BurstInterval time.Duration
	BurstWindow   time.Duration
}

// ScanConfig is the immutable parameter set for a scan. Callers build it once
// and pass it by value; the core never mutates it.
type ScanConfig struct {
	Sports       []string
	Regions      []string
	Bookmakers   []string
	Markets      []string // primary markets included in the bulk odds fetch
	DeepMarkets  []string // deep markets requested per event
	DeepBySport  map[string][]string
	WindowStart  time.Time
	WindowEnd    time.Time
	MinEdge      decimal.Decimal
	Bankroll     decimal.Decimal
	Rounding     decimal.Decimal // stake rounding increment
	MinBookCount int
	MaxPerBook   *decimal.Decimal // nil means uncapped
	Mode         ScanMode
	Schedule     ScanSchedule
}

// DeepMarketsFor returns the deep markets to request for a sport: the
// per-sport override when configured, otherwise the global list.
func (c ScanConfig) DeepMarketsFor(sportKey string) []string {
	if override, ok := c.DeepBySport[sportKey]; ok {
		return override
	}
	return c.DeepMarkets
}

// IsPrimaryMarket reports whether key is one of the configured primary
// markets.
func (c ScanConfig) IsPrimaryMarket(key string) bool {
	for _, m := range c.Markets {
		if m == key {
			return true
		}
	}
	return false
}

// InWindow reports whether t falls inside the configured commence-time
// window. Both bounds are inclusive.
func (c ScanConfig) InWindow(t time.Time) bool {
	return !t.Before(c.WindowStart) && !t.After(c.WindowEnd)
}

// PassCounters are the observability counters aggregated over one
// orchestrator pass.
type PassCounters struct {
	EventsReceived     int `json:"events_received"`
	EventsConsidered   int `json:"events_considered"`
	SkippedNoTime      int `json:"skipped_no_time"`
	SkippedWindow      int `json:"skipped_window"`
	SkippedNoID        int `json:"skipped_no_id"`
	MarketsEvaluated   int `json:"markets_evaluated"`
	QuotesCollected    int `json:"quotes_collected"`
	OpportunitiesFound int `json:"opportunities_found"`
}

// Add accumulates other into c.
func (c *PassCounters) Add(other PassCounters) {
	c.EventsReceived += other.EventsReceived
	c.EventsConsidered += other.EventsConsidered
	c.SkippedNoTime += other.SkippedNoTime
	c.SkippedWindow += other.SkippedWindow
	c.SkippedNoID += other.SkippedNoID
	c.MarketsEvaluated += other.MarketsEvaluated
	c.QuotesCollected += other.QuotesCollected
	c.OpportunitiesFound += other.OpportunitiesFound
}

// RescanStatus is the tagged outcome of a single-event rescan.
type RescanStatus string

const (
	RescanEventNotFound RescanStatus = "event_not_found"
	RescanNoQuotes      RescanStatus = "no_quotes"
	RescanNoArbitrage   RescanStatus = "no_arbitrage"
	RescanArbitrage     RescanStatus = "arbitrage"
)

// RescanResult is returned from an on-demand re-evaluation of one
// event+market. WithinWindow is informational only; it never gates detection.
type RescanResult struct {
	EventID          string       `json:"event_id"`
	SportKey         string       `json:"sport_key"`
	MarketKey        string       `json:"market_key"`
	EventName        string       `json:"event_name"`
	CommenceTime     *time.Time   `json:"commence_time,omitempty"`
	WithinWindow     bool         `json:"within_window"`
	QuotesConsidered int          `json:"quotes_considered"`
	Opportunity      *Opportunity `json:"opportunity,omitempty"`
	Status           RescanStatus `json:"status"`
}
