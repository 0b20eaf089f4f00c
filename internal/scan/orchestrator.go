// Package scan contains the scanning core: the per-pass orchestrator that
// turns odds snapshots into recorded arbitrage opportunities, the scheduler
// that paces passes, and the on-demand rescan service.
package scan

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arbisport/arbisport/internal/arbitrage"
	"github.com/arbisport/arbisport/internal/catalog"
	"github.com/arbisport/arbisport/internal/domain"
	"github.com/arbisport/arbisport/internal/markets"
	"github.com/arbisport/arbisport/internal/normalize"
)

// ChannelOpportunities is the signal-bus channel detected opportunities are
// published on, as JSON-encoded domain.ArbitrageRecord values.
const ChannelOpportunities = "arbisport:opportunities"

// Orchestrator runs scan passes: fetch odds per sport, expand deep markets per
// event, pick best prices, detect arbitrage, and report everything to the
// ledger. The bus is optional; when nil, detected opportunities are only
// persisted.
type Orchestrator struct {
	feed    domain.OddsFeed
	ledger  domain.Ledger
	tracker *markets.AvailabilityTracker
	names   *normalize.Normalizer
	bus     domain.SignalBus
	logger  *slog.Logger
	now     func() time.Time

	mu           sync.Mutex
	nearest      time.Time
	nearestKnown bool
}

// NewOrchestrator creates an Orchestrator. bus may be nil.
func NewOrchestrator(
	feed domain.OddsFeed,
	ledger domain.Ledger,
	tracker *markets.AvailabilityTracker,
	names *normalize.Normalizer,
	bus domain.SignalBus,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		feed:    feed,
		ledger:  ledger,
		tracker: tracker,
		names:   names,
		bus:     bus,
		logger:  logger.With(slog.String("component", "orchestrator")),
		now:     time.Now,
	}
}

// RunPass executes one full scan over every configured sport. Sports are
// isolated: a failed fetch logs, skips that sport, and the pass continues.
// The only error RunPass returns is context cancellation.
func (o *Orchestrator) RunPass(ctx context.Context, cfg domain.ScanConfig) (domain.PassCounters, error) {
	started := o.now()
	var total domain.PassCounters

	var nearest time.Time
	nearestKnown := false

	for _, sport := range cfg.Sports {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		counters, soonest, ok := o.scanSport(ctx, cfg, sport)
		total.Add(counters)
		if ok && (!nearestKnown || soonest.Before(nearest)) {
			nearest, nearestKnown = soonest, true
		}
	}

	o.mu.Lock()
	o.nearest, o.nearestKnown = nearest, nearestKnown
	o.mu.Unlock()

	o.logger.Info("scan pass complete",
		slog.Duration("elapsed", o.now().Sub(started)),
		slog.Int("events_received", total.EventsReceived),
		slog.Int("events_considered", total.EventsConsidered),
		slog.Int("markets_evaluated", total.MarketsEvaluated),
		slog.Int("opportunities", total.OpportunitiesFound),
	)
	o.appendLog(ctx, "info", "scan pass complete", map[string]any{
		"events_received":     total.EventsReceived,
		"events_considered":   total.EventsConsidered,
		"markets_evaluated":   total.MarketsEvaluated,
		"opportunities_found": total.OpportunitiesFound,
	})
	return total, ctx.Err()
}

// NearestCommence reports the earliest commence time among the in-window
// events of the most recent pass. The scheduler uses it to decide whether to
// switch to the burst interval.
func (o *Orchestrator) NearestCommence() (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nearest, o.nearestKnown
}

func (o *Orchestrator) scanSport(ctx context.Context, cfg domain.ScanConfig, sport string) (domain.PassCounters, time.Time, bool) {
	var counters domain.PassCounters
	logger := o.logger.With(slog.String("sport", sport))

	snap, err := o.feed.Odds(ctx, sport, cfg.Regions, cfg.Bookmakers, cfg.Markets)
	if err != nil {
		logger.Warn("odds fetch failed, skipping sport", slog.String("error", err.Error()))
		o.appendLog(ctx, "warn", "odds fetch failed", map[string]any{"sport": sport, "error": err.Error()})
		return counters, time.Time{}, false
	}
	o.recordUsage(ctx, snap.Usage)

	deep := o.tracker.SupportedDeepMarkets(ctx, sport, cfg.DeepMarketsFor(sport))

	var nearest time.Time
	nearestKnown := false

	for i := range snap.Events {
		ev := snap.Events[i]
		counters.EventsReceived++

		commence, ok := ev.Commence()
		if !ok {
			counters.SkippedNoTime++
			continue
		}
		if !cfg.InWindow(commence) {
			counters.SkippedWindow++
			continue
		}
		if ev.ID == "" {
			counters.SkippedNoID++
			continue
		}
		counters.EventsConsidered++
		if !nearestKnown || commence.Before(nearest) {
			nearest, nearestKnown = commence, true
		}

		if err := o.ledger.RecordEvent(ctx, ev); err != nil {
			logger.Warn("event record failed", slog.String("event_id", ev.ID), slog.String("error", err.Error()))
		}
		o.evaluateEvent(ctx, cfg, sport, ev, commence, deep, &counters)
	}
	return counters, nearest, nearestKnown
}

// evaluateEvent collects quotes from the bulk payload, expands deep markets
// with a per-event fetch, and runs detection on every market seen.
func (o *Orchestrator) evaluateEvent(
	ctx context.Context,
	cfg domain.ScanConfig,
	sport string,
	ev domain.Event,
	commence time.Time,
	deep []string,
	counters *domain.PassCounters,
) {
	allowed := make(map[string]struct{}, len(cfg.Markets)+len(deep))
	for _, key := range cfg.Markets {
		allowed[key] = struct{}{}
	}
	for _, key := range deep {
		allowed[key] = struct{}{}
	}
	// Feeds may volunteer markets nobody asked for; those are dropped, not
	// ledgered and not evaluated.
	outside := func(marketKey string) bool {
		_, ok := allowed[marketKey]
		return !ok
	}

	byMarket := map[string][]domain.OutcomeQuote{}
	o.collectQuotes(ctx, ev, outside, byMarket, counters)

	if len(deep) > 0 {
		o.expandDeepMarkets(ctx, cfg, sport, ev, deep, outside, byMarket, counters)
	}

	params := arbitrage.DetectParams{
		MinEdge:    cfg.MinEdge,
		Bankroll:   cfg.Bankroll,
		Rounding:   cfg.Rounding,
		MaxPerBook: cfg.MaxPerBook,
	}

	for _, marketKey := range sortedMarketKeys(byMarket) {
		quotes := byMarket[marketKey]
		counters.MarketsEvaluated++
		if cfg.MinBookCount > 0 && distinctBooks(quotes) < cfg.MinBookCount {
			continue
		}

		opp := arbitrage.Detect(arbitrage.SelectBestPrices(quotes), params)
		if opp == nil {
			continue
		}
		counters.OpportunitiesFound++
		o.reportOpportunity(ctx, sport, ev, &commence, marketKey, *opp)
	}
}

// expandDeepMarkets merges a per-event odds fetch into byMarket and marks any
// requested market the feed did not answer for as unavailable for the sport.
// A fetch that fails outright marks every requested key, so later passes stop
// spending a billed per-event request on markets the feed cannot serve.
func (o *Orchestrator) expandDeepMarkets(
	ctx context.Context,
	cfg domain.ScanConfig,
	sport string,
	ev domain.Event,
	deep []string,
	outside func(marketKey string) bool,
	byMarket map[string][]domain.OutcomeQuote,
	counters *domain.PassCounters,
) {
	snap, err := o.feed.EventOdds(ctx, sport, ev.ID, cfg.Regions, cfg.Bookmakers, deep)
	if err != nil {
		o.logger.Debug("deep odds fetch failed",
			slog.String("sport", sport),
			slog.String("event_id", ev.ID),
			slog.String("error", err.Error()),
		)
		o.tracker.MarkUnavailable(sport, deep)
		return
	}
	o.recordUsage(ctx, snap.Usage)

	seen := map[string]struct{}{}
	// Primaries were already collected from the bulk payload; everything else
	// must still be in the allowed set.
	skip := func(marketKey string) bool {
		return cfg.IsPrimaryMarket(marketKey) || outside(marketKey)
	}
	for i := range snap.Events {
		if snap.Events[i].ID != ev.ID {
			continue
		}
		o.collectQuotes(ctx, snap.Events[i], skip, byMarket, counters)
		for _, bk := range snap.Events[i].Bookmakers {
			for _, m := range bk.Markets {
				seen[m.Key] = struct{}{}
			}
		}
	}

	var missing []string
	for _, key := range deep {
		if _, ok := seen[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		o.tracker.MarkUnavailable(sport, missing)
	}
}

// collectQuotes walks an event's bookmaker payloads, records the raw markets
// in the ledger, and appends canonical quotes to byMarket. skip, when non-nil,
// filters out market keys already covered elsewhere.
func (o *Orchestrator) collectQuotes(
	ctx context.Context,
	ev domain.Event,
	skip func(marketKey string) bool,
	byMarket map[string][]domain.OutcomeQuote,
	counters *domain.PassCounters,
) {
	for _, bk := range ev.Bookmakers {
		for _, m := range bk.Markets {
			if skip != nil && skip(m.Key) {
				continue
			}
			if err := o.ledger.RecordQuotes(ctx, ev.ID, m.Key, bk.Key, m); err != nil {
				o.logger.Warn("quote record failed",
					slog.String("event_id", ev.ID),
					slog.String("market", m.Key),
					slog.String("error", err.Error()),
				)
			}
			for _, out := range m.Outcomes {
				q, ok := o.buildQuote(bk, out)
				if !ok {
					continue
				}
				byMarket[m.Key] = append(byMarket[m.Key], q)
				counters.QuotesCollected++
			}
		}
	}
}

// buildQuote converts a raw outcome into a canonical OutcomeQuote, annotated
// with region and site data from the bookmaker catalog.
func (o *Orchestrator) buildQuote(bk domain.BookmakerOdds, out domain.RawOutcome) (domain.OutcomeQuote, bool) {
	american := int(out.Price)
	dec, err := arbitrage.AmericanToDecimal(american)
	if err != nil {
		return domain.OutcomeQuote{}, false
	}

	key := domain.OutcomeKey{Name: o.names.Canonicalize(out.Name)}
	if out.Point != nil {
		key.Point, key.HasPoint = *out.Point, true
	}

	q := domain.OutcomeQuote{
		Outcome:        key,
		BookmakerKey:   bk.Key,
		BookmakerTitle: bk.Title,
		AmericanOdds:   american,
		DecimalOdds:    dec,
	}
	if info, ok := catalog.LookupBookmaker(bk.Key); ok {
		q.Regions = info.Regions
		q.URL = info.URL
		if q.BookmakerTitle == "" {
			q.BookmakerTitle = info.Title
		}
	}
	return q, true
}

func (o *Orchestrator) reportOpportunity(
	ctx context.Context,
	sport string,
	ev domain.Event,
	commence *time.Time,
	marketKey string,
	opp domain.Opportunity,
) {
	rec := domain.ArbitrageRecord{
		ID:           uuid.NewString(),
		EventID:      ev.ID,
		EventName:    ev.Name(),
		SportKey:     sport,
		MarketKey:    marketKey,
		CommenceTime: commence,
		Opportunity:  opp,
		DetectedAt:   o.now().UTC(),
	}

	o.logger.Info("arbitrage found",
		slog.String("event", rec.EventName),
		slog.String("market", marketKey),
		slog.String("edge", opp.Edge.String()),
		slog.String("payout", opp.Payout.String()),
	)
	if err := o.ledger.RecordArbitrage(ctx, rec); err != nil {
		o.logger.Error("arbitrage record failed", slog.String("event_id", ev.ID), slog.String("error", err.Error()))
	}
	o.appendLog(ctx, "info", "arbitrage found", map[string]any{
		"event":  rec.EventName,
		"market": marketKey,
		"edge":   opp.Edge.String(),
	})

	if o.bus == nil {
		return
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		o.logger.Error("arbitrage encode failed", slog.String("error", err.Error()))
		return
	}
	if err := o.bus.Publish(ctx, ChannelOpportunities, payload); err != nil {
		o.logger.Warn("bus publish failed", slog.String("error", err.Error()))
	}
}

func (o *Orchestrator) recordUsage(ctx context.Context, usage domain.RateUsage) {
	if usage.Remaining == nil && usage.Reset == nil {
		return
	}
	if err := o.ledger.RecordAPIUsage(ctx, usage); err != nil {
		o.logger.Debug("usage record failed", slog.String("error", err.Error()))
	}
}

func (o *Orchestrator) appendLog(ctx context.Context, level, message string, fields map[string]any) {
	if err := o.ledger.AppendLog(ctx, level, message, fields); err != nil {
		o.logger.Debug("scan log append failed", slog.String("error", err.Error()))
	}
}

func sortedMarketKeys(byMarket map[string][]domain.OutcomeQuote) []string {
	keys := make([]string, 0, len(byMarket))
	for k := range byMarket {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func distinctBooks(quotes []domain.OutcomeQuote) int {
	books := map[string]struct{}{}
	for _, q := range quotes {
		books[q.BookmakerKey] = struct{}{}
	}
	return len(books)
}
