package scan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arbisport/arbisport/internal/arbitrage"
	"github.com/arbisport/arbisport/internal/domain"
)

// RescanService re-evaluates a single event+market on demand, outside the
// scheduled loop. Rescans ignore the commence-time window: the caller asked
// about this event specifically, so the result reports window membership but
// never filters on it.
type RescanService struct {
	orch   *Orchestrator
	logger *slog.Logger
}

// NewRescanService creates a RescanService sharing the orchestrator's feed,
// ledger, and tracker.
func NewRescanService(orch *Orchestrator, logger *slog.Logger) *RescanService {
	return &RescanService{
		orch:   orch,
		logger: logger.With(slog.String("component", "rescan")),
	}
}

// Rescan fetches fresh odds for one event and runs detection on marketKey.
// The fetch requests the configured primary markets plus every deep market
// allowed for the sport plus marketKey itself, so a market outside the
// normal scan scope can still be rescanned. A transport failure is returned
// to the caller; every other outcome is a tagged RescanResult.
func (r *RescanService) Rescan(ctx context.Context, cfg domain.ScanConfig, sportKey, eventID, marketKey string) (domain.RescanResult, error) {
	result := domain.RescanResult{
		EventID:   eventID,
		SportKey:  sportKey,
		MarketKey: marketKey,
	}

	deep := r.orch.tracker.SupportedDeepMarkets(ctx, sportKey, rescanDeepMarkets(cfg, sportKey, marketKey))
	requested := mergeKeys(cfg.Markets, deep)
	snap, err := r.orch.feed.EventOdds(ctx, sportKey, eventID, cfg.Regions, cfg.Bookmakers, requested)
	if err != nil {
		return result, fmt.Errorf("rescan %s/%s: %w", sportKey, eventID, err)
	}
	r.orch.recordUsage(ctx, snap.Usage)

	var ev *domain.Event
	for i := range snap.Events {
		if snap.Events[i].ID == eventID {
			ev = &snap.Events[i]
			break
		}
	}
	if ev == nil {
		result.Status = domain.RescanEventNotFound
		return result, nil
	}

	if err := r.orch.ledger.RecordEvent(ctx, *ev); err != nil {
		r.logger.Warn("event record failed",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
	}

	result.EventName = ev.Name()
	if commence, ok := ev.Commence(); ok {
		ct := commence
		result.CommenceTime = &ct
		result.WithinWindow = cfg.InWindow(commence)
	}

	byMarket := map[string][]domain.OutcomeQuote{}
	onlyTarget := func(key string) bool { return key != marketKey }
	var counters domain.PassCounters
	r.orch.collectQuotes(ctx, *ev, onlyTarget, byMarket, &counters)

	quotes := byMarket[marketKey]
	result.QuotesConsidered = len(quotes)
	if len(quotes) == 0 {
		result.Status = domain.RescanNoQuotes
		return result, nil
	}

	opp := arbitrage.Detect(arbitrage.SelectBestPrices(quotes), arbitrage.DetectParams{
		MinEdge:    cfg.MinEdge,
		Bankroll:   cfg.Bankroll,
		Rounding:   cfg.Rounding,
		MaxPerBook: cfg.MaxPerBook,
	})
	if opp == nil {
		result.Status = domain.RescanNoArbitrage
		return result, nil
	}

	result.Status = domain.RescanArbitrage
	result.Opportunity = opp

	r.orch.reportOpportunity(ctx, sportKey, *ev, result.CommenceTime, marketKey, *opp)
	r.logger.Info("rescan found arbitrage",
		slog.String("event_id", eventID),
		slog.String("market", marketKey),
		slog.String("edge", opp.Edge.String()),
	)
	return result, nil
}

// rescanDeepMarkets builds the deep-market request list for a rescan: the
// union of the global deep list, the per-sport override, and the target
// market itself when it is not a primary market. The result is filtered
// through the availability tracker before fetching.
func rescanDeepMarkets(cfg domain.ScanConfig, sportKey, marketKey string) []string {
	keys := append([]string(nil), cfg.DeepMarkets...)
	keys = append(keys, cfg.DeepBySport[sportKey]...)
	if marketKey != "" && !cfg.IsPrimaryMarket(marketKey) {
		keys = append(keys, marketKey)
	}
	return mergeKeys(nil, keys)
}

// mergeKeys concatenates the lists with order-preserving dedupe, dropping
// empty keys.
func mergeKeys(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range lists {
		for _, k := range list {
			if k == "" {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
