// Package markets tracks which optional deep markets each sport actually
// supports, so the scanner does not burn request quota on per-event fetches
// that can never return data.
package markets

import (
	"context"
	"log/slog"
	"sync"

	"github.com/arbisport/arbisport/internal/domain"
)

// AvailabilityTracker learns per-sport deep-market support over the lifetime
// of one scanner instance. It keeps two structures:
//
//   - a positive catalog, lazily fetched from the feed's market list endpoint
//     and cached for the session; when the fetch fails the catalog is cached
//     as "unknown" and no positive filtering happens;
//   - a negative cache of markets confirmed unsupported, grown monotonically
//     whenever a deep fetch fails or omits a requested key. It is never
//     pruned during the session.
//
// All methods are safe for concurrent use: the continuous loop, snapshots,
// and rescans may consult and update the tracker at the same time.
type AvailabilityTracker struct {
	feed   domain.OddsFeed
	ledger domain.Ledger
	logger *slog.Logger

	mu          sync.Mutex
	catalog     map[string]map[string]struct{} // sport -> known market keys; empty set means unknown
	unavailable map[string]map[string]struct{} // sport -> markets confirmed unsupported
}

// NewAvailabilityTracker creates an empty tracker backed by the given feed.
func NewAvailabilityTracker(feed domain.OddsFeed, ledger domain.Ledger, logger *slog.Logger) *AvailabilityTracker {
	return &AvailabilityTracker{
		feed:        feed,
		ledger:      ledger,
		logger:      logger.With(slog.String("component", "availability_tracker")),
		catalog:     make(map[string]map[string]struct{}),
		unavailable: make(map[string]map[string]struct{}),
	}
}

// SupportedDeepMarkets filters the requested deep markets down to those worth
// fetching for the sport: duplicates removed (order preserved), negatively
// cached markets dropped, and, when a positive catalog is known, markets
// absent from the catalog dropped as well.
func (t *AvailabilityTracker) SupportedDeepMarkets(ctx context.Context, sportKey string, requested []string) []string {
	deduped := dedupe(requested)
	if len(deduped) == 0 {
		return nil
	}

	t.mu.Lock()
	negative := t.unavailable[sportKey]
	filtered := deduped[:0:len(deduped)]
	for _, m := range deduped {
		if _, bad := negative[m]; !bad {
			filtered = append(filtered, m)
		}
	}
	catalog, cached := t.catalog[sportKey]
	t.mu.Unlock()

	if len(filtered) == 0 {
		return nil
	}

	if !cached {
		catalog = t.loadCatalog(ctx, sportKey)
	}
	if len(catalog) == 0 {
		// Unknown catalog: rely on the negative cache only.
		return filtered
	}

	supported := filtered[:0:len(filtered)]
	for _, m := range filtered {
		if _, ok := catalog[m]; ok {
			supported = append(supported, m)
		}
	}
	return supported
}

// MarkUnavailable records that the given deep markets are unsupported for the
// sport. Called when a deep fetch fails outright or when its response omits a
// requested market key.
func (t *AvailabilityTracker) MarkUnavailable(sportKey string, marketKeys []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.unavailable[sportKey]
	if set == nil {
		set = make(map[string]struct{})
		t.unavailable[sportKey] = set
	}
	for _, m := range marketKeys {
		if m != "" {
			set[m] = struct{}{}
		}
	}
}

// Reset clears all learned state. Intended for explicit operator resets; the
// caches otherwise live for the tracker's lifetime.
func (t *AvailabilityTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.catalog = make(map[string]map[string]struct{})
	t.unavailable = make(map[string]map[string]struct{})
}

// loadCatalog fetches and caches the sport's market catalog. A failed fetch
// caches an empty set, which disables positive filtering for the session
// rather than blocking all deep markets.
func (t *AvailabilityTracker) loadCatalog(ctx context.Context, sportKey string) map[string]struct{} {
	catalog := make(map[string]struct{})

	list, err := t.feed.ListMarkets(ctx, sportKey)
	if err != nil {
		t.logger.Warn("market list fetch failed",
			slog.String("sport", sportKey),
			slog.String("error", err.Error()),
		)
		if t.ledger != nil {
			_ = t.ledger.AppendLog(ctx, "warn", "market list fetch failed",
				map[string]any{"sport": sportKey, "error": err.Error()})
		}
	} else {
		for _, m := range list.Markets {
			if m != "" {
				catalog[m] = struct{}{}
			}
		}
		if t.ledger != nil {
			_ = t.ledger.RecordAPIUsage(ctx, list.Usage)
		}
	}

	t.mu.Lock()
	// A concurrent pass may have loaded the catalog first; keep the existing
	// entry so results stay consistent within the session.
	if existing, ok := t.catalog[sportKey]; ok {
		catalog = existing
	} else {
		t.catalog[sportKey] = catalog
	}
	t.mu.Unlock()

	return catalog
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
