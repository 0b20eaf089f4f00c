package arbitrage

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/arbisport/arbisport/internal/domain"
)

// DetectParams are the thresholds and sizing inputs for Detect.
type DetectParams struct {
	MinEdge    decimal.Decimal
	Bankroll   decimal.Decimal
	Rounding   decimal.Decimal  // stake rounding increment, e.g. 1 or 0.10
	MaxPerBook *decimal.Decimal // nil means no per-book cap
}

// Detect decides whether the given best prices admit a profitable, roundable
// stake plan and returns the resulting opportunity, or nil when none exists.
//
// The edge is checked twice: once on the theoretical (un-rounded) allocation
// for fast rejection, and again after stakes are rounded down to the
// configured increment, because discretizing stakes can erase an apparent
// edge. An opportunity is only emitted when the post-rounding payout still
// clears the threshold. The per-book cap is all-or-nothing: one oversized raw
// stake voids the whole market rather than capping the leg.
func Detect(prices domain.BestPrices, p DetectParams) *domain.Opportunity {
	if len(prices) == 0 {
		return nil
	}

	// Deterministic outcome order so identical inputs yield identical plans.
	keys := sortedKeys(prices)

	inverseSum := decimal.Zero
	for _, k := range keys {
		inverseSum = inverseSum.Add(one.Div(prices[k].DecimalOdds))
	}

	theoreticalEdge := one.Sub(inverseSum)
	if theoreticalEdge.LessThan(p.MinEdge) {
		return nil
	}

	theoreticalPayout := p.Bankroll.Div(inverseSum)

	stakePlan := make(map[string]decimal.Decimal, len(keys))
	recommendations := make([]domain.Recommendation, 0, len(keys))
	totalStake := decimal.Zero
	var payout decimal.Decimal

	for i, k := range keys {
		quote := prices[k]
		rawStake := theoreticalPayout.Div(quote.DecimalOdds)
		if p.MaxPerBook != nil && rawStake.GreaterThan(*p.MaxPerBook) {
			return nil
		}

		stake := rawStake.Div(p.Rounding).Floor().Mul(p.Rounding)
		if stake.LessThanOrEqual(decimal.Zero) {
			return nil
		}

		label := k.Label()
		stakePlan[label] = stake
		totalStake = totalStake.Add(stake)

		// Only one outcome ultimately pays, so the realizable payout is the
		// minimum of stake*odds across the legs.
		legPayout := stake.Mul(quote.DecimalOdds)
		if i == 0 || legPayout.LessThan(payout) {
			payout = legPayout
		}

		rec := domain.Recommendation{
			Label:          label,
			BookmakerKey:   quote.BookmakerKey,
			BookmakerTitle: quote.BookmakerTitle,
			Regions:        quote.Regions,
			AmericanOdds:   quote.AmericanOdds,
			DecimalOdds:    quote.DecimalOdds,
			Stake:          stake,
			URL:            quote.URL,
		}
		if k.HasPoint {
			point := k.Point
			rec.Point = &point
		}
		recommendations = append(recommendations, rec)
	}

	if totalStake.IsZero() {
		return nil
	}
	if payout.LessThanOrEqual(totalStake) {
		return nil
	}

	edge := payout.Sub(totalStake).Div(totalStake)
	if edge.LessThan(p.MinEdge) {
		return nil
	}

	return &domain.Opportunity{
		Edge:            edge,
		Payout:          payout,
		TotalStake:      totalStake,
		StakePlan:       stakePlan,
		Recommendations: recommendations,
	}
}

func sortedKeys(prices domain.BestPrices) []domain.OutcomeKey {
	keys := make([]domain.OutcomeKey, 0, len(prices))
	for k := range prices {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		if keys[i].HasPoint != keys[j].HasPoint {
			return !keys[i].HasPoint
		}
		return keys[i].Point < keys[j].Point
	})
	return keys
}
