package arbitrage

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arbisport/arbisport/internal/domain"
)

func twoWayPrices(t *testing.T, oddsA, oddsB int) domain.BestPrices {
	t.Helper()
	return SelectBestPrices([]domain.OutcomeQuote{
		quote(t, "Team A", "book_a", oddsA),
		quote(t, "Team B", "book_b", oddsB),
	})
}

func params(minEdge, bankroll, rounding string) DetectParams {
	return DetectParams{
		MinEdge:  decimal.RequireFromString(minEdge),
		Bankroll: decimal.RequireFromString(bankroll),
		Rounding: decimal.RequireFromString(rounding),
	}
}

func TestDetectFindsOpportunity(t *testing.T) {
	// -110 / +120 sums to an implied probability below 1.
	opp := Detect(twoWayPrices(t, -110, 120), params("0.001", "100", "1"))
	if opp == nil {
		t.Fatal("expected an opportunity, got nil")
	}
	if !opp.Edge.GreaterThan(decimal.Zero) {
		t.Errorf("edge = %s, want > 0", opp.Edge)
	}
	if !opp.Payout.GreaterThan(opp.TotalStake) {
		t.Errorf("payout %s not greater than total stake %s", opp.Payout, opp.TotalStake)
	}
	if len(opp.Recommendations) != 2 || len(opp.StakePlan) != 2 {
		t.Errorf("got %d recommendations / %d plan entries, want 2 / 2",
			len(opp.Recommendations), len(opp.StakePlan))
	}
}

func TestDetectEmptyPrices(t *testing.T) {
	if opp := Detect(domain.BestPrices{}, params("0.001", "100", "1")); opp != nil {
		t.Fatalf("expected nil for empty prices, got %+v", opp)
	}
}

func TestDetectNoEdge(t *testing.T) {
	// -110 / -110 is a standard vigged market; no arbitrage exists.
	if opp := Detect(twoWayPrices(t, -110, -110), params("0.001", "100", "1")); opp != nil {
		t.Fatalf("expected nil for vigged market, got edge %s", opp.Edge)
	}
}

func TestDetectMaxPerBookVoidsWholeMarket(t *testing.T) {
	p := params("0.001", "100", "1")
	cap := decimal.RequireFromString("10")
	p.MaxPerBook = &cap

	// Either leg's raw stake is ~50; the cap must void the market entirely,
	// never shrink a leg.
	if opp := Detect(twoWayPrices(t, -110, 120), p); opp != nil {
		t.Fatalf("expected nil with max per book 10, got %+v", opp)
	}
}

func TestDetectPayoutIsMinAfterRounding(t *testing.T) {
	prices := twoWayPrices(t, -101, 102)
	opp := Detect(prices, params("0.0001", "200", "0.10"))
	if opp == nil {
		t.Fatal("expected an opportunity, got nil")
	}

	// The payout must equal the minimum of stake*odds recomputed from the
	// rounded stake plan, exactly.
	var minReturn decimal.Decimal
	first := true
	for key, q := range prices {
		ret := opp.StakePlan[key.Label()].Mul(q.DecimalOdds)
		if first || ret.LessThan(minReturn) {
			minReturn = ret
			first = false
		}
	}
	if !opp.Payout.Equal(minReturn) {
		t.Errorf("payout = %s, want exact min return %s", opp.Payout, minReturn)
	}

	wantEdge := opp.Payout.Sub(opp.TotalStake).Div(opp.TotalStake)
	if !opp.Edge.Equal(wantEdge) {
		t.Errorf("edge = %s, want %s", opp.Edge, wantEdge)
	}
}

func TestDetectRoundingNeverIncreasesStake(t *testing.T) {
	prices := twoWayPrices(t, -110, 120)
	opp := Detect(prices, params("0.001", "100", "1"))
	if opp == nil {
		t.Fatal("expected an opportunity, got nil")
	}

	inverseSum := decimal.Zero
	for _, q := range prices {
		inverseSum = inverseSum.Add(decimal.NewFromInt(1).Div(q.DecimalOdds))
	}
	theoreticalPayout := decimal.RequireFromString("100").Div(inverseSum)

	for key, q := range prices {
		raw := theoreticalPayout.Div(q.DecimalOdds)
		if opp.StakePlan[key.Label()].GreaterThan(raw) {
			t.Errorf("rounded stake %s exceeds raw stake %s for %s",
				opp.StakePlan[key.Label()], raw, key.Label())
		}
	}

	// Rounding cannot create edge or payout.
	if opp.Payout.GreaterThan(theoreticalPayout) {
		t.Errorf("actual payout %s exceeds theoretical %s", opp.Payout, theoreticalPayout)
	}
	theoreticalEdge := decimal.NewFromInt(1).Sub(inverseSum).Div(inverseSum)
	if opp.Edge.GreaterThan(theoreticalEdge) {
		t.Errorf("actual edge %s exceeds theoretical return %s", opp.Edge, theoreticalEdge)
	}
}

func TestDetectAntiMonotonicInMinEdge(t *testing.T) {
	prices := twoWayPrices(t, -110, 120)

	low := Detect(prices, params("0.001", "100", "1"))
	if low == nil {
		t.Fatal("expected a hit at min edge 0.001")
	}

	// Raising the threshold above the realizable edge must turn the hit into
	// a miss; lowering it can never do the reverse.
	above := low.Edge.Add(decimal.RequireFromString("0.0001"))
	high := Detect(prices, DetectParams{
		MinEdge:  above,
		Bankroll: decimal.RequireFromString("100"),
		Rounding: decimal.RequireFromString("1"),
	})
	if high != nil {
		t.Fatalf("expected nil at min edge %s, got edge %s", above, high.Edge)
	}
}

func TestDetectIdempotent(t *testing.T) {
	prices := twoWayPrices(t, -110, 120)
	p := params("0.001", "100", "1")

	first := Detect(prices, p)
	second := Detect(prices, p)
	if first == nil || second == nil {
		t.Fatal("expected opportunities from both runs")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Detect is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDetectRejectsZeroRoundedStake(t *testing.T) {
	// A 5-unit rounding increment floors both ~2.x stakes to zero.
	if opp := Detect(twoWayPrices(t, -110, 120), params("0.001", "5", "5")); opp != nil {
		t.Fatalf("expected nil when stakes round to zero, got %+v", opp)
	}
}
