package arbitrage

import "github.com/arbisport/arbisport/internal/domain"

// SelectBestPrices reduces a list of quotes to the single best quote per
// outcome. "Best" means the highest decimal odds; on a tie the quote seen
// first wins, so the result is stable in ingestion order. Outcome names are
// expected to be canonicalized upstream.
func SelectBestPrices(quotes []domain.OutcomeQuote) domain.BestPrices {
	best := make(domain.BestPrices, len(quotes))
	for _, q := range quotes {
		current, ok := best[q.Outcome]
		if !ok || q.DecimalOdds.GreaterThan(current.DecimalOdds) {
			best[q.Outcome] = q
		}
	}
	return best
}
