// Package domain defines the core data model shared by the scanner: quotes,
// best-price maps, arbitrage opportunities, scan configuration, and the
// interfaces through which the core talks to the odds feed and the ledger.
package domain

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// OutcomeKey uniquely identifies one side of a market: the canonical outcome
// name plus the optional point/line. Spread and total markets carry a point;
// head-to-head markets do not.
type OutcomeKey struct {
	Name     string
	Point    float64
	HasPoint bool
}

// Label renders the key the way it appears in stake plans, e.g.
// "Boston Celtics (-3.5)".
func (k OutcomeKey) Label() string {
	if !k.HasPoint {
		return k.Name
	}
	return fmt.Sprintf("%s (%s)", k.Name, strconv.FormatFloat(k.Point, 'f', -1, 64))
}

// OutcomeQuote is a single bookmaker price for one outcome. DecimalOdds is
// always derived from AmericanOdds via arbitrage.AmericanToDecimal and is
// strictly greater than 1.
type OutcomeQuote struct {
	Outcome        OutcomeKey
	BookmakerKey   string
	BookmakerTitle string
	Regions        []string
	URL            string
	AmericanOdds   int
	DecimalOdds    decimal.Decimal
}

// BestPrices maps each outcome of a market to the quote with the highest
// decimal odds seen during one event+market pass. Ties are broken in favour of
// the first quote ingested.
type BestPrices map[OutcomeKey]OutcomeQuote
