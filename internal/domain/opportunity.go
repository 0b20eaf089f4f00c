package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recommendation is one leg of an arbitrage stake plan: which bookmaker to
// bet with, at what odds, for how much.
type Recommendation struct {
	Label          string          `json:"label"`
	BookmakerKey   string          `json:"bookmaker_key"`
	BookmakerTitle string          `json:"bookmaker_title"`
	Regions        []string        `json:"regions"`
	AmericanOdds   int             `json:"american_odds"`
	DecimalOdds    decimal.Decimal `json:"decimal_odds"`
	Stake          decimal.Decimal `json:"stake"`
	Point          *float64        `json:"point,omitempty"`
	URL            string          `json:"url,omitempty"`
}

// Opportunity is a risk-free stake allocation across bookmakers. Payout is the
// minimum of stake*odds over all legs, computed after stake rounding; Edge is
// (Payout-TotalStake)/TotalStake and is strictly positive.
type Opportunity struct {
	Edge            decimal.Decimal            `json:"edge"`
	Payout          decimal.Decimal            `json:"payout"`
	TotalStake      decimal.Decimal            `json:"total_stake"`
	StakePlan       map[string]decimal.Decimal `json:"stake_plan"`
	Recommendations []Recommendation           `json:"recommendations"`
}

// ArbitrageRecord is an Opportunity annotated with the event and market it was
// found on, as recorded in the ledger and published on the signal bus.
type ArbitrageRecord struct {
	ID           string      `json:"id"`
	EventID      string      `json:"event_id"`
	EventName    string      `json:"event_name"`
	SportKey     string      `json:"sport_key"`
	MarketKey    string      `json:"market_key"`
	CommenceTime *time.Time  `json:"commence_time,omitempty"`
	Opportunity  Opportunity `json:"opportunity"`
	DetectedAt   time.Time   `json:"detected_at"`
}
