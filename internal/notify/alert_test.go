package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbisport/arbisport/internal/domain"
)

func TestFormatAlert(t *testing.T) {
	commence := time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)
	rec := domain.ArbitrageRecord{
		EventName: "Miami Heat @ Boston Celtics",
		SportKey:  "basketball_nba",
		MarketKey: "h2h",
		CommenceTime: &commence,
		Opportunity: domain.Opportunity{
			Edge:       decimal.RequireFromString("0.0234"),
			Payout:     decimal.RequireFromString("102.34"),
			TotalStake: decimal.NewFromInt(100),
			Recommendations: []domain.Recommendation{
				{Label: "Boston Celtics", BookmakerTitle: "DraftKings", AmericanOdds: -110, Stake: decimal.RequireFromString("52.00")},
				{Label: "Miami Heat", BookmakerTitle: "FanDuel", AmericanOdds: 120, Stake: decimal.RequireFromString("48.00")},
			},
		},
	}

	title, message := FormatAlert(rec)
	if !strings.Contains(title, "2.34%") {
		t.Errorf("title = %q, want edge percentage", title)
	}
	if !strings.Contains(title, "Miami Heat @ Boston Celtics") {
		t.Errorf("title = %q, want event name", title)
	}
	for _, want := range []string{"basketball_nba / h2h", "52.00", "@ -110", "@ +120", "FanDuel", "payout 102.34"} {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q:\n%s", want, message)
		}
	}
}
