package arbitrage

import (
	"testing"

	"github.com/arbisport/arbisport/internal/domain"
)

func quote(t *testing.T, name, book string, american int) domain.OutcomeQuote {
	t.Helper()
	dec, err := AmericanToDecimal(american)
	if err != nil {
		t.Fatalf("AmericanToDecimal(%d): %v", american, err)
	}
	return domain.OutcomeQuote{
		Outcome:      domain.OutcomeKey{Name: name},
		BookmakerKey: book,
		AmericanOdds: american,
		DecimalOdds:  dec,
	}
}

func TestSelectBestPricesKeepsHighestOdds(t *testing.T) {
	best := SelectBestPrices([]domain.OutcomeQuote{
		quote(t, "Home", "book_a", -110),
		quote(t, "Home", "book_b", 105),
		quote(t, "Away", "book_a", 120),
		quote(t, "Away", "book_b", 110),
	})

	if len(best) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(best))
	}
	if got := best[domain.OutcomeKey{Name: "Home"}]; got.BookmakerKey != "book_b" {
		t.Errorf("Home best book = %s, want book_b", got.BookmakerKey)
	}
	if got := best[domain.OutcomeKey{Name: "Away"}]; got.BookmakerKey != "book_a" {
		t.Errorf("Away best book = %s, want book_a", got.BookmakerKey)
	}
}

func TestSelectBestPricesFirstSeenWinsTies(t *testing.T) {
	best := SelectBestPrices([]domain.OutcomeQuote{
		quote(t, "Home", "book_a", 110),
		quote(t, "Home", "book_b", 110),
	})

	if got := best[domain.OutcomeKey{Name: "Home"}]; got.BookmakerKey != "book_a" {
		t.Errorf("tie broken to %s, want first-seen book_a", got.BookmakerKey)
	}
}

func TestSelectBestPricesSeparatesPoints(t *testing.T) {
	withPoint := quote(t, "Over", "book_a", -105)
	withPoint.Outcome = domain.OutcomeKey{Name: "Over", Point: 44.5, HasPoint: true}
	otherPoint := quote(t, "Over", "book_b", -115)
	otherPoint.Outcome = domain.OutcomeKey{Name: "Over", Point: 45.5, HasPoint: true}

	best := SelectBestPrices([]domain.OutcomeQuote{withPoint, otherPoint})
	if len(best) != 2 {
		t.Fatalf("got %d outcomes, want 2 (points split outcomes)", len(best))
	}
}
