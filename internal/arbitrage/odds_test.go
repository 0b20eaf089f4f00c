package arbitrage

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arbisport/arbisport/internal/domain"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     string
	}{
		{"plus 110", 110, "2.1"},
		{"plus 100", 100, "2"},
		{"plus 250", 250, "3.5"},
		{"minus 200", -200, "1.5"},
		{"minus 110", -110, "1.9090909090909091"},
		{"minus 101", -101, "1.9900990099009901"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("AmericanToDecimal(%d): unexpected error: %v", tt.american, err)
			}
			if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
				t.Errorf("AmericanToDecimal(%d) = %s, want %s", tt.american, got, want)
			}
		})
	}
}

func TestAmericanToDecimalAlwaysAboveOne(t *testing.T) {
	for _, american := range []int{1, -1, 100, -100, 99999, -99999, 7, -350} {
		got, err := AmericanToDecimal(american)
		if err != nil {
			t.Fatalf("AmericanToDecimal(%d): unexpected error: %v", american, err)
		}
		if !got.GreaterThan(decimal.NewFromInt(1)) {
			t.Errorf("AmericanToDecimal(%d) = %s, want > 1", american, got)
		}
	}
}

func TestAmericanToDecimalRejectsZero(t *testing.T) {
	if _, err := AmericanToDecimal(0); !errors.Is(err, domain.ErrInvalidOdds) {
		t.Fatalf("AmericanToDecimal(0) error = %v, want ErrInvalidOdds", err)
	}
}

func TestImpliedProbability(t *testing.T) {
	got, err := ImpliedProbability(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.RequireFromString("0.5"); !got.Equal(want) {
		t.Errorf("ImpliedProbability(100) = %s, want %s", got, want)
	}
}
