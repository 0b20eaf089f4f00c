// Package arbitrage implements the numeric core of the scanner: american odds
// conversion, best-price selection across bookmakers, and arbitrage detection
// with stake allocation. All arithmetic uses decimal values; stake rounding
// and edge-threshold comparisons are too sensitive for binary floating point.
package arbitrage

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arbisport/arbisport/internal/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// AmericanToDecimal converts american odds to decimal odds. Positive odds a
// map to 1 + a/100, negative odds to 1 + 100/|a|. Zero is not a valid
// american price and returns domain.ErrInvalidOdds. The result is always
// strictly greater than 1.
func AmericanToDecimal(american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: american odds cannot be zero", domain.ErrInvalidOdds)
	}
	if american > 0 {
		return decimal.NewFromInt(int64(american)).Div(hundred).Add(one), nil
	}
	return hundred.Div(decimal.NewFromInt(int64(-american))).Add(one), nil
}

// ImpliedProbability returns 1/decimalOdds for the given american odds.
func ImpliedProbability(american int) (decimal.Decimal, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return one.Div(dec), nil
}
