package backtest

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/shritish20/Volguard-4/internal/contracts"
)

// mockChain generates a synthetic 9-strike chain around the day's spot:
// intrinsic value plus a randomized extrinsic component that is richer near
// the money. The rows feed the same leg builder as live chains.
func mockChain(rng *rand.Rand, date time.Time, spot float64) []contracts.StrikeRow {
	atm := math.Round(spot/50) * 50
	stamp := date.Format("20060102")

	rows := make([]contracts.StrikeRow, 0, 9)
	for offset := -200.0; offset <= 200; offset += 50 {
		strike := atm + offset

		rows = append(rows, contracts.StrikeRow{
			Strike: strike,
			Call: contracts.SideQuote{
				InstrumentKey: fmt.Sprintf("NSE_FO|NIFTY|%sCE%.0f", stamp, strike),
				LTP:           math.Max(0, spot-strike) + extrinsic(rng, strike, spot),
			},
			Put: contracts.SideQuote{
				InstrumentKey: fmt.Sprintf("NSE_FO|NIFTY|%sPE%.0f", stamp, strike),
				LTP:           math.Max(0, strike-spot) + extrinsic(rng, strike, spot),
			},
		})
	}
	return rows
}

// extrinsic simulates time value: 5-25 points near the money, 1-10 further out
func extrinsic(rng *rand.Rand, strike, spot float64) float64 {
	if math.Abs(strike-spot) < 100 {
		return uniform(rng, 5, 25)
	}
	return uniform(rng, 1, 10)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
