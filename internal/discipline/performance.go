package discipline

import (
	"math"

	"github.com/shritish20/Volguard-4/internal/contracts"
)

// Performance aggregates the full trade history into summary statistics.
// Currency amounts are rounded to 2 decimal places for presentation.
func Performance(trades []contracts.TradeRecord) contracts.PerformanceReport {
	total := len(trades)
	if total == 0 {
		return contracts.PerformanceReport{}
	}

	var totalPnL, regimeSum float64
	winning, losing := 0, 0
	for _, t := range trades {
		totalPnL += t.PnL
		regimeSum += t.RegimeScore
		if t.PnL > 0 {
			winning++
		} else if t.PnL < 0 {
			losing++
		}
	}

	return contracts.PerformanceReport{
		TotalTrades:    total,
		TotalPnL:       round2(totalPnL),
		AvgRegimeScore: round2(regimeSum / float64(total)),
		WinningTrades:  winning,
		LosingTrades:   losing,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
