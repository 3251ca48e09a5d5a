package metrics

import (
	"math"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// Calculator computes aggregate option chain metrics: PCR, ATM data and
// max pain. It is a pure consumer of normalized rows.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new metrics calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// Compute calculates aggregate metrics over a normalized chain.
// An empty row set yields zero-valued metrics, not an error: the dashboard
// consumer prefers degraded data over a hard failure.
func (c *Calculator) Compute(rows []contracts.StrikeRow, spot float64) (m contracts.AggregateMetrics) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("Metrics calculation failed, returning zero metrics")
			m = contracts.AggregateMetrics{}
		}
	}()

	if len(rows) == 0 {
		return contracts.AggregateMetrics{}
	}

	var callOI, putOI int64
	for i := range rows {
		callOI += rows[i].Call.OI
		putOI += rows[i].Put.OI
	}

	m.SpotPrice = spot
	m.TotalCallOI = callOI
	m.TotalPutOI = putOI

	// PCR floors the denominator at 1 so a chain with zero call OI reports
	// total put OI instead of dividing by zero.
	denom := callOI
	if denom == 0 {
		denom = 1
	}
	m.PCR = float64(putOI) / float64(denom)

	atm := atmIndex(rows, spot)
	m.ATMStrike = rows[atm].Strike
	m.StraddlePrice = rows[atm].Call.LTP + rows[atm].Put.LTP
	m.ATMIV = (rows[atm].Call.IV + rows[atm].Put.IV) / 2

	m.MaxPain = maxPain(rows)

	return m
}

// atmIndex returns the index of the strike closest to spot.
// Rows are sorted ascending, so the first minimal distance wins and an
// exact tie resolves to the lower strike.
func atmIndex(rows []contracts.StrikeRow, spot float64) int {
	best := 0
	bestDist := math.Abs(rows[0].Strike - spot)
	for i := 1; i < len(rows); i++ {
		if d := math.Abs(rows[i].Strike - spot); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// maxPain returns the strike minimizing total loss to option writers if the
// underlying settled there: for candidate C, calls above C pay (S-C)*OI and
// puts below C pay (C-S)*OI. Brute force is fine, chains are tens of strikes.
// Strict comparison keeps the first (lowest) strike on a tie.
func maxPain(rows []contracts.StrikeRow) float64 {
	minPain := math.Inf(1)
	pain := rows[0].Strike

	for i := range rows {
		candidate := rows[i].Strike
		var total float64

		for j := range rows {
			s := rows[j].Strike
			if s > candidate {
				total += float64(rows[j].Call.OI) * (s - candidate)
			} else if s < candidate {
				total += float64(rows[j].Put.OI) * (candidate - s)
			}
		}

		if total < minPain {
			minPain = total
			pain = candidate
		}
	}

	return pain
}
