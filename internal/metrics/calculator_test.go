package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

func row(strike float64, callOI, putOI int64, callLTP, putLTP, callIV, putIV float64) contracts.StrikeRow {
	return contracts.StrikeRow{
		Strike: strike,
		Call: contracts.SideQuote{
			OI:  callOI,
			LTP: callLTP,
			IV:  callIV,
		},
		Put: contracts.SideQuote{
			OI:  putOI,
			LTP: putLTP,
			IV:  putIV,
		},
	}
}

func TestComputeEmptyChain(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	m := c.Compute(nil, 22500)

	assert.Equal(t, contracts.AggregateMetrics{}, m)
}

func TestComputePCR(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	rows := []contracts.StrikeRow{
		row(22400, 1000, 3000, 180, 25, 13, 15),
		row(22500, 2000, 3000, 100, 50, 12, 13),
	}

	m := c.Compute(rows, 22510)

	assert.Equal(t, int64(3000), m.TotalCallOI)
	assert.Equal(t, int64(6000), m.TotalPutOI)
	assert.InDelta(t, 2.0, m.PCR, 1e-9)
}

func TestComputePCRZeroCallOI(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	rows := []contracts.StrikeRow{
		row(22500, 0, 4200, 100, 50, 12, 13),
	}

	m := c.Compute(rows, 22510)

	// denominator floors at 1
	assert.InDelta(t, 4200.0, m.PCR, 1e-9)
}

func TestComputeATM(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	rows := []contracts.StrikeRow{
		row(22400, 100, 100, 180, 25, 13, 15),
		row(22500, 100, 100, 100, 50, 12, 14),
		row(22600, 100, 100, 40, 95, 12, 14),
	}

	m := c.Compute(rows, 22510)

	assert.Equal(t, 22500.0, m.ATMStrike)
	assert.InDelta(t, 150.0, m.StraddlePrice, 1e-9)
	assert.InDelta(t, 13.0, m.ATMIV, 1e-9)
}

func TestComputeATMTieLowerStrike(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	rows := []contracts.StrikeRow{
		row(22400, 100, 100, 180, 25, 13, 15),
		row(22500, 100, 100, 100, 50, 12, 14),
	}

	// spot is equidistant from both strikes
	m := c.Compute(rows, 22450)

	assert.Equal(t, 22400.0, m.ATMStrike)
}

func TestComputeMaxPain(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	// Hand-computed: candidate 100 pays 5*10 + 10*20 = 250 (calls above),
	// candidate 110 pays 10*10 (calls) + 10*10 (puts) = 200,
	// candidate 120 pays 10*20 + 5*10 = 250 (puts below). Min at 110.
	rows := []contracts.StrikeRow{
		row(100, 0, 10, 0, 0, 0, 0),
		row(110, 5, 5, 0, 0, 0, 0),
		row(120, 10, 0, 0, 0, 0, 0),
	}

	m := c.Compute(rows, 110)

	assert.Equal(t, 110.0, m.MaxPain)
}

func TestComputeMaxPainTieLowerStrike(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	// Symmetric chain: both strikes produce equal pain, the lower wins
	rows := []contracts.StrikeRow{
		row(100, 10, 10, 0, 0, 0, 0),
		row(110, 10, 10, 0, 0, 0, 0),
	}

	m := c.Compute(rows, 105)

	assert.Equal(t, 100.0, m.MaxPain)
}

func TestComputeIdempotent(t *testing.T) {
	c := NewCalculator(logger.NewNop())

	rows := []contracts.StrikeRow{
		row(22400, 1000, 3000, 180, 25, 13, 15),
		row(22500, 2000, 3000, 100, 50, 12, 14),
		row(22600, 3000, 1000, 40, 95, 12, 14),
	}

	first := c.Compute(rows, 22510)
	second := c.Compute(rows, 22510)

	assert.Equal(t, first, second)
}
