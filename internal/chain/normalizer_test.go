package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

func testNormalizer(now time.Time) *Normalizer {
	n := NewNormalizer(logger.NewNop())
	n.now = func() time.Time { return now }
	return n
}

func rawRecord(strike, spot float64, expiry string, call, put *contracts.OptionSide) contracts.RawStrikeRecord {
	return contracts.RawStrikeRecord{
		Expiry:              expiry,
		StrikePrice:         strike,
		UnderlyingSpotPrice: spot,
		CallOptions:         call,
		PutOptions:          put,
	}
}

func side(key string, ltp, iv float64, oi int64, bid, ask float64) *contracts.OptionSide {
	return &contracts.OptionSide{
		InstrumentKey: key,
		MarketData: contracts.MarketData{
			LTP:      ltp,
			OI:       oi,
			BidPrice: bid,
			AskPrice: ask,
		},
		OptionGreeks: contracts.OptionGreeks{IV: iv},
	}
}

func TestNormalizeEmpty(t *testing.T) {
	n := testNormalizer(time.Now())

	rows, spot := n.Normalize(nil, NewTracker())

	assert.Empty(t, rows)
	assert.Equal(t, 0.0, spot)
}

func TestNormalizeSortsByStrike(t *testing.T) {
	n := testNormalizer(time.Now())

	records := []contracts.RawStrikeRecord{
		rawRecord(22600, 22550, "2026-09-03", side("C3", 40, 12, 100, 39, 41), side("P3", 95, 14, 100, 94, 96)),
		rawRecord(22400, 22550, "2026-09-03", side("C1", 180, 13, 100, 179, 181), side("P1", 25, 15, 100, 24, 26)),
		rawRecord(22500, 22550, "2026-09-03", side("C2", 100, 12, 100, 99, 101), side("P2", 50, 13, 100, 49, 51)),
	}

	rows, spot := n.Normalize(records, NewTracker())

	require.Len(t, rows, 3)
	assert.Equal(t, 22550.0, spot)
	assert.Equal(t, []float64{22400, 22500, 22600}, []float64{rows[0].Strike, rows[1].Strike, rows[2].Strike})
}

func TestNormalizeDuplicateStrikeFirstWins(t *testing.T) {
	n := testNormalizer(time.Now())

	records := []contracts.RawStrikeRecord{
		rawRecord(22500, 22550, "2026-09-03", side("FIRST", 100, 12, 100, 99, 101), nil),
		rawRecord(22500, 22550, "2026-09-03", side("SECOND", 999, 99, 999, 0, 0), nil),
	}

	rows, _ := n.Normalize(records, NewTracker())

	require.Len(t, rows, 1)
	assert.Equal(t, "FIRST", rows[0].Call.InstrumentKey)
}

func TestNormalizeMissingSideDefaults(t *testing.T) {
	n := testNormalizer(time.Now())

	records := []contracts.RawStrikeRecord{
		rawRecord(22500, 22550, "2026-09-03", side("C", 100, 12, 500, 99, 101), nil),
	}

	rows, _ := n.Normalize(records, NewTracker())

	require.Len(t, rows, 1)
	put := rows[0].Put
	assert.Equal(t, "", put.InstrumentKey)
	assert.Equal(t, 0.0, put.LTP)
	assert.Equal(t, int64(0), put.OI)
	assert.Equal(t, 0.0, put.IV)
}

func TestNormalizeDerivedFields(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	n := testNormalizer(now)

	records := []contracts.RawStrikeRecord{
		rawRecord(22400, 22550, "2026-09-03",
			side("C", 180, 13, 100, 179, 181.5),
			side("P", 25, 15, 100, 24, 26)),
	}

	rows, _ := n.Normalize(records, NewTracker())
	require.Len(t, rows, 1)

	call := rows[0].Call
	assert.InDelta(t, 22400.0/22550.0, call.Moneyness, 1e-9)
	assert.InDelta(t, 150.0, call.IntrinsicValue, 1e-9) // spot 22550 - strike 22400
	assert.InDelta(t, 30.0, call.TimeValue, 1e-9)
	assert.InDelta(t, 2.5, call.BidAskSpread, 1e-9)
	assert.Equal(t, 7, call.DaysToExpiry)

	put := rows[0].Put
	assert.InDelta(t, 0.0, put.IntrinsicValue, 1e-9)
	assert.InDelta(t, 25.0, put.TimeValue, 1e-9)
}

func TestNormalizeBadExpiry(t *testing.T) {
	n := testNormalizer(time.Now())

	records := []contracts.RawStrikeRecord{
		rawRecord(22500, 22550, "not-a-date", side("C", 100, 12, 100, 99, 101), nil),
	}

	rows, _ := n.Normalize(records, NewTracker())

	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Call.DaysToExpiry)
}

func TestNormalizeStrikePCR(t *testing.T) {
	n := testNormalizer(time.Now())

	records := []contracts.RawStrikeRecord{
		rawRecord(22500, 22550, "2026-09-03",
			side("C", 100, 12, 400, 99, 101),
			side("P", 50, 13, 1000, 49, 51)),
		// zero call OI must not divide by zero
		rawRecord(22600, 22550, "2026-09-03",
			side("C", 40, 12, 0, 39, 41),
			side("P", 95, 14, 500, 94, 96)),
	}

	rows, _ := n.Normalize(records, NewTracker())
	require.Len(t, rows, 2)

	assert.InDelta(t, 2.5, rows[0].StrikePCR, 1e-9)
	assert.InDelta(t, 500.0, rows[1].StrikePCR, 1e-9)
}

func TestNormalizeTracksOIAcrossSnapshots(t *testing.T) {
	n := testNormalizer(time.Now())
	tracker := NewTracker()

	first := []contracts.RawStrikeRecord{
		rawRecord(22500, 22550, "2026-09-03", side("C", 100, 12, 1000, 99, 101), side("P", 50, 13, 2000, 49, 51)),
	}
	rows, _ := n.Normalize(first, tracker)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].Call.OIChange)

	second := []contracts.RawStrikeRecord{
		rawRecord(22500, 22550, "2026-09-03", side("C", 100, 12, 1200, 99, 101), side("P", 50, 13, 1500, 49, 51)),
	}
	rows, _ = n.Normalize(second, tracker)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(200), rows[0].Call.OIChange)
	assert.InDelta(t, 20.0, rows[0].Call.OIChangePct, 1e-9)
	assert.Equal(t, int64(-500), rows[0].Put.OIChange)
	assert.InDelta(t, -25.0, rows[0].Put.OIChangePct, 1e-9)
}
