package chain

import (
	"math"
	"sort"
	"time"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/internal/metrics"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// Normalizer converts a raw per-strike chain snapshot into the flat,
// strike-indexed row table the rest of the pipeline consumes. All
// zero-defaulting for missing sides and fields happens here, once, at the
// boundary.
type Normalizer struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewNormalizer creates a new chain normalizer
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{
		logger: log,
		now:    time.Now,
	}
}

// Normalize builds one row per distinct strike, sorted ascending, and runs
// the tracker's OI delta pass over the fresh rows. A missing call or put
// side defaults its fields to zero. An empty snapshot returns an empty row
// set and zero spot; callers must treat that as "no data", not an error.
func (n *Normalizer) Normalize(records []contracts.RawStrikeRecord, tracker *Tracker) ([]contracts.StrikeRow, float64) {
	if len(records) == 0 {
		return nil, 0
	}

	// Spot comes from the first record that carries it
	var spot float64
	for i := range records {
		if records[i].UnderlyingSpotPrice > 0 {
			spot = records[i].UnderlyingSpotPrice
			break
		}
	}

	// One record per distinct strike; the first occurrence wins
	byStrike := make(map[float64]*contracts.RawStrikeRecord, len(records))
	strikes := make([]float64, 0, len(records))
	for i := range records {
		k := records[i].StrikePrice
		if _, seen := byStrike[k]; seen {
			continue
		}
		byStrike[k] = &records[i]
		strikes = append(strikes, k)
	}
	sort.Float64s(strikes)

	today := dateOnly(n.now())

	rows := make([]contracts.StrikeRow, 0, len(strikes))
	for _, strike := range strikes {
		rec := byStrike[strike]
		days := daysToExpiry(rec.Expiry, today)

		row := contracts.StrikeRow{
			Strike: strike,
			Call:   sideQuote(rec.CallOptions, contracts.OptionCall, strike, spot, days),
			Put:    sideQuote(rec.PutOptions, contracts.OptionPut, strike, spot, days),
		}

		callOI := row.Call.OI
		if callOI == 0 {
			callOI = 1
		}
		row.StrikePCR = float64(row.Put.OI) / float64(callOI)

		rows = append(rows, row)
	}

	if tracker != nil {
		tracker.Apply(rows)
	}

	metrics.ApplySkew(rows)

	return rows, spot
}

// sideQuote flattens one side sub-object into a SideQuote. A nil side is all
// zero values with an empty instrument key - never an error.
func sideQuote(side *contracts.OptionSide, opt contracts.OptionType, strike, spot float64, days int) contracts.SideQuote {
	if side == nil {
		return contracts.SideQuote{}
	}

	md := side.MarketData
	greeks := side.OptionGreeks

	var intrinsic float64
	if opt == contracts.OptionCall {
		intrinsic = math.Max(0, spot-strike)
	} else {
		intrinsic = math.Max(0, strike-spot)
	}

	var moneyness float64
	if spot > 0 {
		moneyness = strike / spot
	}

	return contracts.SideQuote{
		InstrumentKey:  side.InstrumentKey,
		LTP:            md.LTP,
		IV:             greeks.IV,
		Delta:          greeks.Delta,
		Theta:          greeks.Theta,
		Vega:           greeks.Vega,
		Gamma:          greeks.Gamma,
		Rho:            greeks.Rho,
		OI:             md.OI,
		Volume:         md.Volume,
		BidAskSpread:   md.AskPrice - md.BidPrice,
		Moneyness:      moneyness,
		IntrinsicValue: intrinsic,
		TimeValue:      md.LTP - intrinsic,
		DaysToExpiry:   days,
	}
}

// daysToExpiry returns the calendar days between today and the expiry date,
// 0 when the expiry is absent or unparseable
func daysToExpiry(expiry string, today time.Time) int {
	if expiry == "" {
		return 0
	}

	exp, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return 0
	}

	return int(exp.Sub(today).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
