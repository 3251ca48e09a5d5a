package contracts

// OptionType identifies one side of an option chain row
type OptionType string

const (
	OptionCall OptionType = "CE"
	OptionPut  OptionType = "PE"
)

// =============================================================================
// Raw chain snapshot (broker wire format)
// =============================================================================

// RawStrikeRecord is one strike of the broker option chain response.
// Field names and units match the Upstox /option/chain payload and are the
// stable interchange schema; do not rename.
type RawStrikeRecord struct {
	Expiry              string      `json:"expiry"`
	PCR                 float64     `json:"pcr"`
	StrikePrice         float64     `json:"strike_price"`
	UnderlyingKey       string      `json:"underlying_key"`
	UnderlyingSpotPrice float64     `json:"underlying_spot_price"`
	CallOptions         *OptionSide `json:"call_options,omitempty"`
	PutOptions          *OptionSide `json:"put_options,omitempty"`
}

// OptionSide is the call or put sub-object of a strike record
type OptionSide struct {
	InstrumentKey string       `json:"instrument_key"`
	MarketData    MarketData   `json:"market_data"`
	OptionGreeks  OptionGreeks `json:"option_greeks"`
}

// MarketData holds per-side quote fields
type MarketData struct {
	LTP        float64 `json:"ltp"`
	ClosePrice float64 `json:"close_price"`
	Volume     int64   `json:"volume"`
	OI         int64   `json:"oi"`
	BidPrice   float64 `json:"bid_price"`
	BidQty     int64   `json:"bid_qty"`
	AskPrice   float64 `json:"ask_price"`
	AskQty     int64   `json:"ask_qty"`
}

// OptionGreeks holds per-side greeks
type OptionGreeks struct {
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Gamma float64 `json:"gamma"`
	Delta float64 `json:"delta"`
	IV    float64 `json:"iv"`
	Rho   float64 `json:"rho"`
}

// Side returns the requested side sub-object, nil when the source omitted it
func (r *RawStrikeRecord) Side(opt OptionType) *OptionSide {
	if opt == OptionCall {
		return r.CallOptions
	}
	return r.PutOptions
}

// =============================================================================
// Normalized chain
// =============================================================================

// SideQuote carries one side's quote, greeks and derived fields of a
// normalized strike row. A missing side is all zero values with an empty
// instrument key.
type SideQuote struct {
	InstrumentKey  string  `json:"instrument_key"`
	LTP            float64 `json:"ltp"`
	IV             float64 `json:"iv"`
	Delta          float64 `json:"delta"`
	Theta          float64 `json:"theta"`
	Vega           float64 `json:"vega"`
	Gamma          float64 `json:"gamma"`
	Rho            float64 `json:"rho"`
	OI             int64   `json:"oi"`
	OIChange       int64   `json:"oi_change"`
	OIChangePct    float64 `json:"oi_change_pct"`
	Volume         int64   `json:"volume"`
	BidAskSpread   float64 `json:"bid_ask_spread"`
	Moneyness      float64 `json:"moneyness"`
	IntrinsicValue float64 `json:"intrinsic_value"`
	TimeValue      float64 `json:"time_value"`
	DaysToExpiry   int     `json:"days_to_expiry"`
}

// StrikeRow is one normalized row of the option chain: both sides' fields
// for a single strike. Rows are built once per snapshot, sorted ascending by
// strike, and immutable after construction.
type StrikeRow struct {
	Strike      float64   `json:"strike"`
	Call        SideQuote `json:"call"`
	Put         SideQuote `json:"put"`
	StrikePCR   float64   `json:"strike_pcr"`
	OISkew      float64   `json:"oi_skew"`
	IVSkewSlope float64   `json:"iv_skew_slope"`
}

// Quote returns the side quote for the given option type
func (r *StrikeRow) Quote(opt OptionType) *SideQuote {
	if opt == OptionCall {
		return &r.Call
	}
	return &r.Put
}

// =============================================================================
// Aggregate metrics
// =============================================================================

// AggregateMetrics summarizes a normalized chain snapshot.
// Recomputing over the same rows yields an identical value.
type AggregateMetrics struct {
	SpotPrice     float64 `json:"spot_price"`
	PCR           float64 `json:"pcr"`
	ATMStrike     float64 `json:"atm_strike"`
	StraddlePrice float64 `json:"straddle_price"`
	ATMIV         float64 `json:"atm_iv"`
	MaxPain       float64 `json:"max_pain"`
	TotalCallOI   int64   `json:"total_call_oi"`
	TotalPutOI    int64   `json:"total_put_oi"`
}
