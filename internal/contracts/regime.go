package contracts

// RegimeInput carries the seven market indicators consumed by the regime
// classifier. Volatility and flow indicators are supplied by external
// services; PCR and IV-skew-slope come from the chain metrics.
type RegimeInput struct {
	IVP         float64 `json:"ivp"`
	PCR         float64 `json:"pcr"`
	VIX         float64 `json:"vix"`
	FIINet      float64 `json:"fii_net"`
	EventImpact float64 `json:"event_impact"`
	RealizedVol float64 `json:"realized_vol"`
	IVSkewSlope float64 `json:"iv_skew_slope"`
}

// RegimeResult is the classifier output: additive score, discrete label and
// one explanation per indicator band crossed, in evaluation order.
type RegimeResult struct {
	Score       int      `json:"regime_score"`
	Regime      string   `json:"regime"`
	Explanation []string `json:"explanation"`
}

// Regime labels, ordered by score band
const (
	RegimeHighVolatility = "High Volatility/Event Driven"
	RegimeTrendFollowing = "Trend-Following/Moderate Volatility"
	RegimeLowVolatility  = "Low Volatility/Range-Bound"
	RegimeUncertain      = "Uncertain/Volatile"
)
