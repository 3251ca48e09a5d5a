package contracts

// RiskStatus is the gate decision for a proposed trade
type RiskStatus string

const (
	RiskAllow RiskStatus = "ALLOW"
	RiskBlock RiskStatus = "BLOCK"
)

// RiskCheckInput describes a proposed trade to the risk gate
type RiskCheckInput struct {
	Strategy       string  `json:"strategy"`
	MaxLossAllowed float64 `json:"max_loss_allowed"`
	EstimatedLoss  float64 `json:"estimated_loss"`
	DailyPnL       float64 `json:"daily_pnl"`
	MaxDailyLimit  float64 `json:"max_daily_limit"`
	IVRVRatio      float64 `json:"iv_rv_ratio"`
}

// RiskDecision is the gate verdict. A trade may trigger more than one alert;
// the decision is BLOCK if any alert fired.
type RiskDecision struct {
	Status RiskStatus `json:"status"`
	Alerts []string   `json:"alerts"`
}

// Blocked reports whether the gate rejected the trade
func (d *RiskDecision) Blocked() bool {
	return d.Status == RiskBlock
}
