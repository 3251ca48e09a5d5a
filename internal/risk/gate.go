package risk

import (
	"fmt"
	"math"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// Gate evaluates a single proposed trade against absolute and daily loss
// limits. The estimated loss is amplified when implied vol runs above
// realized vol; it is never dampened.
type Gate struct {
	logger *logger.Logger
}

// NewGate creates a new risk gate
func NewGate(log *logger.Logger) *Gate {
	return &Gate{logger: log}
}

// Check runs both limit checks independently. Each failed check appends its
// own alert; the trade is blocked if any alert fired.
func (g *Gate) Check(in contracts.RiskCheckInput) contracts.RiskDecision {
	alerts := []string{}

	factor := 1.0
	if in.IVRVRatio > 1 {
		factor = 1.0 + (in.IVRVRatio-1)*0.5
	}
	adjustedLoss := in.EstimatedLoss * factor

	if adjustedLoss > in.MaxLossAllowed {
		alerts = append(alerts, fmt.Sprintf(
			"Max loss exceeded: Projected loss %.2f > Allowed %.2f",
			adjustedLoss, in.MaxLossAllowed))
	}

	potentialDailyPnL := in.DailyPnL - adjustedLoss
	if potentialDailyPnL < -math.Abs(in.MaxDailyLimit) {
		alerts = append(alerts, fmt.Sprintf(
			"Daily loss limit breached: Current + Projected P&L %.2f < Daily limit -%.2f",
			potentialDailyPnL, in.MaxDailyLimit))
	}

	status := contracts.RiskAllow
	if len(alerts) > 0 {
		status = contracts.RiskBlock

		g.logger.WithFields(map[string]interface{}{
			"strategy":      in.Strategy,
			"adjusted_loss": adjustedLoss,
			"alerts":        len(alerts),
		}).Warn("Trade blocked by risk gate")
	}

	return contracts.RiskDecision{Status: status, Alerts: alerts}
}
