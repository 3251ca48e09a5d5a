package discipline

import (
	"fmt"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// Scorer audits a closed-trade history for risk-control violations and
// condenses it into a 0-100 discipline score. Checks are independent and
// their deductions combine; the score floors at 0.
type Scorer struct {
	logger *logger.Logger
}

// NewScorer creates a new discipline scorer
func NewScorer(log *logger.Logger) *Scorer {
	return &Scorer{logger: log}
}

// Score runs the three discipline checks over the full history. An empty
// history is a perfect score.
func (s *Scorer) Score(trades []contracts.TradeRecord) contracts.DisciplineReport {
	if len(trades) == 0 {
		return contracts.DisciplineReport{Score: 100, Violations: []string{}}
	}

	total := len(trades)
	violations := []string{}
	score := 100

	highRisk := 0
	losing := 0
	dailyTrades := make(map[string]int)
	for _, t := range trades {
		if t.RegimeScore < 3 {
			highRisk++
		}
		if t.PnL < 0 {
			losing++
		}
		dailyTrades[t.Timestamp.Format("2006-01-02")]++
	}

	if float64(highRisk)/float64(total) > 0.2 {
		violations = append(violations, "Too many high-risk trades (low regime score)")
		score -= 20
	}

	overtradingDays := 0
	for _, count := range dailyTrades {
		if count > 3 {
			overtradingDays++
		}
	}
	if overtradingDays > 0 {
		violations = append(violations, fmt.Sprintf("Overtrading on %d days (>3 trades/day)", overtradingDays))
		score -= 10 * overtradingDays
	}

	if float64(losing)/float64(total) > 0.5 {
		violations = append(violations, "More than 50% trades are losing")
		score -= 20
	}

	if score < 0 {
		score = 0
	}

	s.logger.WithFields(map[string]interface{}{
		"trades":     total,
		"score":      score,
		"violations": len(violations),
	}).Debug("Discipline score computed")

	return contracts.DisciplineReport{Score: score, Violations: violations}
}
