package regime

import (
	"fmt"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// Classifier maps market indicators to an additive regime score and a
// discrete label. Indicators contribute independently; each is checked
// against fixed bands and the crossed band adds its points and one
// explanation line.
type Classifier struct {
	logger *logger.Logger
}

// NewClassifier creates a new regime classifier
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{logger: log}
}

// Classify scores the indicator set. Explanations are appended in
// evaluation order: IVP, VIX, PCR, FII flow, event impact, realized
// volatility, IV skew slope.
func (c *Classifier) Classify(in contracts.RegimeInput) contracts.RegimeResult {
	score := 0
	explanation := []string{}

	if in.IVP > 70 {
		score += 3
		explanation = append(explanation, "Very high IVP (>70%) indicates high option premiums.")
	} else if in.IVP > 50 {
		score += 2
		explanation = append(explanation, "High IVP (>50%) indicates elevated option premiums.")
	}

	if in.VIX > 20 {
		score += 3
		explanation = append(explanation, "High VIX (>20) suggests significant market fear.")
	} else if in.VIX > 14 {
		score += 2
		explanation = append(explanation, "Elevated VIX (>14) indicates increased volatility expectations.")
	}

	if in.PCR > 1.5 {
		score += 2
		explanation = append(explanation, fmt.Sprintf("Very bullish PCR (%g).", in.PCR))
	} else if in.PCR < 0.7 {
		score += 2
		explanation = append(explanation, fmt.Sprintf("Very bearish PCR (%g).", in.PCR))
	} else if in.PCR >= 0.9 && in.PCR <= 1.1 {
		score += 1
		explanation = append(explanation, fmt.Sprintf("Neutral PCR (%g).", in.PCR))
	}

	if in.FIINet > 2000 {
		score += 2
		explanation = append(explanation, "Strong FII net long positioning (>2000 Cr).")
	} else if in.FIINet < -1000 {
		score += 2
		explanation = append(explanation, "Strong FII net short positioning (<-1000 Cr).")
	}

	if in.EventImpact > 0.7 {
		score += 3
		explanation = append(explanation, "High event impact score (>0.7) indicates significant potential market moves.")
	} else if in.EventImpact > 0.4 {
		score += 1
		explanation = append(explanation, "Moderate event impact score (>0.4).")
	}

	if in.RealizedVol > 20 {
		score += 3
		explanation = append(explanation, "Very high realized volatility (>20%) indicates sharp price swings.")
	} else if in.RealizedVol > 15 {
		score += 1
		explanation = append(explanation, "High realized volatility (>15%).")
	}

	if in.IVSkewSlope > 0.7 {
		score += 2
		explanation = append(explanation, "Steep IV skew slope (>0.7) suggests bearish sentiment (puts are expensive).")
	} else if in.IVSkewSlope < -0.3 {
		score += 1
		explanation = append(explanation, "Negative IV skew slope (<-0.3) suggests bullish sentiment (calls are expensive).")
	}

	result := contracts.RegimeResult{
		Score:       score,
		Regime:      labelFor(score),
		Explanation: explanation,
	}

	c.logger.WithFields(map[string]interface{}{
		"score":  result.Score,
		"regime": result.Regime,
	}).Debug("Regime classified")

	return result
}

// labelFor maps the total score onto the regime bands. Bands are total-ordered
// on the single integer score so exactly one label applies.
func labelFor(score int) string {
	switch {
	case score >= 10:
		return contracts.RegimeHighVolatility
	case score >= 6:
		return contracts.RegimeTrendFollowing
	case score < 3:
		return contracts.RegimeLowVolatility
	default:
		return contracts.RegimeUncertain
	}
}
