package regime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

func TestClassifyQuietMarket(t *testing.T) {
	c := NewClassifier(logger.NewNop())

	result := c.Classify(contracts.RegimeInput{
		IVP: 30, VIX: 11, PCR: 0.8, FIINet: 500,
		EventImpact: 0.1, RealizedVol: 8, IVSkewSlope: 0.1,
	})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, contracts.RegimeLowVolatility, result.Regime)
	assert.Empty(t, result.Explanation)
}

func TestClassifyModerateVolatility(t *testing.T) {
	c := NewClassifier(logger.NewNop())

	// IVP 75 adds 3, VIX 22 adds 3, neutral PCR 1.0 adds 1
	result := c.Classify(contracts.RegimeInput{
		IVP: 75, VIX: 22, PCR: 1.0,
	})

	assert.Equal(t, 7, result.Score)
	assert.Equal(t, contracts.RegimeTrendFollowing, result.Regime)
	assert.Len(t, result.Explanation, 3)
}

func TestClassifyEventDriven(t *testing.T) {
	c := NewClassifier(logger.NewNop())

	result := c.Classify(contracts.RegimeInput{
		IVP: 80, VIX: 25, PCR: 1.8, FIINet: -5000,
		EventImpact: 0.9, RealizedVol: 25, IVSkewSlope: 1.0,
	})

	assert.Equal(t, 18, result.Score)
	assert.Equal(t, contracts.RegimeHighVolatility, result.Regime)
	assert.Len(t, result.Explanation, 7)
}

func TestClassifyUncertain(t *testing.T) {
	c := NewClassifier(logger.NewNop())

	// VIX 15 adds 2, neutral PCR adds 1: score 3
	result := c.Classify(contracts.RegimeInput{
		VIX: 15, PCR: 1.0,
	})

	assert.Equal(t, 3, result.Score)
	assert.Equal(t, contracts.RegimeUncertain, result.Regime)
}

func TestClassifyIndicatorBands(t *testing.T) {
	c := NewClassifier(logger.NewNop())

	tests := []struct {
		name  string
		input contracts.RegimeInput
		want  int
	}{
		{"ivp upper band", contracts.RegimeInput{IVP: 71}, 3},
		{"ivp lower band", contracts.RegimeInput{IVP: 51}, 2},
		{"ivp boundary excluded", contracts.RegimeInput{IVP: 50}, 0},
		{"vix upper band", contracts.RegimeInput{VIX: 20.5}, 3},
		{"vix lower band", contracts.RegimeInput{VIX: 14.5}, 2},
		{"pcr very bullish", contracts.RegimeInput{PCR: 1.6}, 2},
		{"pcr very bearish", contracts.RegimeInput{PCR: 0.6}, 2},
		{"pcr neutral inclusive low", contracts.RegimeInput{PCR: 0.9}, 1},
		{"pcr neutral inclusive high", contracts.RegimeInput{PCR: 1.1}, 1},
		{"pcr outside all bands", contracts.RegimeInput{PCR: 1.2}, 0},
		{"fii long", contracts.RegimeInput{PCR: 0.8, FIINet: 2500}, 2},
		{"fii short", contracts.RegimeInput{PCR: 0.8, FIINet: -1500}, 2},
		{"event high", contracts.RegimeInput{PCR: 0.8, EventImpact: 0.8}, 3},
		{"event moderate", contracts.RegimeInput{PCR: 0.8, EventImpact: 0.5}, 1},
		{"rvol high", contracts.RegimeInput{PCR: 0.8, RealizedVol: 21}, 3},
		{"rvol elevated", contracts.RegimeInput{PCR: 0.8, RealizedVol: 16}, 1},
		{"skew steep", contracts.RegimeInput{PCR: 0.8, IVSkewSlope: 0.8}, 2},
		{"skew negative", contracts.RegimeInput{PCR: 0.8, IVSkewSlope: -0.4}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(tt.input)
			assert.Equal(t, tt.want, result.Score)
		})
	}
}

func TestClassifyExplanationOrder(t *testing.T) {
	c := NewClassifier(logger.NewNop())

	result := c.Classify(contracts.RegimeInput{
		IVP: 75, VIX: 22, PCR: 1.0, RealizedVol: 22,
	})

	assert.Equal(t, []string{
		"Very high IVP (>70%) indicates high option premiums.",
		"High VIX (>20) suggests significant market fear.",
		"Neutral PCR (1).",
		"Very high realized volatility (>20%) indicates sharp price swings.",
	}, result.Explanation)
}
