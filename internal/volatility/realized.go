package volatility

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownPeriod means the requested historical-volatility period is not
// one of the supported windows.
var ErrUnknownPeriod = errors.New("unknown volatility period: choose from '7d', '30d', '1y', 'all'")

// Trading days per year used to annualize daily volatility
const annualizationDays = 252

// hvPeriods maps the supported period labels onto rolling window sizes
var hvPeriods = map[string]int{
	"7d":  7,
	"30d": 30,
	"1y":  252,
}

// LogReturns converts a close-price series into daily log returns. Non
// positive prices produce no return for that step.
func LogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	return returns
}

// Realized computes the 7-day realized volatility of a close-price series,
// annualized and expressed in percent. Series too short to carry seven
// returns report 0 rather than failing; the regime classifier treats a zero
// indicator as "no signal".
func Realized(closes []float64) float64 {
	returns := LogReturns(closes)
	if len(returns) < 7 {
		return 0
	}

	last7 := returns[len(returns)-7:]
	vol := stddev(last7) * math.Sqrt(annualizationDays) * 100
	if math.IsNaN(vol) {
		return 0
	}
	return vol
}

// RollingHV computes the trailing historical volatility over the given
// window: the standard deviation of the last `window` log returns,
// annualized, in percent, rounded to 2 decimal places. A series shorter
// than the window reports 0.
func RollingHV(closes []float64, window int) float64 {
	returns := LogReturns(closes)
	if len(returns) < window {
		return 0
	}

	vol := stddev(returns[len(returns)-window:]) * math.Sqrt(annualizationDays) * 100
	return math.Round(vol*100) / 100
}

// Historical computes historical volatility for the requested period label.
// "all" returns every supported window keyed as hv_7d, hv_30d and hv_1y;
// a single label returns just its own key.
func Historical(closes []float64, period string) (map[string]float64, error) {
	if period == "all" {
		results := make(map[string]float64, len(hvPeriods))
		for label, window := range hvPeriods {
			results[fmt.Sprintf("hv_%s", label)] = RollingHV(closes, window)
		}
		return results, nil
	}

	window, ok := hvPeriods[period]
	if !ok {
		return nil, ErrUnknownPeriod
	}

	return map[string]float64{
		fmt.Sprintf("hv_%s", period): RollingHV(closes, window),
	}, nil
}

// stddev is the sample standard deviation (n-1 denominator)
func stddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
