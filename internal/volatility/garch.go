package volatility

import (
	"errors"
	"math"
	"time"
)

// ErrInsufficientData means the price series is too short to fit a GARCH model
var ErrInsufficientData = errors.New("not enough historical data to fit GARCH model")

// Forecast is one day of the GARCH volatility forecast, annualized percent
type Forecast struct {
	Date       string  `json:"date"`
	Volatility float64 `json:"forecast_volatility"`
}

// garchParams are the GARCH(1,1) coefficients: sigma2[t] = omega +
// alpha*eps2[t-1] + beta*sigma2[t-1]
type garchParams struct {
	omega float64
	alpha float64
	beta  float64
}

// ForecastGARCH fits a GARCH(1,1) model on the percent log returns of the
// close series and forecasts annualized volatility for the next `horizon`
// business days after lastDate. Parameters are fitted by maximum likelihood
// over a coarse coefficient grid, which is accurate enough for daily index
// returns and keeps the fit dependency-free and deterministic.
func ForecastGARCH(closes []float64, lastDate time.Time, horizon int) ([]Forecast, error) {
	returns := LogReturns(closes)
	if len(returns) < 10 {
		return nil, ErrInsufficientData
	}

	// percent returns, matching the scale the model is fitted on
	r := make([]float64, len(returns))
	for i, v := range returns {
		r[i] = v * 100
	}

	params := fitGARCH(r)
	variances := forecastVariance(r, params, horizon)

	forecasts := make([]Forecast, horizon)
	date := lastDate
	for h := 0; h < horizon; h++ {
		date = nextBusinessDay(date)
		vol := math.Sqrt(variances[h]) * math.Sqrt(annualizationDays)
		forecasts[h] = Forecast{
			Date:       date.Format("2006-01-02"),
			Volatility: math.Round(vol*100) / 100,
		}
	}
	return forecasts, nil
}

// fitGARCH maximizes the Gaussian log-likelihood over a grid of (alpha, beta)
// pairs, with omega tied to the sample variance through the stationarity
// condition omega = var*(1-alpha-beta).
func fitGARCH(r []float64) garchParams {
	sampleVar := variance(r)

	best := garchParams{omega: sampleVar * 0.1, alpha: 0.05, beta: 0.85}
	bestLL := math.Inf(-1)

	for alpha := 0.01; alpha <= 0.30; alpha += 0.01 {
		for beta := 0.50; beta <= 0.98; beta += 0.01 {
			if alpha+beta >= 0.999 {
				continue
			}
			p := garchParams{
				omega: sampleVar * (1 - alpha - beta),
				alpha: alpha,
				beta:  beta,
			}
			if ll := logLikelihood(r, p); ll > bestLL {
				bestLL = ll
				best = p
			}
		}
	}
	return best
}

// logLikelihood is the Gaussian GARCH(1,1) log-likelihood, constant terms
// dropped. The recursion seeds sigma2 with the sample variance.
func logLikelihood(r []float64, p garchParams) float64 {
	sigma2 := variance(r)
	var ll float64
	for _, ret := range r {
		if sigma2 <= 0 {
			return math.Inf(-1)
		}
		ll -= math.Log(sigma2) + ret*ret/sigma2
		sigma2 = p.omega + p.alpha*ret*ret + p.beta*sigma2
	}
	return ll
}

// forecastVariance runs the fitted recursion through the sample and projects
// `horizon` steps ahead. Beyond one step the expected squared shock equals
// the forecast variance, so the recursion collapses to omega +
// (alpha+beta)*previous.
func forecastVariance(r []float64, p garchParams, horizon int) []float64 {
	sigma2 := variance(r)
	for _, ret := range r {
		sigma2 = p.omega + p.alpha*ret*ret + p.beta*sigma2
	}

	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		out[h] = sigma2
		sigma2 = p.omega + (p.alpha+p.beta)*sigma2
	}
	return out
}

func variance(values []float64) float64 {
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
	return ss / float64(n-1)
}

// nextBusinessDay skips Saturdays and Sundays
func nextBusinessDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
