package analytics

import "pairs-analytics-go/market"

// minHedgeObservations is the smallest paired sample a static hedge ratio is
// estimated from; below it the estimator reports the neutral, non-trading 0.
const minHedgeObservations = 10

// HedgeRatio computes the static OLS beta of y on x (Cov(x,y)/Var(x)) over
// the full aligned sample. Inputs must be pre-aligned to a common index.
// Fewer than minHedgeObservations paired points, or a zero-variance x, yield
// 0.0 so no infinity propagates into the spread or the stationarity test.
func HedgeRatio(x, y market.Series) float64 {
	n := min(len(x), len(y))
	if n < minHedgeObservations {
		return 0.0
	}
	xv, yv := x.Values()[:n], y.Values()[:n]
	v := sampleVar(xv)
	if v == 0 {
		return 0.0
	}
	return sampleCov(xv, yv) / v
}

// RollingHedgeRatio computes beta_t = Cov(x,y)/Var(x) over a trailing window.
// Timestamps with fewer than window observations, or a zero-variance window,
// are absent from the result.
func RollingHedgeRatio(x, y market.Series, window int) market.Series {
	return rollingBinary(x, y, window, func(wx, wy []float64) (float64, bool) {
		v := sampleVar(wx)
		if v == 0 {
			return 0, false
		}
		return sampleCov(wx, wy) / v, true
	})
}
