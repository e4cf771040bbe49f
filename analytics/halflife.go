package analytics

import (
	"math"

	"pairs-analytics-go/market"
)

// HalfLife estimates the mean-reversion speed of a spread from an AR(1) fit
// of its first differences on the de-meaned lagged level:
//
//	d(s)_t = beta*s_{t-1} + e_t
//
// A beta >= 0 means the spread is not mean-reverting (or explosive) and the
// half-life is undefined; ok is false in that case. Otherwise the half-life
// is -ln(2)/beta in units of the input spacing (seconds at 1-second bars).
func HalfLife(spread market.Series) (float64, bool) {
	return HalfLifeValues(spread.Values())
}

// HalfLifeValues is HalfLife on a bare float slice.
func HalfLifeValues(values []float64) (float64, bool) {
	v := make([]float64, 0, len(values))
	for _, x := range values {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			v = append(v, x)
		}
	}
	if len(v) < 3 {
		return 0, false
	}

	lag := v[:len(v)-1]
	delta := make([]float64, len(v)-1)
	for i := 0; i < len(v)-1; i++ {
		delta[i] = v[i+1] - v[i]
	}

	varLag := sampleVar(lag)
	if varLag == 0 {
		return 0, false
	}
	beta := sampleCov(lag, delta) / varLag
	if beta >= 0 {
		return 0, false
	}
	return -math.Ln2 / beta, true
}
