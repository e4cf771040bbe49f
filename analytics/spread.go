package analytics

import "pairs-analytics-go/market"

// Spread computes spread_t = y_t - beta*x_t over the timestamp intersection
// of y and x with a static scalar beta.
func Spread(y, x market.Series, beta float64) market.Series {
	ya, xa := market.Align(y, x)
	out := make(market.Series, len(ya))
	for i := range ya {
		out[i] = market.Point{TS: ya[i].TS, Value: ya[i].Value - beta*xa[i].Value}
	}
	return out
}

// SpreadRolling computes the spread pointwise against a rolling beta series;
// the alignment additionally intersects with beta's valid index.
func SpreadRolling(y, x, beta market.Series) market.Series {
	ya, xa, ba := market.Align3(y, x, beta)
	out := make(market.Series, len(ya))
	for i := range ya {
		out[i] = market.Point{TS: ya[i].TS, Value: ya[i].Value - ba[i].Value*xa[i].Value}
	}
	return out
}

// ZScore returns (s - rolling_mean)/rolling_std over a trailing window. A
// series shorter than the window yields an empty result; timestamps with a
// zero rolling std are excluded so neither NaN nor Inf ever surfaces.
func ZScore(s market.Series, window int) market.Series {
	if len(s) < window {
		return nil
	}
	means := RollingMean(s, window)
	stds := RollingStd(s, window)
	tail := s[window-1:]
	out := make(market.Series, 0, len(tail))
	for i := range tail {
		if stds[i].Value == 0 {
			continue
		}
		out = append(out, market.Point{
			TS:    tail[i].TS,
			Value: (tail[i].Value - means[i].Value) / stds[i].Value,
		})
	}
	return out
}
