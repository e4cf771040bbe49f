package analytics

import (
	"math"

	"pairs-analytics-go/market"
)

// Rolling window primitives shared by the z-score, hedge-ratio stability and
// liquidity checks. All emit a value only from the window-th observation on;
// earlier timestamps produce no value at all (dropped, not zeroed).

// RollingMean returns the trailing-window mean of s.
func RollingMean(s market.Series, window int) market.Series {
	return rollingUnary(s, window, func(w []float64) (float64, bool) {
		return mean(w), true
	})
}

// RollingStd returns the trailing-window sample standard deviation of s.
func RollingStd(s market.Series, window int) market.Series {
	return rollingUnary(s, window, func(w []float64) (float64, bool) {
		return sampleStd(w), true
	})
}

// RollingVar returns the trailing-window sample variance of s.
func RollingVar(s market.Series, window int) market.Series {
	return rollingUnary(s, window, func(w []float64) (float64, bool) {
		return sampleVar(w), true
	})
}

// RollingCov returns the trailing-window sample covariance of two series
// already aligned to a common index.
func RollingCov(x, y market.Series, window int) market.Series {
	return rollingBinary(x, y, window, func(wx, wy []float64) (float64, bool) {
		return sampleCov(wx, wy), true
	})
}

// RollingCorr returns the trailing-window correlation of two series already
// aligned to a common index. Windows with zero variance on either side emit
// no value.
func RollingCorr(x, y market.Series, window int) market.Series {
	return rollingBinary(x, y, window, func(wx, wy []float64) (float64, bool) {
		sx, sy := sampleStd(wx), sampleStd(wy)
		if sx == 0 || sy == 0 {
			return 0, false
		}
		return sampleCov(wx, wy) / (sx * sy), true
	})
}

func rollingUnary(s market.Series, window int, f func([]float64) (float64, bool)) market.Series {
	if window <= 0 || len(s) < window {
		return nil
	}
	vals := s.Values()
	out := make(market.Series, 0, len(s)-window+1)
	for i := window - 1; i < len(s); i++ {
		v, ok := f(vals[i-window+1 : i+1])
		if !ok {
			continue
		}
		out = append(out, market.Point{TS: s[i].TS, Value: v})
	}
	return out
}

func rollingBinary(x, y market.Series, window int, f func([]float64, []float64) (float64, bool)) market.Series {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if window <= 0 || n < window {
		return nil
	}
	xv, yv := x.Values(), y.Values()
	out := make(market.Series, 0, n-window+1)
	for i := window - 1; i < n; i++ {
		v, ok := f(xv[i-window+1:i+1], yv[i-window+1:i+1])
		if !ok {
			continue
		}
		out = append(out, market.Point{TS: x[i].TS, Value: v})
	}
	return out
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func sampleVar(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals)-1)
}

func sampleStd(vals []float64) float64 {
	return math.Sqrt(sampleVar(vals))
}

func sampleCov(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	mx, my := mean(x), mean(y)
	sum := 0.0
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x)-1)
}
