package signal

import (
	"fmt"
	"math"

	"pairs-analytics-go/analytics"
	"pairs-analytics-go/market"
)

// MinPoints is the smallest spread sample a quality grade is computed from.
const MinPoints = 60

const (
	correlationWindow = 50
	hedgeStdWindow    = 20
	minHedgePoints    = 20
	liquidityWindow   = 50
)

// Grade is the composite signal quality.
type Grade string

const (
	GradeLow    Grade = "LOW"
	GradeMedium Grade = "MEDIUM"
	GradeHigh   Grade = "HIGH"
)

// Quality is one evaluation of how trustworthy the pair relationship is.
// Produced fresh per evaluation, never mutated.
type Quality struct {
	Grade            Grade    `json:"quality"`
	Stationary       bool     `json:"stationary"`
	Correlation      *float64 `json:"correlation"`
	CorrelationOK    bool     `json:"correlation_ok"`
	HedgeRatioStable bool     `json:"hedge_ratio_stable"`
	LiquidityOK      bool     `json:"liquidity_ok"`
	ADFPValue        *float64 `json:"adf_p_value,omitempty"`
	HedgeRatioStd    *float64 `json:"hedge_ratio_std"`
	Reason           string   `json:"reason,omitempty"`
	Err              string   `json:"error,omitempty"`
}

// CheckScore counts the true checks (0..4).
func (q Quality) CheckScore() int {
	score := 0
	for _, ok := range []bool{q.Stationary, q.CorrelationOK, q.HedgeRatioStable, q.LiquidityOK} {
		if ok {
			score++
		}
	}
	return score
}

func gradeFor(score int) Grade {
	switch {
	case score >= 3:
		return GradeHigh
	case score == 2:
		return GradeMedium
	default:
		return GradeLow
	}
}

func insufficient() Quality {
	return Quality{Grade: GradeLow, Reason: "Insufficient data"}
}

func degraded(err error) Quality {
	return Quality{Grade: GradeLow, Err: err.Error()}
}

// Score grades the pair relationship from four independent checks:
// spread stationarity (ADF), rolling y/x correlation, hedge-ratio stability
// and current liquidity. Inputs share the resampled common index; volume is
// the per-bar traded size. Any internal computation failure degrades the
// result to LOW with an error annotation instead of propagating a fault.
func Score(spread, y, x, volume, hedgeRatio market.Series) (q Quality) {
	defer func() {
		if r := recover(); r != nil {
			q = degraded(fmt.Errorf("signal quality: %v", r))
		}
	}()

	if countClean(spread) < MinPoints {
		return insufficient()
	}

	// 1. Stationarity.
	adf, err := analytics.ADF(spread)
	if err != nil {
		return degraded(fmt.Errorf("adf: %w", err))
	}
	q.Stationary = adf.Stationary()
	p := adf.PValue
	q.ADFPValue = &p

	// 2. Correlation.
	corrSeries := analytics.RollingCorr(y, x, correlationWindow)
	last, ok := corrSeries.Last()
	if !ok {
		return degraded(fmt.Errorf("correlation: no valid windows"))
	}
	corr := last.Value
	q.Correlation = &corr
	q.CorrelationOK = corr > 0.7

	// 3. Hedge ratio stability.
	hrClean := dropUnclean(hedgeRatio)
	if len(hrClean) >= minHedgePoints {
		stds := analytics.RollingStd(hrClean, hedgeStdWindow)
		if lastStd, ok := stds.Last(); ok {
			v := lastStd.Value
			q.HedgeRatioStd = &v
			q.HedgeRatioStable = v < fullStd(hrClean)*0.5
		}
	}

	// 4. Liquidity: latest traded size above its rolling mean.
	volClean := dropUnclean(volume)
	if avg, ok := analytics.RollingMean(volClean, liquidityWindow).Last(); ok {
		if cur, ok := volClean.Last(); ok {
			q.LiquidityOK = cur.Value > avg.Value
		}
	}

	q.Grade = gradeFor(q.CheckScore())
	return q
}

func countClean(s market.Series) int {
	n := 0
	for _, p := range s {
		if !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) {
			n++
		}
	}
	return n
}

func dropUnclean(s market.Series) market.Series {
	out := make(market.Series, 0, len(s))
	for _, p := range s {
		if !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) {
			out = append(out, p)
		}
	}
	return out
}

func fullStd(s market.Series) float64 {
	if stds := analytics.RollingStd(s, len(s)); len(stds) == 1 {
		return stds[0].Value
	}
	return 0
}
