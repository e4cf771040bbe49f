package signal

import (
	"math"

	"pairs-analytics-go/market"
)

// DefaultZScoreThreshold triggers an alert at two rolling deviations.
const DefaultZScoreThreshold = 2.0

// ZScoreAlert reports whether the latest z-score breaches the threshold.
type ZScoreAlert struct {
	Triggered bool    `json:"triggered"`
	Value     float64 `json:"value,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// EvaluateZScore inspects only the latest value of the series; an empty
// series raises no alert (ok is false, not an error).
func EvaluateZScore(z market.Series, threshold float64) (ZScoreAlert, bool) {
	if threshold <= 0 {
		threshold = DefaultZScoreThreshold
	}
	last, ok := z.Last()
	if !ok {
		return ZScoreAlert{}, false
	}
	if math.Abs(last.Value) >= threshold {
		return ZScoreAlert{Triggered: true, Value: last.Value, Threshold: threshold}, true
	}
	return ZScoreAlert{Triggered: false}, true
}
