package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateZScore_EmptySeries(t *testing.T) {
	_, ok := EvaluateZScore(nil, 2.0)
	assert.False(t, ok, "empty series raises no alert")
}

func TestEvaluateZScore_Triggered(t *testing.T) {
	z := seriesOf(0.1, -0.5, -2.4)
	a, ok := EvaluateZScore(z, 2.0)
	assert.True(t, ok)
	assert.True(t, a.Triggered)
	assert.Equal(t, -2.4, a.Value, "signed value is reported")
	assert.Equal(t, 2.0, a.Threshold)
}

func TestEvaluateZScore_AtThreshold(t *testing.T) {
	a, _ := EvaluateZScore(seriesOf(2.0), 2.0)
	assert.True(t, a.Triggered, "|z| equal to the threshold triggers")
}

func TestEvaluateZScore_Quiet(t *testing.T) {
	a, ok := EvaluateZScore(seriesOf(3.0, 1.2), 2.0)
	assert.True(t, ok)
	assert.False(t, a.Triggered, "only the latest value is inspected")
	assert.Zero(t, a.Value)
}

func TestEvaluateZScore_DefaultThreshold(t *testing.T) {
	a, _ := EvaluateZScore(seriesOf(2.1), 0)
	assert.True(t, a.Triggered)
	assert.Equal(t, DefaultZScoreThreshold, a.Threshold)
}
