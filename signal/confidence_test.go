package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceFor(t *testing.T) {
	q := Quality{Grade: GradeHigh, Stationary: true, CorrelationOK: true, HedgeRatioStable: true, LiquidityOK: true}
	c := ConfidenceFor(q)
	assert.Equal(t, 100, c.Confidence)
	assert.Equal(t, GradeHigh, c.Quality)

	q = Quality{Grade: GradeMedium, Stationary: true, CorrelationOK: true}
	c = ConfidenceFor(q)
	assert.Equal(t, 50, c.Confidence)

	c = ConfidenceFor(Quality{Grade: GradeLow, Reason: "Insufficient data"})
	assert.Equal(t, 0, c.Confidence)
	assert.Equal(t, GradeLow, c.Quality)
}
