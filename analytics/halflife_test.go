package analytics

import (
	"math"
	"math/rand"
	"testing"
)

func TestHalfLife_ExactAR1(t *testing.T) {
	// Noise-free decay: d(s) = beta*s with beta = -0.1.
	beta := -0.1
	vals := make([]float64, 200)
	vals[0] = 100
	for i := 1; i < len(vals); i++ {
		vals[i] = vals[i-1] * (1 + beta)
	}

	hl, ok := HalfLifeValues(vals)
	if !ok {
		t.Fatal("expected a defined half-life")
	}
	want := -math.Ln2 / beta
	if math.Abs(hl-want) > 1e-6 {
		t.Errorf("expected half-life %f, got %f", want, hl)
	}
}

func TestHalfLife_NoisyAR1(t *testing.T) {
	beta := -0.2
	rng := rand.New(rand.NewSource(3))
	vals := make([]float64, 2000)
	for i := 1; i < len(vals); i++ {
		vals[i] = vals[i-1]*(1+beta) + rng.NormFloat64()
	}

	hl, ok := HalfLifeValues(vals)
	if !ok {
		t.Fatal("expected a defined half-life")
	}
	want := -math.Ln2 / beta
	if math.Abs(hl-want) > want*0.25 {
		t.Errorf("recovered half-life %f too far from %f", hl, want)
	}
}

func TestHalfLife_NonMeanReverting(t *testing.T) {
	// Trending series: differences do not shrink with the level.
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = float64(i)
	}
	if _, ok := HalfLifeValues(vals); ok {
		t.Error("trending series must report an absent half-life")
	}
}

func TestHalfLife_TooShort(t *testing.T) {
	if _, ok := HalfLifeValues([]float64{1, 2}); ok {
		t.Error("two points cannot define a half-life")
	}
}
