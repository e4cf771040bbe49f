package analytics

import (
	"math"
	"testing"
	"time"

	"pairs-analytics-go/market"
)

func seriesOf(vals ...float64) market.Series {
	s := make(market.Series, len(vals))
	for i, v := range vals {
		s[i] = market.Point{TS: time.Unix(int64(i), 0).UTC(), Value: v}
	}
	return s
}

func TestRollingMean(t *testing.T) {
	s := seriesOf(1, 2, 3, 4, 5)
	got := RollingMean(s, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	want := []float64{2, 3, 4}
	for i, p := range got {
		if p.Value != want[i] {
			t.Errorf("mean %d: expected %f, got %f", i, want[i], p.Value)
		}
	}
	if !got[0].TS.Equal(s[2].TS) {
		t.Error("first emission should sit at the window-th timestamp")
	}
}

func TestRollingMean_ShortSeries(t *testing.T) {
	if got := RollingMean(seriesOf(1, 2), 3); got != nil {
		t.Errorf("expected no values below window, got %d", len(got))
	}
}

func TestRollingStd(t *testing.T) {
	s := seriesOf(2, 4, 4, 4, 5, 5, 7, 9)
	got := RollingStd(s, 8)
	if len(got) != 1 {
		t.Fatalf("expected 1 value, got %d", len(got))
	}
	// Sample std of the classic 2,4,4,4,5,5,7,9 set.
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got[0].Value-want) > 1e-12 {
		t.Errorf("expected std %f, got %f", want, got[0].Value)
	}
}

func TestRollingCorr_PerfectlyCorrelated(t *testing.T) {
	x := seriesOf(1, 2, 3, 4, 5, 6)
	y := seriesOf(2, 4, 6, 8, 10, 12)
	got := RollingCorr(x, y, 4)
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	for i, p := range got {
		if math.Abs(p.Value-1) > 1e-12 {
			t.Errorf("corr %d: expected 1, got %f", i, p.Value)
		}
	}
}

func TestRollingCorr_ZeroVarianceWindowDropped(t *testing.T) {
	x := seriesOf(5, 5, 5, 5)
	y := seriesOf(1, 2, 3, 4)
	if got := RollingCorr(x, y, 3); len(got) != 0 {
		t.Errorf("zero-variance windows must emit nothing, got %d values", len(got))
	}
}

func TestRollingVarCov(t *testing.T) {
	x := seriesOf(1, 2, 3, 4)
	v := RollingVar(x, 4)
	c := RollingCov(x, x, 4)
	if len(v) != 1 || len(c) != 1 {
		t.Fatalf("expected single values, got %d and %d", len(v), len(c))
	}
	if math.Abs(v[0].Value-c[0].Value) > 1e-12 {
		t.Errorf("cov(x,x) should equal var(x): %f vs %f", c[0].Value, v[0].Value)
	}
}
