package market

import "time"

// Point is one observation of a time-indexed series.
type Point struct {
	TS    time.Time
	Value float64
}

// Series is a sequence of observations with strictly increasing timestamps.
type Series []Point

// Values returns the raw observation values in index order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the final observation, or false on an empty series.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Tail returns the last n observations (the whole series if shorter).
func (s Series) Tail(n int) Series {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Align intersects two series by timestamp and returns them on the common
// index. Cross-symbol series arrive independently, so alignment is always
// by timestamp, never by position.
func Align(a, b Series) (Series, Series) {
	outA := make(Series, 0, min(len(a), len(b)))
	outB := make(Series, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].TS.Before(b[j].TS):
			i++
		case b[j].TS.Before(a[i].TS):
			j++
		default:
			outA = append(outA, a[i])
			outB = append(outB, b[j])
			i++
			j++
		}
	}
	return outA, outB
}

// Align3 intersects three series by timestamp, used when a rolling beta
// restricts the valid index of the spread.
func Align3(a, b, c Series) (Series, Series, Series) {
	a, b = Align(a, b)
	a, c = Align(a, c)
	a, b = Align(a, b)
	return a, b, c
}
