package market

import "time"

// Resample converts an arrival-ordered tick snapshot into a fixed-interval
// last-price bar series. Buckets are aligned to the epoch; a bucket with no
// ticks takes the value of the nearest preceding non-empty bucket; buckets
// before the first tick are omitted. Empty input yields an empty series.
func Resample(ticks []Tick, interval time.Duration) Series {
	if len(ticks) == 0 || interval <= 0 {
		return nil
	}
	step := interval.Nanoseconds()
	last := make(map[int64]float64, len(ticks))
	var lo, hi int64
	first := true
	for _, t := range ticks {
		idx := bucketIndex(t.TS, step)
		last[idx] = t.Price // last trade in the bucket wins
		if first {
			lo, hi = idx, idx
			first = false
			continue
		}
		if idx < lo {
			lo = idx
		}
		if idx > hi {
			hi = idx
		}
	}

	out := make(Series, 0, hi-lo+1)
	prev := 0.0
	for idx := lo; idx <= hi; idx++ {
		v, ok := last[idx]
		if !ok {
			v = prev // forward fill
		}
		prev = v
		out = append(out, Point{TS: bucketTime(idx, step), Value: v})
	}
	return out
}

// ResampleVolume sums traded size per fixed-interval bucket over the same
// epoch-aligned grid as Resample. Buckets with no trades carry zero volume.
func ResampleVolume(ticks []Tick, interval time.Duration) Series {
	if len(ticks) == 0 || interval <= 0 {
		return nil
	}
	step := interval.Nanoseconds()
	sums := make(map[int64]float64, len(ticks))
	var lo, hi int64
	first := true
	for _, t := range ticks {
		idx := bucketIndex(t.TS, step)
		sums[idx] += t.Size
		if first {
			lo, hi = idx, idx
			first = false
			continue
		}
		if idx < lo {
			lo = idx
		}
		if idx > hi {
			hi = idx
		}
	}

	out := make(Series, 0, hi-lo+1)
	for idx := lo; idx <= hi; idx++ {
		out = append(out, Point{TS: bucketTime(idx, step), Value: sums[idx]})
	}
	return out
}

func bucketIndex(ts time.Time, step int64) int64 {
	ns := ts.UnixNano()
	idx := ns / step
	if ns < 0 && ns%step != 0 {
		idx-- // floor division for pre-epoch timestamps
	}
	return idx
}

func bucketTime(idx, step int64) time.Time {
	return time.Unix(0, idx*step).UTC()
}
