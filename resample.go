package worth

import "time"

// Resample converts an irregular time series into n uniformly spaced points
// over the same span, linearly interpolating between the two nearest
// observations. It never extrapolates: every resampled value lies between
// its bracketing knots, so the output stays within the observed min and max.
//
// Fewer than two observations cannot be resampled; nil is returned.
func Resample(points []TimePoint, n int) []TimePoint {
	if len(points) < 2 || n < 2 {
		return nil
	}

	t0 := points[0].At
	t1 := points[len(points)-1].At
	span := t1.Sub(t0)
	if span <= 0 {
		return nil
	}

	res := make([]TimePoint, n)
	j := 0 // index of the knot at or before the current sample
	for i := range n {
		frac := float64(i) / float64(n-1)
		at := t0.Add(time.Duration(frac * float64(span)))
		for j+1 < len(points)-1 && !points[j+1].At.After(at) {
			j++
		}
		a, b := points[j], points[j+1]
		var v float64
		if gap := b.At.Sub(a.At); gap <= 0 {
			v = b.Value
		} else {
			w := float64(at.Sub(a.At)) / float64(gap)
			if w < 0 {
				w = 0
			}
			if w > 1 {
				w = 1
			}
			v = a.Value + w*(b.Value-a.Value)
		}
		res[i] = TimePoint{At: at, Value: v}
	}
	return res
}
