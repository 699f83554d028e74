package pipeline

import (
	"math"
	"sort"
)

// Percentile computes the p-th quantile (p in [0,1]) of values using linear
// interpolation between the two nearest order statistics. The input is not
// modified; it is copied and sorted internally. Returns (0, false) for an
// empty input or p outside [0,1].
//
// Percentile(v, 0) == min(v) and Percentile(v, 1) == max(v).
func Percentile(values []float64, p float64) (float64, bool) {
	n := len(values)
	if n == 0 || p < 0 || p > 1 {
		return 0, false
	}
	if n == 1 {
		return values[0], true
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := p * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo], true
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, true
}

// mustPercentile is Percentile for callers that already checked len > 0
func mustPercentile(values []float64, p float64) float64 {
	v, _ := Percentile(values, p)
	return v
}

// minMax returns the smallest and largest element of a non-empty vector
func minMax(values []float64) (min, max float64) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// mean returns the arithmetic mean of a non-empty vector
func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
