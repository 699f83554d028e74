package pipeline

import (
	"math"

	"chartlab/domain/chart"
	"chartlab/domain/table"
)

const (
	// kdeGridSize is the evaluation grid length for the regular case
	kdeGridSize = 200
	// kdeDegenerateGridSize is the grid length for zero-variance input
	kdeDegenerateGridSize = 50
)

// populationStd is the standard deviation with an n denominator (not n-1).
// Silverman bandwidth selection depends on this exact estimator; using the
// sample standard deviation here changes every curve.
func populationStd(values []float64) float64 {
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// silvermanBandwidth is the rule-of-thumb smoothing parameter
// h = 1.06 * std * n^(-1/5)
func silvermanBandwidth(values []float64) float64 {
	return 1.06 * populationStd(values) * math.Pow(float64(len(values)), -0.2)
}

// gaussianKernel is the standard normal density K(u) = exp(-u^2/2)/sqrt(2*pi)
func gaussianKernel(u float64) float64 {
	return math.Exp(-u*u/2) / math.Sqrt(2*math.Pi)
}

// evaluateKDE computes the Gaussian kernel density estimate of values over a
// fixed grid spanning [gridMin, gridMax]
func evaluateKDE(values []float64, gridMin, gridMax float64, gridSize int) []chart.DensityPoint {
	n := float64(len(values))
	h := silvermanBandwidth(values)
	step := (gridMax - gridMin) / float64(gridSize-1)

	points := make([]chart.DensityPoint, gridSize)
	for i := 0; i < gridSize; i++ {
		x := gridMin + float64(i)*step
		sum := 0.0
		for _, xi := range values {
			sum += gaussianKernel((x - xi) / h)
		}
		points[i] = chart.DensityPoint{X: x, Density: sum / (n * h)}
	}
	return points
}

// degenerateCurve handles zero-variance input, where the Silverman bandwidth
// is zero and the estimator would divide by it. All density mass sits at the
// single observed value: a short grid anchored so the value itself is a grid
// point, with density 1 there and 0 everywhere else.
func degenerateCurve(value float64, n int) chart.DensityCurve {
	points := make([]chart.DensityPoint, kdeDegenerateGridSize)
	step := 2.0 / float64(kdeDegenerateGridSize-1)
	center := (kdeDegenerateGridSize - 1) / 2
	for i := range points {
		points[i] = chart.DensityPoint{X: value + float64(i-center)*step}
	}
	points[center].Density = 1
	return chart.DensityCurve{Points: points, N: n}
}

// densityCurve computes one group's curve over the shared grid bounds
func densityCurve(values []float64, gridMin, gridMax float64) chart.DensityCurve {
	min, max := minMax(values)
	if min == max {
		return degenerateCurve(min, len(values))
	}
	return chart.DensityCurve{
		Bandwidth: silvermanBandwidth(values),
		Points:    evaluateKDE(values, gridMin, gridMax, kdeGridSize),
		N:         len(values),
	}
}

// Density computes Gaussian kernel density curves for a numeric field. The
// grouped variant evaluates every group on one shared grid spanning the
// union min/max across groups so curves are visually comparable.
func Density(rs *table.RecordSet, field, groupField string) *chart.Series {
	series := &chart.Series{Kind: chart.PlotDensity}

	if groupField == "" {
		values := rs.NumericVector(field)
		if len(values) == 0 {
			return chart.EmptySeries(chart.PlotDensity)
		}
		min, max := minMax(values)
		series.Curves = []chart.DensityCurve{densityCurve(values, min, max)}
		series.XDomain = axisDomainPtr(min, max)
		return series
	}

	type groupValues struct {
		key    string
		values []float64
	}
	var groups []groupValues
	var unionMin, unionMax float64
	first := true
	for _, g := range rs.Partition(groupField) {
		values := rs.Subset(g.Records).NumericVector(field)
		if len(values) == 0 {
			continue
		}
		groups = append(groups, groupValues{key: g.Key, values: values})
		min, max := minMax(values)
		if first || min < unionMin {
			unionMin = min
		}
		if first || max > unionMax {
			unionMax = max
		}
		first = false
	}
	if len(groups) == 0 {
		return chart.EmptySeries(chart.PlotDensity)
	}

	for _, g := range groups {
		curve := densityCurve(g.values, unionMin, unionMax)
		curve.Group = g.key
		series.Curves = append(series.Curves, curve)
		series.Groups = append(series.Groups, g.key)
	}
	series.XDomain = axisDomainPtr(unionMin, unionMax)
	return series
}
