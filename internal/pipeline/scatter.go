package pipeline

import (
	"math/rand"

	"chartlab/domain/chart"
	"chartlab/domain/table"
)

// scatterMaxPoints caps the points per series before seeded downsampling
// kicks in, keeping payloads renderable for large datasets
const scatterMaxPoints = 5000

// downsample picks at most max points uniformly at random with a fixed seed,
// preserving the original record order of the picked points. Deterministic
// for a given (input, seed) pair.
func downsample(points []chart.ScatterPoint, max int, seed int64) []chart.ScatterPoint {
	if len(points) <= max {
		return points
	}
	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(points))[:max]

	keep := make([]bool, len(points))
	for _, i := range picked {
		keep[i] = true
	}
	out := make([]chart.ScatterPoint, 0, max)
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// scatterPoints pairs two numeric fields record-by-record
func scatterPoints(rs *table.RecordSet, xField, yField string) []chart.ScatterPoint {
	xs, ys := rs.NumericPairs(xField, yField)
	points := make([]chart.ScatterPoint, len(xs))
	for i := range xs {
		points[i] = chart.ScatterPoint{X: xs[i], Y: ys[i]}
	}
	return points
}

// Scatter builds raw (x, y) point series for two numeric fields, one series
// per group when a grouping field is set. Only records where both fields
// parse contribute a point.
func Scatter(rs *table.RecordSet, xField, yField, groupField string, params chart.Params) *chart.Series {
	series := &chart.Series{Kind: chart.PlotScatter}

	var all []chart.ScatterPoint
	if groupField == "" {
		points := scatterPoints(rs, xField, yField)
		if len(points) == 0 {
			return chart.EmptySeries(chart.PlotScatter)
		}
		all = points
		series.Scatter = []chart.ScatterSeries{{Points: downsample(points, scatterMaxPoints, params.Seed)}}
	} else {
		for _, g := range rs.Partition(groupField) {
			points := scatterPoints(rs.Subset(g.Records), xField, yField)
			if len(points) == 0 {
				continue
			}
			all = append(all, points...)
			series.Scatter = append(series.Scatter, chart.ScatterSeries{
				Group:  g.Key,
				Points: downsample(points, scatterMaxPoints, params.Seed),
			})
			series.Groups = append(series.Groups, g.Key)
		}
		if len(series.Scatter) == 0 {
			return chart.EmptySeries(chart.PlotScatter)
		}
	}

	// Domains come from the full point set, not the downsampled one, so the
	// axis range is stable across seeds.
	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	for _, p := range all[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	series.XDomain = axisDomainPtr(minX, maxX)
	series.YDomain = axisDomainPtr(minY, maxY)
	return series
}
