package pipeline

import (
	"chartlab/domain/chart"
	"chartlab/domain/table"
)

// summarizeBox computes the five-number summary with 1.5*IQR fences for a
// non-empty vector. Whiskers snap to the most extreme values inside the
// fences; values strictly outside both fences are listed as outliers in
// input order. Every value ends up inside [WhiskerLow, WhiskerHigh] or in
// Outliers, never both.
func summarizeBox(values []float64) chart.BoxStat {
	q1 := mustPercentile(values, 0.25)
	median := mustPercentile(values, 0.5)
	q3 := mustPercentile(values, 0.75)
	iqr := q3 - q1
	lowerFence := q1 - 1.5*iqr
	upperFence := q3 + 1.5*iqr

	min, max := minMax(values)
	whiskerLow := max
	whiskerHigh := min
	foundLow, foundHigh := false, false
	outliers := []float64{}

	for _, v := range values {
		if v < lowerFence || v > upperFence {
			outliers = append(outliers, v)
			continue
		}
		if !foundLow || v < whiskerLow {
			whiskerLow = v
			foundLow = true
		}
		if !foundHigh || v > whiskerHigh {
			whiskerHigh = v
			foundHigh = true
		}
	}
	// All values outside the fences cannot happen with 1.5*IQR fences, but a
	// fallback to the global extremes keeps the invariant airtight.
	if !foundLow {
		whiskerLow = min
	}
	if !foundHigh {
		whiskerHigh = max
	}

	return chart.BoxStat{
		Q1:          q1,
		Median:      median,
		Q3:          q3,
		WhiskerLow:  whiskerLow,
		WhiskerHigh: whiskerHigh,
		Outliers:    outliers,
		N:           len(values),
	}
}

// BoxPlot computes box statistics for a numeric field, one summary per group
// when a grouping field is set. Groups with zero valid values are excluded
// from the output rather than emitted as degenerate summaries.
func BoxPlot(rs *table.RecordSet, field, groupField string) *chart.Series {
	series := &chart.Series{Kind: chart.PlotBox}

	if groupField == "" {
		values := rs.NumericVector(field)
		if len(values) == 0 {
			return chart.EmptySeries(chart.PlotBox)
		}
		series.BoxStats = []chart.BoxStat{summarizeBox(values)}
		min, max := minMax(values)
		series.YDomain = axisDomainPtr(min, max)
		return series
	}

	var allMin, allMax float64
	first := true
	for _, g := range rs.Partition(groupField) {
		values := rs.Subset(g.Records).NumericVector(field)
		if len(values) == 0 {
			continue
		}
		stat := summarizeBox(values)
		stat.Group = g.Key
		series.BoxStats = append(series.BoxStats, stat)
		series.Groups = append(series.Groups, g.Key)

		min, max := minMax(values)
		if first || min < allMin {
			allMin = min
		}
		if first || max > allMax {
			allMax = max
		}
		first = false
	}
	if len(series.BoxStats) == 0 {
		return chart.EmptySeries(chart.PlotBox)
	}
	series.YDomain = axisDomainPtr(allMin, allMax)
	return series
}
