package pipeline

import (
	"math"
	"strconv"

	"chartlab/domain/chart"
	"chartlab/domain/table"
)

// binWidth computes the histogram bin width from the Freedman-Diaconis rule,
// quantized to a whole number. The quantization matches the original
// behavior; it costs resolution on fractional-range fields (values in [0,1]
// collapse into a single unit-wide bin).
func binWidth(values []float64) float64 {
	n := float64(len(values))
	q1 := mustPercentile(values, 0.25)
	q3 := mustPercentile(values, 0.75)
	iqr := q3 - q1
	if iqr <= 0 {
		return 1
	}
	w := math.Ceil(2 * iqr / math.Cbrt(n))
	if w < 1 {
		return 1
	}
	return w
}

// binEdges computes shared bin edges over [min, max] with the given width.
// Every bin is [start, start+width); the last bin additionally includes max.
func binEdges(min, max, width float64) []float64 {
	numBins := int(math.Ceil((max - min) / width))
	if numBins < 1 {
		numBins = 1
	}
	edges := make([]float64, numBins+1)
	for i := 0; i <= numBins; i++ {
		edges[i] = min + float64(i)*width
	}
	return edges
}

// binIndex assigns a value to its bin. Values equal to the maximum land in
// the last bin so no valid value is lost at the upper boundary.
func binIndex(v, min, width float64, numBins int) int {
	i := int(math.Floor((v - min) / width))
	if i < 0 {
		i = 0
	}
	if i >= numBins {
		i = numBins - 1
	}
	return i
}

// formatBinValue renders a bin edge without trailing zeros
func formatBinValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Histogram bins a numeric field, optionally split by a grouping field.
// Grouped histograms share bin edges computed from the ungrouped range so
// groups stay comparable; per-group counts are computed independently within
// those shared edges. A field with zero valid values yields an empty series.
func Histogram(rs *table.RecordSet, field, groupField string) *chart.Series {
	values := rs.NumericVector(field)
	if len(values) == 0 {
		return chart.EmptySeries(chart.PlotHistogram)
	}

	min, max := minMax(values)
	series := &chart.Series{Kind: chart.PlotHistogram}

	// Degenerate spread: a single bin labeled by the constant value.
	if min == max {
		bin := chart.Bin{
			Label: formatBinValue(min),
			Start: min,
			End:   min,
			Count: len(values),
		}
		if groupField != "" {
			bin.GroupCounts = groupedConstantCounts(rs, field, groupField)
			series.Groups = groupKeysWithValues(rs, field, groupField)
		}
		series.Bins = []chart.Bin{bin}
		series.XDomain = axisDomainPtr(min, max)
		return series
	}

	width := binWidth(values)
	edges := binEdges(min, max, width)
	numBins := len(edges) - 1

	bins := make([]chart.Bin, numBins)
	for i := 0; i < numBins; i++ {
		bins[i] = chart.Bin{
			Label: formatBinValue(edges[i]) + "-" + formatBinValue(edges[i+1]),
			Start: edges[i],
			End:   edges[i+1],
		}
	}
	for _, v := range values {
		bins[binIndex(v, min, width, numBins)].Count++
	}

	if groupField != "" {
		groups := rs.Partition(groupField)
		for gi := range groups {
			sub := rs.Subset(groups[gi].Records)
			groupValues := sub.NumericVector(field)
			if len(groupValues) == 0 {
				continue
			}
			series.Groups = append(series.Groups, groups[gi].Key)
			for _, v := range groupValues {
				i := binIndex(v, min, width, numBins)
				if bins[i].GroupCounts == nil {
					bins[i].GroupCounts = make(map[string]int)
				}
				bins[i].GroupCounts[groups[gi].Key]++
			}
		}
	}

	series.Bins = bins
	series.XDomain = axisDomainPtr(min, max)
	return series
}

// groupedConstantCounts counts per-group occurrences for the single-bin case
func groupedConstantCounts(rs *table.RecordSet, field, groupField string) map[string]int {
	counts := make(map[string]int)
	for _, g := range rs.Partition(groupField) {
		n := len(rs.Subset(g.Records).NumericVector(field))
		if n > 0 {
			counts[g.Key] = n
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}

// groupKeysWithValues lists groups that contribute at least one valid value
func groupKeysWithValues(rs *table.RecordSet, field, groupField string) []string {
	var keys []string
	for _, g := range rs.Partition(groupField) {
		if len(rs.Subset(g.Records).NumericVector(field)) > 0 {
			keys = append(keys, g.Key)
		}
	}
	return keys
}
