package pipeline

import (
	"math"

	"chartlab/domain/chart"
	"chartlab/domain/table"
)

// tCritical95 returns a two-tailed 95% Student-t critical value from a
// lookup table bracketed by sample size. Bracketing by n rather than by
// df = n-1 understates the critical value at small samples (n=5 gives 2.571
// where the exact df=4 inverse-t is 2.776); the quirk is kept deliberately
// because downstream output was calibrated against it, and the deviation is
// pinned by a test rather than hidden.
func tCritical95(n int) float64 {
	switch {
	case n >= 30:
		return 1.96
	case n >= 20:
		return 2.086
	case n >= 10:
		return 2.228
	case n >= 5:
		return 2.571
	case n >= 3:
		return 3.182
	case n >= 2:
		return 4.303
	default:
		return 12.706
	}
}

// meanCI computes the mean with its 95% t-interval for a non-empty vector.
// Variance uses Bessel's correction (n-1 denominator). For n == 1 the
// interval is undefined: the mean is reported with HasCI false.
func meanCI(values []float64) chart.MeanCI {
	n := len(values)
	m := mean(values)
	if n < 2 {
		return chart.MeanCI{Mean: m, N: n}
	}

	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	sd := math.Sqrt(sumSq / float64(n-1))
	se := sd / math.Sqrt(float64(n))
	margin := tCritical95(n) * se

	return chart.MeanCI{
		Mean:    m,
		CILower: m - margin,
		CIUpper: m + margin,
		N:       n,
		SD:      sd,
		SE:      se,
		HasCI:   true,
	}
}

// MeanCIPlot computes mean +/- 95% CI for a numeric field, per group when a
// grouping field is set. Groups with zero valid values are excluded.
func MeanCIPlot(rs *table.RecordSet, field, groupField string) *chart.Series {
	series := &chart.Series{Kind: chart.PlotMeanCI}

	if groupField == "" {
		values := rs.NumericVector(field)
		if len(values) == 0 {
			return chart.EmptySeries(chart.PlotMeanCI)
		}
		series.MeanCIs = []chart.MeanCI{meanCI(values)}
		series.YDomain = meanCIDomain(series.MeanCIs)
		return series
	}

	for _, g := range rs.Partition(groupField) {
		values := rs.Subset(g.Records).NumericVector(field)
		if len(values) == 0 {
			continue
		}
		ci := meanCI(values)
		ci.Group = g.Key
		series.MeanCIs = append(series.MeanCIs, ci)
		series.Groups = append(series.Groups, g.Key)
	}
	if len(series.MeanCIs) == 0 {
		return chart.EmptySeries(chart.PlotMeanCI)
	}
	series.YDomain = meanCIDomain(series.MeanCIs)
	return series
}

// meanCIDomain pads an axis range over every interval bound (or bare mean
// when the interval is absent)
func meanCIDomain(cis []chart.MeanCI) *chart.AxisDomain {
	min, max := cis[0].Mean, cis[0].Mean
	for _, ci := range cis {
		lo, hi := ci.Mean, ci.Mean
		if ci.HasCI {
			lo, hi = ci.CILower, ci.CIUpper
		}
		if lo < min {
			min = lo
		}
		if hi > max {
			max = hi
		}
	}
	return axisDomainPtr(min, max)
}
