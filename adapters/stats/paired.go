package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// PairedTTest runs a paired-samples t-test on the row-wise differences of two
// numeric fields. Rows missing either value drop out pairwise; the test is a
// one-sample t of the differences against zero on df = n-1.
func (r *Runner) PairedTTest(rs *table.RecordSet, fieldX, fieldY string) (*TestResult, error) {
	xs, ys := rs.NumericPairs(fieldX, fieldY)
	n := float64(len(xs))
	if n < 2 {
		return nil, errors.InvalidInput("paired t-test needs at least 2 complete pairs")
	}

	diffs := make([]float64, len(xs))
	for i := range xs {
		diffs[i] = xs[i] - ys[i]
	}
	sdDiff := math.Sqrt(sampleVariance(diffs))
	if sdDiff == 0 {
		return nil, errors.InvalidInput("zero variance in pair differences")
	}
	meanDiff := mean(diffs)
	tStat := meanDiff / (sdDiff / math.Sqrt(n))
	df := n - 1
	pValue := twoTailedT(tStat, df)
	cohenD := meanDiff / sdDiff

	return &TestResult{
		TestName:   "Paired t-test",
		TestType:   "paired_ttest",
		Statistic:  tStat,
		PValue:     pValue,
		DF:         df,
		EffectSize: cohenD,
		Groups: groupStatsMap([]namedGroup{
			{key: fieldX, values: xs},
			{key: fieldY, values: ys},
		}),
		Interpretation: interpretation(pValue,
			fmt.Sprintf("Significant mean difference between %s and %s (p=%.4f)", fieldX, fieldY, pValue),
			fmt.Sprintf("No significant mean difference between %s and %s (p=%.4f)", fieldX, fieldY, pValue)),
	}, nil
}

// WilcoxonSignedRank runs the Wilcoxon signed-rank test on the row-wise
// differences of two numeric fields. Zero differences drop out before
// ranking; the p-value uses the normal approximation with tie correction and
// the effect size is r = |z|/sqrt(n).
func (r *Runner) WilcoxonSignedRank(rs *table.RecordSet, fieldX, fieldY string) (*TestResult, error) {
	xs, ys := rs.NumericPairs(fieldX, fieldY)
	var diffs []float64
	for i := range xs {
		if d := xs[i] - ys[i]; d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := float64(len(diffs))
	if n < 2 {
		return nil, errors.InvalidInput("Wilcoxon needs at least 2 nonzero pair differences")
	}

	abs := make([]float64, len(diffs))
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	ranks, tieTerm := rankWithTies(abs)

	wPlus := 0.0
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		}
	}
	wMinus := n*(n+1)/2 - wPlus
	w := math.Min(wPlus, wMinus)

	mu := n * (n + 1) / 4
	variance := n*(n+1)*(2*n+1)/24 - tieTerm/48
	if variance <= 0 {
		return nil, errors.InvalidInput("all pair differences tied; Wilcoxon undefined")
	}
	z := (w - mu) / math.Sqrt(variance)
	pValue := 2 * distuv.UnitNormal.CDF(-math.Abs(z))
	effectR := math.Abs(z) / math.Sqrt(n)

	return &TestResult{
		TestName:   "Wilcoxon signed-rank test",
		TestType:   "wilcoxon",
		Statistic:  w,
		PValue:     pValue,
		EffectSize: effectR,
		Groups: groupStatsMap([]namedGroup{
			{key: fieldX, values: xs},
			{key: fieldY, values: ys},
		}),
		Interpretation: interpretation(pValue,
			fmt.Sprintf("Significant difference between %s and %s (W=%.1f, p=%.4f)", fieldX, fieldY, w, pValue),
			fmt.Sprintf("No significant difference between %s and %s (W=%.1f, p=%.4f)", fieldX, fieldY, w, pValue)),
	}, nil
}

// Kendall runs a Kendall rank correlation test between two numeric fields.
// The statistic is tau-b, which corrects the denominator for ties in either
// field; the p-value uses the large-sample normal approximation.
func (r *Runner) Kendall(rs *table.RecordSet, fieldX, fieldY string) (*TestResult, error) {
	xs, ys := rs.NumericPairs(fieldX, fieldY)
	n := len(xs)
	if n < 3 {
		return nil, errors.InvalidInput("correlation needs at least 3 paired values")
	}

	concordant, discordant := 0.0, 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := (xs[i] - xs[j]) * (ys[i] - ys[j])
			if s > 0 {
				concordant++
			} else if s < 0 {
				discordant++
			}
		}
	}

	nf := float64(n)
	n0 := nf * (nf - 1) / 2
	denom := math.Sqrt((n0 - tiePairs(xs)) * (n0 - tiePairs(ys)))
	if denom == 0 {
		return nil, errors.InvalidInput("a field with all values tied has no rank order")
	}
	tau := (concordant - discordant) / denom

	z := 3 * tau * math.Sqrt(nf*(nf-1)) / math.Sqrt(2*(2*nf+5))
	pValue := 2 * distuv.UnitNormal.CDF(-math.Abs(z))

	return &TestResult{
		TestName:   "Kendall correlation",
		TestType:   "kendall",
		Statistic:  tau,
		PValue:     pValue,
		EffectSize: tau,
		Interpretation: interpretation(pValue,
			fmt.Sprintf("Significant rank association between %s and %s (τ=%.3f, p=%.4f)", fieldX, fieldY, tau, pValue),
			fmt.Sprintf("No significant rank association between %s and %s (τ=%.3f, p=%.4f)", fieldX, fieldY, tau, pValue)),
	}, nil
}

// tiePairs counts the tied pairs Σ t(t-1)/2 within a vector
func tiePairs(values []float64) float64 {
	counts := make(map[float64]int)
	for _, v := range values {
		counts[v]++
	}
	total := 0.0
	for _, c := range counts {
		if c > 1 {
			total += float64(c) * float64(c-1) / 2
		}
	}
	return total
}
