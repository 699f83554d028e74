package stats

import (
	"fmt"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// Runner executes hypothesis tests against a record set. Groups come from a
// categorical field, values from numeric fields; null cells drop out before
// any computation.
type Runner struct{}

// NewRunner creates a test runner
func NewRunner() *Runner {
	return &Runner{}
}

// TTest runs an independent two-sample pooled-variance t-test of the numeric
// field between the exactly two levels of the grouping field
func (r *Runner) TTest(rs *table.RecordSet, numericField, groupField string) (*TestResult, error) {
	groups, err := numericGroups(rs, numericField, groupField, 2)
	if err != nil {
		return nil, err
	}
	g1, g2 := groups[0], groups[1]
	n1, n2 := float64(len(g1.values)), float64(len(g2.values))
	if n1 < 2 || n2 < 2 {
		return nil, errors.InvalidInput("each group needs at least 2 values for a t-test")
	}

	m1, m2 := mean(g1.values), mean(g2.values)
	v1, v2 := sampleVariance(g1.values), sampleVariance(g2.values)

	df := n1 + n2 - 2
	pooledVar := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooledVar * (1/n1 + 1/n2))
	if se == 0 {
		return nil, errors.InvalidInput("zero variance in both groups")
	}
	tStat := (m1 - m2) / se
	pValue := twoTailedT(tStat, df)
	cohenD := (m1 - m2) / math.Sqrt(pooledVar)

	return &TestResult{
		TestName:   "Independent t-test",
		TestType:   "ttest",
		Statistic:  tStat,
		PValue:     pValue,
		DF:         df,
		EffectSize: cohenD,
		Groups:     groupStatsMap(groups),
		Interpretation: interpretation(pValue,
			fmt.Sprintf("Significant difference between %s and %s means (p=%.4f)", g1.key, g2.key, pValue),
			fmt.Sprintf("No significant difference between %s and %s means (p=%.4f)", g1.key, g2.key, pValue)),
	}, nil
}

// ANOVA runs a one-way analysis of variance of the numeric field across all
// levels of the grouping field
func (r *Runner) ANOVA(rs *table.RecordSet, numericField, groupField string) (*TestResult, error) {
	groups, err := numericGroups(rs, numericField, groupField, 0)
	if err != nil {
		return nil, err
	}
	if len(groups) < 2 {
		return nil, errors.InvalidInput("ANOVA needs at least 2 groups")
	}

	totalN := 0
	grandSum := 0.0
	for _, g := range groups {
		totalN += len(g.values)
		for _, v := range g.values {
			grandSum += v
		}
	}
	if totalN <= len(groups) {
		return nil, errors.InvalidInput("not enough observations for ANOVA")
	}
	grandMean := grandSum / float64(totalN)

	ssBetween, ssWithin := 0.0, 0.0
	for _, g := range groups {
		gm := mean(g.values)
		ssBetween += float64(len(g.values)) * (gm - grandMean) * (gm - grandMean)
		for _, v := range g.values {
			ssWithin += (v - gm) * (v - gm)
		}
	}

	dfBetween := float64(len(groups) - 1)
	dfWithin := float64(totalN - len(groups))
	if ssWithin == 0 {
		return nil, errors.InvalidInput("zero within-group variance")
	}
	fStat := (ssBetween / dfBetween) / (ssWithin / dfWithin)
	fDist := distuv.F{D1: dfBetween, D2: dfWithin}
	pValue := fDist.Survival(fStat)
	etaSquared := ssBetween / (ssBetween + ssWithin)

	return &TestResult{
		TestName:   "One-way ANOVA",
		TestType:   "anova",
		Statistic:  fStat,
		PValue:     pValue,
		DF:         dfBetween,
		EffectSize: etaSquared,
		Groups:     groupStatsMap(groups),
		Interpretation: interpretation(pValue,
			fmt.Sprintf("At least one group mean differs significantly (F=%.3f, p=%.4f)", fStat, pValue),
			fmt.Sprintf("No significant difference among group means (F=%.3f, p=%.4f)", fStat, pValue)),
	}, nil
}

// MannWhitney runs the Mann-Whitney U test (normal approximation with tie
// correction) between the two levels of the grouping field
func (r *Runner) MannWhitney(rs *table.RecordSet, numericField, groupField string) (*TestResult, error) {
	groups, err := numericGroups(rs, numericField, groupField, 2)
	if err != nil {
		return nil, err
	}
	g1, g2 := groups[0], groups[1]
	n1, n2 := float64(len(g1.values)), float64(len(g2.values))
	if n1 < 1 || n2 < 1 {
		return nil, errors.InvalidInput("both groups need values for Mann-Whitney")
	}

	combined := append(append([]float64{}, g1.values...), g2.values...)
	ranks, tieTerm := rankWithTies(combined)

	r1 := 0.0
	for i := range g1.values {
		r1 += ranks[i]
	}
	u1 := r1 - n1*(n1+1)/2
	u2 := n1*n2 - u1
	u := math.Min(u1, u2)

	// Normal approximation with continuity and tie correction
	n := n1 + n2
	mu := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1))))
	if sigma == 0 {
		return nil, errors.InvalidInput("all values tied; Mann-Whitney undefined")
	}
	z := (u - mu + 0.5) / sigma
	norm := distuv.UnitNormal
	pValue := 2 * norm.CDF(-math.Abs(z))

	return &TestResult{
		TestName:  "Mann-Whitney U test",
		TestType:  "mannwhitney",
		Statistic: u,
		PValue:    pValue,
		Groups:    groupStatsMap(groups),
		Interpretation: interpretation(pValue,
			fmt.Sprintf("Significant difference in distributions of %s and %s (U=%.1f, p=%.4f)", g1.key, g2.key, u, pValue),
			fmt.Sprintf("No significant difference in distributions of %s and %s (U=%.1f, p=%.4f)", g1.key, g2.key, u, pValue)),
	}, nil
}

// KruskalWallis runs the Kruskal-Wallis H test across all levels of the
// grouping field, with the chi-square approximation for the p-value
func (r *Runner) KruskalWallis(rs *table.RecordSet, numericField, groupField string) (*TestResult, error) {
	groups, err := numericGroups(rs, numericField, groupField, 0)
	if err != nil {
		return nil, err
	}
	if len(groups) < 2 {
		return nil, errors.InvalidInput("Kruskal-Wallis needs at least 2 groups")
	}

	var combined []float64
	for _, g := range groups {
		combined = append(combined, g.values...)
	}
	n := float64(len(combined))
	if n < 3 {
		return nil, errors.InvalidInput("not enough observations for Kruskal-Wallis")
	}
	ranks, tieTerm := rankWithTies(combined)

	h := 0.0
	offset := 0
	for _, g := range groups {
		ni := float64(len(g.values))
		ri := 0.0
		for i := 0; i < len(g.values); i++ {
			ri += ranks[offset+i]
		}
		offset += len(g.values)
		h += ri * ri / ni
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	// Tie correction divides H by 1 - Σ(t³-t)/(n³-n)
	correction := 1 - tieTerm/(n*n*n-n)
	if correction <= 0 {
		return nil, errors.InvalidInput("all values tied; Kruskal-Wallis undefined")
	}
	h /= correction

	df := float64(len(groups) - 1)
	chi := distuv.ChiSquared{K: df}
	pValue := chi.Survival(h)

	return &TestResult{
		TestName:  "Kruskal-Wallis H test",
		TestType:  "kruskal",
		Statistic: h,
		PValue:    pValue,
		DF:        df,
		Groups:    groupStatsMap(groups),
		Interpretation: interpretation(pValue,
			fmt.Sprintf("At least one group distribution differs significantly (H=%.3f, p=%.4f)", h, pValue),
			fmt.Sprintf("No significant difference among group distributions (H=%.3f, p=%.4f)", h, pValue)),
	}, nil
}

// ChiSquare runs a chi-square test of independence between two categorical
// fields, with Cramér's V as the effect size
func (r *Runner) ChiSquare(rs *table.RecordSet, fieldA, fieldB string) (*TestResult, error) {
	type cell struct{ a, b string }
	counts := make(map[cell]float64)
	rowTotals := make(map[string]float64)
	colTotals := make(map[string]float64)
	var rowOrder, colOrder []string
	total := 0.0

	for _, rec := range rs.Records() {
		va, vb := rec[fieldA], rec[fieldB]
		if table.IsMissing(va) || table.IsMissing(vb) {
			continue
		}
		a, _ := table.StringValue(va)
		b, _ := table.StringValue(vb)
		if _, seen := rowTotals[a]; !seen {
			rowOrder = append(rowOrder, a)
		}
		if _, seen := colTotals[b]; !seen {
			colOrder = append(colOrder, b)
		}
		counts[cell{a, b}]++
		rowTotals[a]++
		colTotals[b]++
		total++
	}

	if len(rowOrder) < 2 || len(colOrder) < 2 {
		return nil, errors.InvalidInput("chi-square needs at least 2 levels in each field")
	}

	chiStat := 0.0
	for _, a := range rowOrder {
		for _, b := range colOrder {
			expected := rowTotals[a] * colTotals[b] / total
			observed := counts[cell{a, b}]
			diff := observed - expected
			chiStat += diff * diff / expected
		}
	}

	df := float64((len(rowOrder) - 1) * (len(colOrder) - 1))
	chi := distuv.ChiSquared{K: df}
	pValue := chi.Survival(chiStat)

	minDim := float64(len(rowOrder) - 1)
	if c := float64(len(colOrder) - 1); c < minDim {
		minDim = c
	}
	cramersV := math.Sqrt(chiStat / (total * minDim))

	return &TestResult{
		TestName:   "Chi-square test of independence",
		TestType:   "chisquare",
		Statistic:  chiStat,
		PValue:     pValue,
		DF:         df,
		EffectSize: cramersV,
		Interpretation: interpretation(pValue,
			fmt.Sprintf("%s and %s are significantly associated (χ²=%.3f, p=%.4f)", fieldA, fieldB, chiStat, pValue),
			fmt.Sprintf("No significant association between %s and %s (χ²=%.3f, p=%.4f)", fieldA, fieldB, chiStat, pValue)),
	}, nil
}

// Pearson runs a Pearson correlation test between two numeric fields
func (r *Runner) Pearson(rs *table.RecordSet, fieldX, fieldY string) (*TestResult, error) {
	xs, ys := rs.NumericPairs(fieldX, fieldY)
	if len(xs) < 3 {
		return nil, errors.InvalidInput("correlation needs at least 3 paired values")
	}

	rho, err := mstats.Pearson(mstats.Float64Data(xs), mstats.Float64Data(ys))
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute Pearson correlation")
	}
	pValue, df := correlationPValue(rho, len(xs))

	return &TestResult{
		TestName:   "Pearson correlation",
		TestType:   "pearson",
		Statistic:  rho,
		PValue:     pValue,
		DF:         df,
		EffectSize: rho,
		Interpretation: interpretation(pValue,
			fmt.Sprintf("Significant linear relationship between %s and %s (r=%.3f, p=%.4f)", fieldX, fieldY, rho, pValue),
			fmt.Sprintf("No significant linear relationship between %s and %s (r=%.3f, p=%.4f)", fieldX, fieldY, rho, pValue)),
	}, nil
}

// Spearman runs a Spearman rank correlation test between two numeric fields.
// Ranks use midrank ties, so rho is Pearson on the rank vectors.
func (r *Runner) Spearman(rs *table.RecordSet, fieldX, fieldY string) (*TestResult, error) {
	xs, ys := rs.NumericPairs(fieldX, fieldY)
	if len(xs) < 3 {
		return nil, errors.InvalidInput("correlation needs at least 3 paired values")
	}

	xRanks, _ := rankWithTies(xs)
	yRanks, _ := rankWithTies(ys)
	rho, err := mstats.Pearson(mstats.Float64Data(xRanks), mstats.Float64Data(yRanks))
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute Spearman correlation")
	}
	pValue, df := correlationPValue(rho, len(xs))

	return &TestResult{
		TestName:   "Spearman correlation",
		TestType:   "spearman",
		Statistic:  rho,
		PValue:     pValue,
		DF:         df,
		EffectSize: rho,
		Interpretation: interpretation(pValue,
			fmt.Sprintf("Significant monotonic relationship between %s and %s (ρ=%.3f, p=%.4f)", fieldX, fieldY, rho, pValue),
			fmt.Sprintf("No significant monotonic relationship between %s and %s (ρ=%.3f, p=%.4f)", fieldX, fieldY, rho, pValue)),
	}, nil
}

// namedGroup pairs a group key with its extracted numeric values
type namedGroup struct {
	key    string
	values []float64
}

// numericGroups partitions the numeric field by the grouping field. When
// wantGroups is nonzero the level count must match exactly.
func numericGroups(rs *table.RecordSet, numericField, groupField string, wantGroups int) ([]namedGroup, error) {
	if _, ok := rs.Field(numericField); !ok {
		return nil, errors.NotFound(fmt.Sprintf("field %q", numericField))
	}
	if _, ok := rs.Field(groupField); !ok {
		return nil, errors.NotFound(fmt.Sprintf("field %q", groupField))
	}

	parts := rs.Partition(groupField)
	groups := make([]namedGroup, 0, len(parts))
	for _, p := range parts {
		values := rs.Subset(p.Records).NumericVector(numericField)
		if len(values) == 0 {
			continue
		}
		groups = append(groups, namedGroup{key: p.Key, values: values})
	}
	if wantGroups > 0 && len(groups) != wantGroups {
		return nil, errors.InvalidInput(fmt.Sprintf("test requires exactly %d groups with data, got %d", wantGroups, len(groups)))
	}
	return groups, nil
}

// groupStatsMap builds per-group descriptives for the result payload
func groupStatsMap(groups []namedGroup) map[string]GroupStats {
	out := make(map[string]GroupStats, len(groups))
	for _, g := range groups {
		n := len(g.values)
		m := mean(g.values)
		sd := math.Sqrt(sampleVariance(g.values))
		margin := 0.0
		if n > 1 {
			margin = 1.96 * sd / math.Sqrt(float64(n))
		}
		out[g.key] = GroupStats{
			N:       n,
			Mean:    m,
			SD:      sd,
			CILower: m - margin,
			CIUpper: m + margin,
		}
	}
	return out
}

// rankWithTies converts values to 1-based midranks and also returns the tie
// term Σ(t³-t) needed by rank-test variance corrections
func rankWithTies(values []float64) ([]float64, float64) {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, n)
	tieTerm := 0.0
	i := 0
	for i < n {
		j := i + 1
		for j < n && values[idx[j]] == values[idx[i]] {
			j++
		}
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avgRank
		}
		if t := float64(j - i); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j
	}
	return ranks, tieTerm
}

// correlationPValue converts a correlation coefficient into a two-tailed
// p-value via the t transform t = r·sqrt((n-2)/(1-r²))
func correlationPValue(rho float64, n int) (pValue, df float64) {
	df = float64(n - 2)
	if math.Abs(rho) >= 1 {
		return 0, df
	}
	tStat := rho * math.Sqrt(df/(1-rho*rho))
	return twoTailedT(tStat, df), df
}

// twoTailedT computes the two-tailed p-value of a t statistic
func twoTailedT(tStat, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(tStat))
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		sumSq += (v - m) * (v - m)
	}
	return sumSq / float64(len(values)-1)
}
