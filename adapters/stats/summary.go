package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"chartlab/domain/table"
	"chartlab/internal/errors"
	"chartlab/internal/pipeline"
)

// summarySampleSize caps the sample values reported for text fields
const summarySampleSize = 5

// FrequencyEntry is one level of a categorical frequency table
type FrequencyEntry struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NumericSummary describes a numeric field's distribution. SD uses the n-1
// denominator; skewness and kurtosis are the biased moment ratios, with
// kurtosis reported as excess over the normal's 3. The Jarque-Bera statistic
// tests normality from both together on a chi-square with 2 df.
type NumericSummary struct {
	Mean     float64 `json:"mean"`
	SD       float64 `json:"sd"`
	Median   float64 `json:"median"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	JBStat   float64 `json:"jb_stat"`
	JBPValue float64 `json:"jb_p"`
}

// VariableSummary is the type-appropriate profile of one field. Exactly one
// of the type-specific parts is populated: Numeric for numeric fields,
// Frequencies/UniqueCount for categorical, MinDate/MaxDate for dates and
// SampleValues for text.
type VariableSummary struct {
	Field          string           `json:"field"`
	Type           table.FieldType  `json:"type"`
	MissingCount   int              `json:"missing_count"`
	MissingPercent float64          `json:"missing_percent"`
	Numeric        *NumericSummary  `json:"numeric,omitempty"`
	UniqueCount    int              `json:"unique_count,omitempty"`
	Frequencies    []FrequencyEntry `json:"frequency_table,omitempty"`
	MinDate        string           `json:"min_date,omitempty"`
	MaxDate        string           `json:"max_date,omitempty"`
	SampleValues   []string         `json:"sample_values,omitempty"`
}

// Summarize profiles one field according to its catalog type
func (r *Runner) Summarize(rs *table.RecordSet, fieldName string) (*VariableSummary, error) {
	field, ok := rs.Field(fieldName)
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("field %q", fieldName))
	}

	missing := 0
	for _, rec := range rs.Records() {
		if table.IsMissing(rec[fieldName]) {
			missing++
		}
	}
	summary := &VariableSummary{
		Field:        fieldName,
		Type:         field.Type,
		MissingCount: missing,
	}
	if total := rs.Len(); total > 0 {
		summary.MissingPercent = roundTwo(100 * float64(missing) / float64(total))
	}

	switch field.Type {
	case table.FieldNumeric:
		summary.Numeric = numericSummary(rs.NumericVector(fieldName))
	case table.FieldCategorical:
		summary.Frequencies = frequencyTable(rs, fieldName)
		summary.UniqueCount = len(summary.Frequencies)
	case table.FieldDate:
		summary.MinDate, summary.MaxDate = dateRange(rs, fieldName)
	default:
		summary.SampleValues = sampleValues(rs, fieldName, summarySampleSize)
	}
	return summary, nil
}

// SummarizeAll profiles every field in catalog order
func (r *Runner) SummarizeAll(rs *table.RecordSet) []*VariableSummary {
	fields := rs.Fields()
	out := make([]*VariableSummary, 0, len(fields))
	for _, f := range fields {
		summary, err := r.Summarize(rs, f.Name)
		if err != nil {
			continue
		}
		out = append(out, summary)
	}
	return out
}

// numericSummary computes the distribution profile of the valid values.
// A zero-variance vector leaves the moment ratios undefined; they are
// reported as zeros with a Jarque-Bera p of 1.
func numericSummary(values []float64) *NumericSummary {
	if len(values) == 0 {
		return nil
	}
	n := float64(len(values))
	m := mean(values)

	min, max := values[0], values[0]
	m2, m3, m4 := 0.0, 0.0, 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		d := v - m
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m3 /= n
	m4 /= n

	summary := &NumericSummary{
		Mean:     m,
		SD:       math.Sqrt(sampleVariance(values)),
		Median:   quantileOf(values, 0.5),
		Q1:       quantileOf(values, 0.25),
		Q3:       quantileOf(values, 0.75),
		Min:      min,
		Max:      max,
		JBPValue: 1,
	}
	if m2 > 0 {
		summary.Skewness = m3 / math.Pow(m2, 1.5)
		summary.Kurtosis = m4/(m2*m2) - 3
		summary.JBStat = n / 6 * (summary.Skewness*summary.Skewness + summary.Kurtosis*summary.Kurtosis/4)
		summary.JBPValue = distuv.ChiSquared{K: 2}.Survival(summary.JBStat)
	}
	return summary
}

// quantileOf delegates to the chart pipeline's percentile so the profile and
// the box plot report identical quartiles
func quantileOf(values []float64, p float64) float64 {
	v, _ := pipeline.Percentile(values, p)
	return v
}

// frequencyTable counts the non-null levels of a field, most frequent first;
// equal counts keep first-appearance order. Percentages are of the non-null
// total.
func frequencyTable(rs *table.RecordSet, fieldName string) []FrequencyEntry {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, rec := range rs.Records() {
		v, ok := table.StringValue(rec[fieldName])
		if !ok {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return nil
	}

	entries := make([]FrequencyEntry, len(order))
	for i, name := range order {
		entries[i] = FrequencyEntry{
			Name:       name,
			Count:      counts[name],
			Percentage: roundTwo(100 * float64(counts[name]) / float64(total)),
		}
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].Count > entries[b].Count })
	return entries
}

// dateRange returns the ISO min and max of a date field's valid values
func dateRange(rs *table.RecordSet, fieldName string) (minDate, maxDate string) {
	first := true
	var min, max int64
	for _, rec := range rs.Records() {
		t, ok := table.DateValue(rec[fieldName])
		if !ok {
			continue
		}
		u := t.Unix()
		if first || u < min {
			min = u
			minDate = t.Format("2006-01-02")
		}
		if first || u > max {
			max = u
			maxDate = t.Format("2006-01-02")
		}
		first = false
	}
	return minDate, maxDate
}

// sampleValues returns up to max distinct non-null values in record order
func sampleValues(rs *table.RecordSet, fieldName string, max int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range rs.Records() {
		v, ok := table.StringValue(rec[fieldName])
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) == max {
			break
		}
	}
	return out
}

// roundTwo rounds to two decimal places
func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}
