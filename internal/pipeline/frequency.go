package pipeline

import (
	"math"
	"time"

	"chartlab/domain/chart"
	"chartlab/domain/table"
)

// roundDate truncates a time to the requested unit. Weeks start on Monday.
func roundDate(t time.Time, unit chart.DateUnit) time.Time {
	switch unit {
	case chart.DateYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	case chart.DateMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case chart.DateWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case chart.DateDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

// dateLabel renders a rounded date at the resolution of its unit
func dateLabel(t time.Time, unit chart.DateUnit) string {
	switch unit {
	case chart.DateYear:
		return t.Format("2006")
	case chart.DateMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// categoryOf normalizes one raw cell into its counting category. Date-typed
// fields are truncated to the requested unit before counting; everything
// else counts by string form. Missing values return ("", false).
func categoryOf(v interface{}, fieldType table.FieldType, unit chart.DateUnit) (string, bool) {
	if fieldType == table.FieldDate && unit != "" {
		if t, ok := table.DateValue(v); ok {
			return dateLabel(roundDate(t, unit), unit), true
		}
	}
	return table.StringValue(v)
}

// roundPercent rounds to two decimal places
func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}

// Frequency counts the distinct non-null values of a field in
// first-appearance order. Percentages are computed against the non-null
// total and rounded to two decimals.
func Frequency(rs *table.RecordSet, field string, params chart.Params) *chart.Series {
	fieldInfo, _ := rs.Field(field)

	counts := make(map[string]int)
	var order []string
	total := 0
	for _, rec := range rs.Records() {
		cat, ok := categoryOf(rec[field], fieldInfo.Type, params.DateUnit)
		if !ok {
			continue
		}
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
		total++
	}
	if total == 0 {
		return chart.EmptySeries(chart.PlotBar)
	}

	rows := make([]chart.FrequencyRow, len(order))
	for i, cat := range order {
		rows[i] = chart.FrequencyRow{
			Category:   cat,
			Count:      counts[cat],
			Percentage: roundPercent(100 * float64(counts[cat]) / float64(total)),
		}
	}
	return &chart.Series{Kind: chart.PlotBar, Frequencies: rows}
}

// StackedFrequency cross-tabulates category x stack value. The category axis
// is the union of categories across the whole dataset, so every stack series
// aligns on an identical category list; combinations a stack never hits are
// emitted as explicit zeros.
func StackedFrequency(rs *table.RecordSet, field, stackField string, params chart.Params) *chart.Series {
	fieldInfo, _ := rs.Field(field)

	var categories []string
	catIndex := make(map[string]int)
	var stackKeys []string
	stackIndex := make(map[string]int)
	cells := make(map[[2]int]int)
	totals := make(map[string]int)

	for _, rec := range rs.Records() {
		cat, ok := categoryOf(rec[field], fieldInfo.Type, params.DateUnit)
		if !ok {
			continue
		}
		ci, seen := catIndex[cat]
		if !seen {
			ci = len(categories)
			catIndex[cat] = ci
			categories = append(categories, cat)
		}
		totals[cat]++

		stack, ok := table.StringValue(rec[stackField])
		if !ok {
			continue
		}
		si, seen := stackIndex[stack]
		if !seen {
			si = len(stackKeys)
			stackIndex[stack] = si
			stackKeys = append(stackKeys, stack)
		}
		cells[[2]int{si, ci}]++
	}
	if len(categories) == 0 {
		return chart.EmptySeries(chart.PlotBar)
	}

	stacks := make([]chart.StackSeries, len(stackKeys))
	for si, key := range stackKeys {
		counts := make([]int, len(categories))
		for ci := range categories {
			counts[ci] = cells[[2]int{si, ci}]
		}
		stacks[si] = chart.StackSeries{Key: key, Counts: counts}
	}

	return &chart.Series{
		Kind:   chart.PlotBar,
		Groups: stackKeys,
		Stacked: &chart.StackedFrequency{
			Categories: categories,
			Stacks:     stacks,
			Totals:     totals,
		},
	}
}
