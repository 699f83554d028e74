package table

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NumericValue attempts a best-effort numeric parse of one raw cell.
// Any parseable value is accepted regardless of the field's declared type;
// NaN and infinities are rejected so they never enter a NumericVector.
func NumericValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case float32:
		return NumericValue(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NumericVector extracts the finite numeric values of a field in record order.
// Non-parseable and missing cells are dropped silently; the result never
// contains NaN, Inf or placeholder values.
func (rs *RecordSet) NumericVector(field string) []float64 {
	if rs == nil {
		return nil
	}
	values := make([]float64, 0, len(rs.records))
	for _, rec := range rs.records {
		if f, ok := NumericValue(rec[field]); ok {
			values = append(values, f)
		}
	}
	return values
}

// NumericPairs extracts (x, y) pairs for two fields, keeping only records
// where both fields parse. Record order is preserved.
func (rs *RecordSet) NumericPairs(xField, yField string) (xs, ys []float64) {
	if rs == nil {
		return nil, nil
	}
	for _, rec := range rs.records {
		x, okX := NumericValue(rec[xField])
		y, okY := NumericValue(rec[yField])
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// CategoricalValues returns the non-null string forms of a field in record order
func (rs *RecordSet) CategoricalValues(field string) []string {
	if rs == nil {
		return nil
	}
	values := make([]string, 0, len(rs.records))
	for _, rec := range rs.records {
		if s, ok := StringValue(rec[field]); ok {
			values = append(values, s)
		}
	}
	return values
}

// dateLayouts are tried in order when parsing date-typed cells
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"2 Jan 2006",
}

var likelyDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
	regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),
	regexp.MustCompile(`^[A-Za-z]{3,9} \d{1,2}, \d{4}$`),
	regexp.MustCompile(`^\d{1,2} [A-Za-z]{3,9} \d{4}$`),
}

// LooksLikeDate reports whether a raw string resembles a common date format
func LooksLikeDate(value string) bool {
	for _, p := range likelyDatePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// DateValue parses a raw cell into a time, trying the known layouts
func DateValue(v interface{}) (time.Time, bool) {
	s, ok := StringValue(v)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
