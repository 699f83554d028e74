package tabular

import (
	"chartlab/domain/table"
)

const (
	// inferSampleSize caps how many non-null cells type inference examines
	inferSampleSize = 200
	// typeThreshold is the share of sampled values that must parse for a
	// column to take a numeric or date classification
	typeThreshold = 0.8
	// categoricalMaxUnique bounds how many distinct values a text column may
	// have and still be treated as categorical
	categoricalMaxUnique = 50
)

// inferFields classifies every column and computes its missing/unique counts.
// Classification is best-effort: extraction stays lenient regardless, so a
// wrong guess only affects which selectors a UI offers.
func inferFields(headers []string, records []table.Record) []table.Field {
	fields := make([]table.Field, len(headers))
	for i, name := range headers {
		fields[i] = inferField(name, records)
	}
	return fields
}

func inferField(name string, records []table.Record) table.Field {
	field := table.Field{Name: name}

	unique := make(map[string]struct{})
	sampled, numeric, dates := 0, 0, 0
	for _, rec := range records {
		v := rec[name]
		if table.IsMissing(v) {
			field.MissingCount++
			continue
		}
		s, _ := table.StringValue(v)
		unique[s] = struct{}{}

		if sampled >= inferSampleSize {
			continue
		}
		sampled++
		if _, ok := table.NumericValue(v); ok {
			numeric++
		} else if table.LooksLikeDate(s) {
			dates++
		}
	}
	field.UniqueCount = len(unique)

	switch {
	case sampled == 0:
		field.Type = table.FieldText
	case float64(numeric)/float64(sampled) >= typeThreshold:
		field.Type = table.FieldNumeric
	case float64(dates)/float64(sampled) >= typeThreshold:
		field.Type = table.FieldDate
	case field.UniqueCount <= categoricalMaxUnique:
		field.Type = table.FieldCategorical
	default:
		field.Type = table.FieldText
	}
	return field
}
