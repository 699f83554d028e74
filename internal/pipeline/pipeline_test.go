package pipeline

import (
	"chartlab/domain/table"
)

// numericRecords builds a one-field record set from raw values
func numericRecords(field string, values ...interface{}) *table.RecordSet {
	fields := []table.Field{{Name: field, Type: table.FieldNumeric}}
	records := make([]table.Record, len(values))
	for i, v := range values {
		records[i] = table.Record{field: v}
	}
	return table.NewRecordSet(fields, records)
}

// groupedRecords builds a (value, group) record set from parallel slices
func groupedRecords(field, groupField string, values []float64, groups []string) *table.RecordSet {
	fields := []table.Field{
		{Name: field, Type: table.FieldNumeric},
		{Name: groupField, Type: table.FieldCategorical},
	}
	records := make([]table.Record, len(values))
	for i := range values {
		records[i] = table.Record{field: values[i], groupField: groups[i]}
	}
	return table.NewRecordSet(fields, records)
}

// floats converts a record set column back for assertions
func floatsOf(values []float64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
