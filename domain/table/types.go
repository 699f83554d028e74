package table

import (
	"strconv"
	"strings"
)

// FieldType classifies a field for downstream selection UIs and runners
type FieldType string

const (
	FieldNumeric     FieldType = "numeric"
	FieldCategorical FieldType = "categorical"
	FieldDate        FieldType = "date"
	FieldText        FieldType = "text"
)

// Record is a single row: field name -> value (float64, string or nil).
// Records are never mutated after load; all derived views recompute from them.
type Record map[string]interface{}

// Field describes a single column of a record set
type Field struct {
	Name         string    `json:"name"`
	Type         FieldType `json:"type"`
	MissingCount int       `json:"missing_count"`
	UniqueCount  int       `json:"unique_count"`
}

// RecordSet is an ordered, read-only sequence of records plus its field catalog.
// It is created once at load time; every chart series is a pure function of it.
type RecordSet struct {
	fields  []Field
	records []Record
}

// NewRecordSet builds a record set from already-parsed records and catalog
func NewRecordSet(fields []Field, records []Record) *RecordSet {
	return &RecordSet{fields: fields, records: records}
}

// Len returns the number of records
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.records)
}

// Fields returns the field catalog
func (rs *RecordSet) Fields() []Field {
	if rs == nil {
		return nil
	}
	return rs.fields
}

// Field looks up a field by name
func (rs *RecordSet) Field(name string) (Field, bool) {
	if rs == nil {
		return Field{}, false
	}
	for _, f := range rs.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Records returns the ordered records. Callers must treat the slice as read-only.
func (rs *RecordSet) Records() []Record {
	if rs == nil {
		return nil
	}
	return rs.records
}

// Value returns the raw value of a field in record i, nil when missing
func (rs *RecordSet) Value(i int, field string) interface{} {
	if rs == nil || i < 0 || i >= len(rs.records) {
		return nil
	}
	return rs.records[i][field]
}

// IsMissing reports whether a raw cell value counts as null/missing
func IsMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// StringValue renders a raw cell value as its string form for grouping and
// categorical counting. Missing values return ("", false).
func StringValue(v interface{}) (string, bool) {
	if IsMissing(v) {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
