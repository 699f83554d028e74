package tabular

import (
	"strings"
	"testing"

	"chartlab/domain/table"
)

const fixtureCSV = `name,age,salary,department,hired
alice,34,70000,engineering,2020-01-15
bob,28,52000,sales,2021-03-02
carol,41,,engineering,2019-11-20
dan,,61000,sales,2022-07-08
erin,37,80000,engineering,2018-05-30
`

func fixtureRecordSet(t *testing.T) *table.RecordSet {
	t.Helper()
	rows, err := ReadCSV(strings.NewReader(fixtureCSV))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	rs, err := BuildRecordSet(rows)
	if err != nil {
		t.Fatalf("BuildRecordSet failed: %v", err)
	}
	return rs
}

func TestBuildRecordSet_Shape(t *testing.T) {
	rs := fixtureRecordSet(t)
	if rs.Len() != 5 {
		t.Errorf("len = %d, want 5", rs.Len())
	}
	if len(rs.Fields()) != 5 {
		t.Errorf("fields = %d, want 5", len(rs.Fields()))
	}
}

func TestBuildRecordSet_TypeInference(t *testing.T) {
	rs := fixtureRecordSet(t)
	tests := []struct {
		field string
		want  table.FieldType
	}{
		{"name", table.FieldCategorical},
		{"age", table.FieldNumeric},
		{"salary", table.FieldNumeric},
		{"department", table.FieldCategorical},
		{"hired", table.FieldDate},
	}
	for _, tt := range tests {
		f, ok := rs.Field(tt.field)
		if !ok {
			t.Fatalf("field %q missing", tt.field)
		}
		if f.Type != tt.want {
			t.Errorf("field %q type = %q, want %q", tt.field, f.Type, tt.want)
		}
	}
}

func TestBuildRecordSet_MissingCells(t *testing.T) {
	rs := fixtureRecordSet(t)

	age, _ := rs.Field("age")
	if age.MissingCount != 1 {
		t.Errorf("age missing = %d, want 1", age.MissingCount)
	}
	salary, _ := rs.Field("salary")
	if salary.MissingCount != 1 {
		t.Errorf("salary missing = %d, want 1", salary.MissingCount)
	}

	// Missing cells drop out of numeric extraction.
	if got := rs.NumericVector("age"); len(got) != 4 {
		t.Errorf("age vector = %v, want 4 values", got)
	}
}

func TestBuildRecordSet_RaggedRows(t *testing.T) {
	rows := [][]string{
		{"a", "b", "c"},
		{"1", "2", "3"},
		{"4", "5"},
		{"6"},
	}
	rs, err := BuildRecordSet(rows)
	if err != nil {
		t.Fatalf("BuildRecordSet failed: %v", err)
	}
	if rs.Len() != 3 {
		t.Fatalf("len = %d, want 3", rs.Len())
	}
	if got := rs.NumericVector("c"); len(got) != 1 || got[0] != 3 {
		t.Errorf("column c = %v, want [3]", got)
	}
}

func TestBuildRecordSet_RejectsHeaderOnly(t *testing.T) {
	if _, err := BuildRecordSet([][]string{{"a", "b"}}); err == nil {
		t.Error("expected error for header-only input")
	}
}

func TestNewDataReader_PicksFormat(t *testing.T) {
	if r := NewDataReader("data.csv"); r.fileType != "csv" {
		t.Errorf("fileType = %q, want csv", r.fileType)
	}
	if r := NewDataReader("data.xlsx"); r.fileType != "xlsx" {
		t.Errorf("fileType = %q, want xlsx", r.fileType)
	}
}
