package pipeline

import (
	"testing"

	"chartlab/domain/chart"
	"chartlab/domain/table"
	"chartlab/internal/errors"
)

func dispatcherFixture() *table.RecordSet {
	fields := []table.Field{
		{Name: "score", Type: table.FieldNumeric},
		{Name: "grade", Type: table.FieldCategorical},
		{Name: "age", Type: table.FieldNumeric},
	}
	records := []table.Record{
		{"score": 10.0, "grade": "A", "age": 21.0},
		{"score": 12.0, "grade": "B", "age": 22.0},
		{"score": 11.0, "grade": "A", "age": 23.0},
		{"score": 13.0, "grade": "B", "age": 24.0},
		{"score": 9.0, "grade": "A", "age": 25.0},
	}
	return table.NewRecordSet(fields, records)
}

func TestDispatch_EveryKind(t *testing.T) {
	rs := dispatcherFixture()
	tests := []struct {
		name string
		req  chart.Request
		has  func(s *chart.Series) bool
	}{
		{"histogram", chart.Request{Kind: chart.PlotHistogram, Fields: []string{"score"}},
			func(s *chart.Series) bool { return len(s.Bins) > 0 }},
		{"box", chart.Request{Kind: chart.PlotBox, Fields: []string{"score"}},
			func(s *chart.Series) bool { return len(s.BoxStats) == 1 }},
		{"density", chart.Request{Kind: chart.PlotDensity, Fields: []string{"score"}},
			func(s *chart.Series) bool { return len(s.Curves) == 1 }},
		{"mean ci", chart.Request{Kind: chart.PlotMeanCI, Fields: []string{"score"}},
			func(s *chart.Series) bool { return len(s.MeanCIs) == 1 }},
		{"bar", chart.Request{Kind: chart.PlotBar, Fields: []string{"grade"}},
			func(s *chart.Series) bool { return len(s.Frequencies) == 2 }},
		{"stacked bar", chart.Request{Kind: chart.PlotBar, Fields: []string{"grade"}, GroupField: "grade"},
			func(s *chart.Series) bool { return s.Stacked != nil }},
		{"scatter", chart.Request{Kind: chart.PlotScatter, Fields: []string{"age", "score"}},
			func(s *chart.Series) bool { return len(s.Scatter) == 1 }},
		{"grouped box", chart.Request{Kind: chart.PlotBox, Fields: []string{"score"}, GroupField: "grade"},
			func(s *chart.Series) bool { return len(s.BoxStats) == 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := Dispatch(rs, tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if series.Empty {
				t.Fatal("unexpected empty series")
			}
			if !tt.has(series) {
				t.Errorf("series missing expected payload: %+v", series)
			}
		})
	}
}

func TestDispatch_UnknownKindFailsFast(t *testing.T) {
	_, err := Dispatch(dispatcherFixture(), chart.Request{Kind: "pie", Fields: []string{"score"}})
	if err == nil {
		t.Fatal("expected error for unknown plot kind")
	}
	if errors.GetCode(err) != errors.CodeUnknownPlotKind {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.CodeUnknownPlotKind)
	}
}

// Missing selections and empty extractions are valid outcomes, clearly
// distinct from the unknown-kind programming error.
func TestDispatch_NoDataIsNotAnError(t *testing.T) {
	rs := dispatcherFixture()
	tests := []struct {
		name string
		req  chart.Request
	}{
		{"no fields", chart.Request{Kind: chart.PlotHistogram}},
		{"empty field name", chart.Request{Kind: chart.PlotBox, Fields: []string{""}}},
		{"scatter missing second field", chart.Request{Kind: chart.PlotScatter, Fields: []string{"age"}}},
		{"unknown field", chart.Request{Kind: chart.PlotDensity, Fields: []string{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := Dispatch(rs, tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !series.Empty {
				t.Errorf("expected empty series, got %+v", series)
			}
		})
	}
}

func TestDispatch_Deterministic(t *testing.T) {
	rs := dispatcherFixture()
	req := chart.Request{Kind: chart.PlotDensity, Fields: []string{"score"}, GroupField: "grade"}

	a, _ := Dispatch(rs, req)
	b, _ := Dispatch(rs, req)
	if len(a.Curves) != len(b.Curves) {
		t.Fatal("repeated dispatch produced different curve counts")
	}
	for i := range a.Curves {
		for j := range a.Curves[i].Points {
			if a.Curves[i].Points[j] != b.Curves[i].Points[j] {
				t.Fatalf("repeated dispatch differs at curve %d point %d", i, j)
			}
		}
	}
}
