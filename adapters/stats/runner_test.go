package stats

import (
	"math"
	"testing"

	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// groupedValues builds a record set with one numeric and one grouping field
func groupedValues(groups map[string][]float64, order []string) *table.RecordSet {
	fields := []table.Field{
		{Name: "value", Type: table.FieldNumeric},
		{Name: "group", Type: table.FieldCategorical},
	}
	var records []table.Record
	for _, key := range order {
		for _, v := range groups[key] {
			records = append(records, table.Record{"value": v, "group": key})
		}
	}
	return table.NewRecordSet(fields, records)
}

func pairedValues(xs, ys []float64) *table.RecordSet {
	fields := []table.Field{
		{Name: "x", Type: table.FieldNumeric},
		{Name: "y", Type: table.FieldNumeric},
	}
	records := make([]table.Record, len(xs))
	for i := range xs {
		records[i] = table.Record{"x": xs[i], "y": ys[i]}
	}
	return table.NewRecordSet(fields, records)
}

func TestTTest_KnownValues(t *testing.T) {
	// Equal variances, mean shift of 2: t = -2.0 on df=8.
	rs := groupedValues(map[string][]float64{
		"a": {1, 2, 3, 4, 5},
		"b": {3, 4, 5, 6, 7},
	}, []string{"a", "b"})

	result, err := NewRunner().TTest(rs, "value", "group")
	if err != nil {
		t.Fatalf("TTest failed: %v", err)
	}
	if math.Abs(result.Statistic-(-2.0)) > 1e-9 {
		t.Errorf("t = %v, want -2.0", result.Statistic)
	}
	if result.DF != 8 {
		t.Errorf("df = %v, want 8", result.DF)
	}
	if math.Abs(result.PValue-0.0805) > 1e-3 {
		t.Errorf("p = %v, want ~0.0805", result.PValue)
	}
	if math.Abs(result.EffectSize-(-2.0/math.Sqrt(2.5))) > 1e-9 {
		t.Errorf("cohen's d = %v, want %v", result.EffectSize, -2.0/math.Sqrt(2.5))
	}
	if result.Groups["a"].N != 5 || result.Groups["b"].N != 5 {
		t.Errorf("group sizes wrong: %+v", result.Groups)
	}
}

func TestTTest_RejectsWrongGroupCount(t *testing.T) {
	rs := groupedValues(map[string][]float64{
		"a": {1, 2}, "b": {3, 4}, "c": {5, 6},
	}, []string{"a", "b", "c"})
	_, err := NewRunner().TTest(rs, "value", "group")
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestANOVA_KnownValues(t *testing.T) {
	// ssBetween=6, ssWithin=6, F=(6/2)/(6/6)=3 on (2,6).
	// For d1=2, p = (1 + 2F/d2)^(-d2/2) = 2^-3 = 0.125 exactly.
	rs := groupedValues(map[string][]float64{
		"a": {1, 2, 3},
		"b": {2, 3, 4},
		"c": {3, 4, 5},
	}, []string{"a", "b", "c"})

	result, err := NewRunner().ANOVA(rs, "value", "group")
	if err != nil {
		t.Fatalf("ANOVA failed: %v", err)
	}
	if math.Abs(result.Statistic-3.0) > 1e-9 {
		t.Errorf("F = %v, want 3.0", result.Statistic)
	}
	if math.Abs(result.PValue-0.125) > 1e-9 {
		t.Errorf("p = %v, want 0.125", result.PValue)
	}
	if math.Abs(result.EffectSize-0.5) > 1e-9 {
		t.Errorf("eta squared = %v, want 0.5", result.EffectSize)
	}
}

func TestMannWhitney_SeparatedGroups(t *testing.T) {
	// Fully separated groups: U = 0.
	rs := groupedValues(map[string][]float64{
		"a": {1, 2, 3},
		"b": {4, 5, 6},
	}, []string{"a", "b"})

	result, err := NewRunner().MannWhitney(rs, "value", "group")
	if err != nil {
		t.Fatalf("MannWhitney failed: %v", err)
	}
	if result.Statistic != 0 {
		t.Errorf("U = %v, want 0", result.Statistic)
	}
	if result.PValue < 0.05 || result.PValue > 0.12 {
		t.Errorf("p = %v, want ~0.08 under normal approximation", result.PValue)
	}
}

func TestKruskalWallis_KnownValues(t *testing.T) {
	// Rank sums 6, 15, 24 over n=9: H = 7.2 on df=2, p = exp(-3.6).
	rs := groupedValues(map[string][]float64{
		"a": {1, 2, 3},
		"b": {4, 5, 6},
		"c": {7, 8, 9},
	}, []string{"a", "b", "c"})

	result, err := NewRunner().KruskalWallis(rs, "value", "group")
	if err != nil {
		t.Fatalf("KruskalWallis failed: %v", err)
	}
	if math.Abs(result.Statistic-7.2) > 1e-9 {
		t.Errorf("H = %v, want 7.2", result.Statistic)
	}
	if math.Abs(result.PValue-math.Exp(-3.6)) > 1e-9 {
		t.Errorf("p = %v, want %v", result.PValue, math.Exp(-3.6))
	}
}

func TestChiSquare_PerfectAssociation(t *testing.T) {
	fields := []table.Field{
		{Name: "color", Type: table.FieldCategorical},
		{Name: "shape", Type: table.FieldCategorical},
	}
	var records []table.Record
	for i := 0; i < 10; i++ {
		records = append(records, table.Record{"color": "red", "shape": "circle"})
		records = append(records, table.Record{"color": "blue", "shape": "square"})
	}
	rs := table.NewRecordSet(fields, records)

	result, err := NewRunner().ChiSquare(rs, "color", "shape")
	if err != nil {
		t.Fatalf("ChiSquare failed: %v", err)
	}
	if math.Abs(result.Statistic-20.0) > 1e-9 {
		t.Errorf("chi2 = %v, want 20", result.Statistic)
	}
	if result.DF != 1 {
		t.Errorf("df = %v, want 1", result.DF)
	}
	if math.Abs(result.EffectSize-1.0) > 1e-9 {
		t.Errorf("cramer's v = %v, want 1", result.EffectSize)
	}
	if result.PValue > 0.001 {
		t.Errorf("p = %v, want near zero", result.PValue)
	}
}

func TestChiSquare_RejectsSingleLevel(t *testing.T) {
	fields := []table.Field{
		{Name: "a", Type: table.FieldCategorical},
		{Name: "b", Type: table.FieldCategorical},
	}
	rs := table.NewRecordSet(fields, []table.Record{
		{"a": "x", "b": "p"}, {"a": "x", "b": "q"},
	})
	_, err := NewRunner().ChiSquare(rs, "a", "b")
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestPearson_PerfectLinear(t *testing.T) {
	rs := pairedValues([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10})
	result, err := NewRunner().Pearson(rs, "x", "y")
	if err != nil {
		t.Fatalf("Pearson failed: %v", err)
	}
	if math.Abs(result.Statistic-1.0) > 1e-9 {
		t.Errorf("r = %v, want 1", result.Statistic)
	}
	if result.PValue > 1e-9 {
		t.Errorf("p = %v, want 0 for perfect correlation", result.PValue)
	}
}

func TestSpearman_MonotonicNonlinear(t *testing.T) {
	// Cubic growth is nonlinear but perfectly monotonic.
	xs := []float64{1, 2, 3, 4, 5, 6}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = x * x * x
	}
	rs := pairedValues(xs, ys)

	result, err := NewRunner().Spearman(rs, "x", "y")
	if err != nil {
		t.Fatalf("Spearman failed: %v", err)
	}
	if math.Abs(result.Statistic-1.0) > 1e-9 {
		t.Errorf("rho = %v, want 1", result.Statistic)
	}
}

func TestRankWithTies(t *testing.T) {
	ranks, tieTerm := rankWithTies([]float64{1, 2, 2, 3})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if ranks[i] != want[i] {
			t.Errorf("ranks = %v, want %v", ranks, want)
			break
		}
	}
	// One tie group of size 2: 2^3 - 2 = 6.
	if tieTerm != 6 {
		t.Errorf("tie term = %v, want 6", tieTerm)
	}
}

func TestNumericGroups_SkipsMissing(t *testing.T) {
	fields := []table.Field{
		{Name: "value", Type: table.FieldNumeric},
		{Name: "group", Type: table.FieldCategorical},
	}
	rs := table.NewRecordSet(fields, []table.Record{
		{"value": 1.0, "group": "a"},
		{"value": nil, "group": "a"},
		{"value": 2.0, "group": "b"},
		{"value": 3.0, "group": nil},
	})
	groups, err := numericGroups(rs, "value", "group", 0)
	if err != nil {
		t.Fatalf("numericGroups failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if len(groups[0].values) != 1 || len(groups[1].values) != 1 {
		t.Errorf("group sizes = %d/%d, want 1/1", len(groups[0].values), len(groups[1].values))
	}
}
