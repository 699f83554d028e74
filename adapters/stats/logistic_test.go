package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// binaryOutcome builds a record set with one numeric predictor and a
// categorical outcome
func binaryOutcome(xs []float64, outcomes []string) *table.RecordSet {
	fields := []table.Field{
		{Name: "x", Type: table.FieldNumeric},
		{Name: "outcome", Type: table.FieldCategorical},
	}
	records := make([]table.Record, len(xs))
	for i := range xs {
		records[i] = table.Record{"x": xs[i], "outcome": outcomes[i]}
	}
	return table.NewRecordSet(fields, records)
}

func TestLogisticRegression_TwoByTwoKnownFit(t *testing.T) {
	// Saturated 2x2 table: at x=0 the odds of "b" are 1/3, at x=1 they are
	// 3. The MLE is intercept ln(1/3) and slope ln(9), with the classic
	// closed-form standard errors sqrt(1/3+1+1/3+1) and sqrt(1/3+1).
	rs := binaryOutcome(
		[]float64{0, 0, 0, 0, 1, 1, 1, 1},
		[]string{"a", "a", "a", "b", "a", "b", "b", "b"},
	)

	result, err := NewRunner().LogisticRegression(rs, "outcome", []string{"x"})
	require.NoError(t, err)

	assert.Equal(t, "b", result.PositiveLevel)
	assert.Equal(t, 8, result.N)
	require.Len(t, result.Coefficients, 2)

	intercept, slope := result.Coefficients[0], result.Coefficients[1]
	assert.Equal(t, "intercept", intercept.Name)
	assert.Equal(t, "x", slope.Name)
	assert.InDelta(t, math.Log(1.0/3.0), intercept.Estimate, 1e-6)
	assert.InDelta(t, math.Log(9), slope.Estimate, 1e-6)
	assert.InDelta(t, math.Sqrt(4.0/3.0), intercept.StdErr, 1e-6)
	assert.InDelta(t, math.Sqrt(8.0/3.0), slope.StdErr, 1e-6)
	assert.InDelta(t, 9, slope.OddsRatio, 1e-5)

	// llf = 6 ln(3/4) + 2 ln(1/4); null llf = 8 ln(1/2).
	llf := 6*math.Log(0.75) + 2*math.Log(0.25)
	llfNull := 8 * math.Log(0.5)
	assert.InDelta(t, llf, result.LogLikelihood, 1e-6)
	assert.InDelta(t, 1-llf/llfNull, result.McFaddenR2, 1e-6)
	assert.InDelta(t, 2*(llf-llfNull), result.ChiSquare, 1e-6)
	assert.InDelta(t, 4-2*llf, result.AIC, 1e-6)
	assert.InDelta(t, 0.75, result.Accuracy, 1e-9)
}

func TestLogisticRegression_IndependentOutcome(t *testing.T) {
	// Outcome balanced within each x level: the MLE is exactly zero for
	// both terms and the model explains nothing.
	rs := binaryOutcome(
		[]float64{0, 0, 1, 1, 0, 0, 1, 1},
		[]string{"a", "b", "a", "b", "a", "b", "a", "b"},
	)

	result, err := NewRunner().LogisticRegression(rs, "outcome", []string{"x"})
	require.NoError(t, err)

	for _, coef := range result.Coefficients {
		assert.InDelta(t, 0, coef.Estimate, 1e-9)
		assert.InDelta(t, 1, coef.OddsRatio, 1e-9)
	}
	assert.InDelta(t, 0, result.McFaddenR2, 1e-9)
	assert.InDelta(t, 0, result.ChiSquare, 1e-9)
	assert.InDelta(t, 0.5, result.Accuracy, 1e-9)
}

func TestLogisticRegression_RejectsNonBinaryOutcome(t *testing.T) {
	rs := binaryOutcome(
		[]float64{1, 2, 3, 4, 5, 6},
		[]string{"a", "b", "c", "a", "b", "c"},
	)
	_, err := NewRunner().LogisticRegression(rs, "outcome", []string{"x"})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLogisticRegression_RejectsSeparatedOutcome(t *testing.T) {
	// Perfect separation has no finite MLE; the fit must fail instead of
	// reporting runaway coefficients.
	rs := binaryOutcome(
		[]float64{1, 2, 3, 10, 11, 12},
		[]string{"a", "a", "a", "b", "b", "b"},
	)
	_, err := NewRunner().LogisticRegression(rs, "outcome", []string{"x"})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLogisticRegression_RejectsUnknownField(t *testing.T) {
	rs := binaryOutcome([]float64{1, 2, 3}, []string{"a", "b", "a"})
	_, err := NewRunner().LogisticRegression(rs, "outcome", []string{"missing"})
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
