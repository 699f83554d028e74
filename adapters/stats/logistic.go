package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"chartlab/domain/table"
	"chartlab/internal/errors"
)

const (
	logisticMaxIter = 50
	logisticTol     = 1e-10
)

// LogisticRegression fits a binary logistic model of the dependent field on
// the numeric predictor fields via iteratively reweighted least squares, with
// an intercept. The outcome must have exactly two distinct levels; the
// lexicographically larger level is encoded as 1. Rows missing any involved
// value are dropped listwise.
func (r *Runner) LogisticRegression(rs *table.RecordSet, dependent string, predictors []string) (*LogisticResult, error) {
	if len(predictors) == 0 {
		return nil, errors.InvalidInput("regression needs at least one predictor")
	}
	for _, f := range append([]string{dependent}, predictors...) {
		if _, ok := rs.Field(f); !ok {
			return nil, errors.NotFound(fmt.Sprintf("field %q", f))
		}
	}

	ys, rows, positive, err := binaryRows(rs, dependent, predictors)
	if err != nil {
		return nil, err
	}
	n := len(ys)
	p := len(predictors) + 1 // including intercept
	if n <= p {
		return nil, errors.InvalidInput(fmt.Sprintf("regression needs more than %d complete rows, got %d", p, n))
	}

	x := mat.NewDense(n, p, nil)
	for i, row := range rows {
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
	}

	beta, cov, err := fitLogistic(x, ys)
	if err != nil {
		return nil, err
	}

	// Fitted probabilities, log-likelihood and in-sample accuracy
	var eta mat.VecDense
	eta.MulVec(x, beta)
	llf := 0.0
	correct := 0
	for i := 0; i < n; i++ {
		prob := sigmoid(eta.AtVec(i))
		if ys[i] == 1 {
			llf += math.Log(prob)
		} else {
			llf += math.Log(1 - prob)
		}
		if (prob > 0.5) == (ys[i] == 1) {
			correct++
		}
	}

	// Null model (intercept only) for McFadden R² and the likelihood-ratio
	// chi-square of the whole model
	pBar := mean(ys)
	llfNull := float64(n) * (pBar*math.Log(pBar) + (1-pBar)*math.Log(1-pBar))
	dfModel := float64(p - 1)
	chiStat := 2 * (llf - llfNull)
	chiP := distuv.ChiSquared{K: dfModel}.Survival(chiStat)

	names := append([]string{"intercept"}, predictors...)
	coefficients := make([]LogisticCoefficient, p)
	for j := 0; j < p; j++ {
		est := beta.AtVec(j)
		se := math.Sqrt(cov.At(j, j))
		z := est / se
		coefficients[j] = LogisticCoefficient{
			Name:      names[j],
			Estimate:  est,
			StdErr:    se,
			ZValue:    z,
			PValue:    2 * distuv.UnitNormal.CDF(-math.Abs(z)),
			OddsRatio: math.Exp(est),
		}
	}

	return &LogisticResult{
		Dependent:     dependent,
		PositiveLevel: positive,
		N:             n,
		Coefficients:  coefficients,
		McFaddenR2:    1 - llf/llfNull,
		LogLikelihood: llf,
		AIC:           2*float64(p) - 2*llf,
		ChiSquare:     chiStat,
		ChiSquareP:    chiP,
		Accuracy:      float64(correct) / float64(n),
	}, nil
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// binaryRows extracts the complete rows and 0/1-encodes the outcome. Returns
// the level encoded as 1.
func binaryRows(rs *table.RecordSet, dependent string, predictors []string) (ys []float64, rows [][]float64, positive string, err error) {
	var labels []string
	for _, rec := range rs.Records() {
		label, ok := table.StringValue(rec[dependent])
		if !ok {
			continue
		}
		row := make([]float64, 0, len(predictors))
		complete := true
		for _, f := range predictors {
			v, ok := table.NumericValue(rec[f])
			if !ok {
				complete = false
				break
			}
			row = append(row, v)
		}
		if !complete {
			continue
		}
		labels = append(labels, label)
		rows = append(rows, row)
	}

	levels := make(map[string]bool)
	for _, l := range labels {
		levels[l] = true
	}
	if len(levels) != 2 {
		return nil, nil, "", errors.InvalidInput(fmt.Sprintf("logistic regression requires a binary outcome, got %d levels", len(levels)))
	}
	ordered := make([]string, 0, 2)
	for l := range levels {
		ordered = append(ordered, l)
	}
	sort.Strings(ordered)
	positive = ordered[1]

	ys = make([]float64, len(labels))
	for i, l := range labels {
		if l == positive {
			ys[i] = 1
		}
	}
	return ys, rows, positive, nil
}

// fitLogistic runs Newton-Raphson on the logistic log-likelihood. Returns the
// coefficient vector and the inverse Fisher information (the coefficient
// covariance) at convergence. A fit that has not converged within the
// iteration cap is rejected rather than reported; perfect separation is the
// usual cause.
func fitLogistic(x *mat.Dense, ys []float64) (*mat.VecDense, *mat.Dense, error) {
	n, p := x.Dims()
	beta := mat.NewVecDense(p, nil)

	for iter := 0; iter < logisticMaxIter; iter++ {
		var eta mat.VecDense
		eta.MulVec(x, beta)

		// XᵀWX with W = diag(p(1-p)), and the score Xᵀ(y - p)
		xtwx := mat.NewDense(p, p, nil)
		score := mat.NewVecDense(p, nil)
		for i := 0; i < n; i++ {
			prob := sigmoid(eta.AtVec(i))
			w := prob * (1 - prob)
			for a := 0; a < p; a++ {
				score.SetVec(a, score.AtVec(a)+x.At(i, a)*(ys[i]-prob))
				for b := 0; b < p; b++ {
					xtwx.Set(a, b, xtwx.At(a, b)+w*x.At(i, a)*x.At(i, b))
				}
			}
		}

		var xtwxInv mat.Dense
		if err := xtwxInv.Inverse(xtwx); err != nil {
			return nil, nil, errors.InvalidInput("predictors are collinear; cannot fit regression")
		}
		var delta mat.VecDense
		delta.MulVec(&xtwxInv, score)
		beta.AddVec(beta, &delta)

		if mat.Norm(&delta, math.Inf(1)) < logisticTol {
			return beta, &xtwxInv, nil
		}
	}
	return nil, nil, errors.InvalidInput("logistic fit did not converge; the outcome may be perfectly separated")
}
