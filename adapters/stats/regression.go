package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// LinearRegression fits an ordinary least squares model of the dependent
// field on the predictor fields, with an intercept. Rows missing any involved
// value are dropped listwise.
func (r *Runner) LinearRegression(rs *table.RecordSet, dependent string, predictors []string) (*RegressionResult, error) {
	if len(predictors) == 0 {
		return nil, errors.InvalidInput("regression needs at least one predictor")
	}
	for _, f := range append([]string{dependent}, predictors...) {
		if _, ok := rs.Field(f); !ok {
			return nil, errors.NotFound(fmt.Sprintf("field %q", f))
		}
	}

	rows := completeRows(rs, dependent, predictors)
	n := len(rows)
	p := len(predictors) + 1 // including intercept
	if n <= p {
		return nil, errors.InvalidInput(fmt.Sprintf("regression needs more than %d complete rows, got %d", p, n))
	}

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, row := range rows {
		x.Set(i, 0, 1)
		for j := range predictors {
			x.Set(i, j+1, row[j+1])
		}
		y.SetVec(i, row[0])
	}

	// beta = (XᵀX)⁻¹ Xᵀy
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, errors.InvalidInput("predictors are collinear; cannot fit regression")
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)
	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	// Residuals and fit statistics
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	rss, tss := 0.0, 0.0
	yMean := mat.Sum(y) / float64(n)
	for i := 0; i < n; i++ {
		resid := y.AtVec(i) - fitted.AtVec(i)
		rss += resid * resid
		dev := y.AtVec(i) - yMean
		tss += dev * dev
	}
	if tss == 0 {
		return nil, errors.InvalidInput("dependent variable has zero variance")
	}

	dfResid := float64(n - p)
	mse := rss / dfResid
	rSquared := 1 - rss/tss
	adjRSquared := 1 - (1-rSquared)*float64(n-1)/dfResid

	dfModel := float64(p - 1)
	fStat := (tss - rss) / dfModel / mse
	fDist := distuv.F{D1: dfModel, D2: dfResid}
	fPValue := fDist.Survival(fStat)

	names := append([]string{"intercept"}, predictors...)
	coefficients := make([]CoefficientStat, p)
	for j := 0; j < p; j++ {
		se := math.Sqrt(mse * xtxInv.At(j, j))
		est := beta.AtVec(j)
		tVal := est / se
		coefficients[j] = CoefficientStat{
			Name:     names[j],
			Estimate: est,
			StdErr:   se,
			TValue:   tVal,
			PValue:   twoTailedT(tVal, dfResid),
		}
	}

	return &RegressionResult{
		Dependent:    dependent,
		N:            n,
		Coefficients: coefficients,
		RSquared:     rSquared,
		AdjRSquared:  adjRSquared,
		FStatistic:   fStat,
		FPValue:      fPValue,
		ResidualSE:   math.Sqrt(mse),
	}, nil
}

// completeRows extracts [y, x1, x2, ...] rows where every involved field has
// a numeric value
func completeRows(rs *table.RecordSet, dependent string, predictors []string) [][]float64 {
	var rows [][]float64
	for _, rec := range rs.Records() {
		row := make([]float64, 0, len(predictors)+1)
		yVal, ok := table.NumericValue(rec[dependent])
		if !ok {
			continue
		}
		row = append(row, yVal)
		complete := true
		for _, f := range predictors {
			v, ok := table.NumericValue(rec[f])
			if !ok {
				complete = false
				break
			}
			row = append(row, v)
		}
		if complete {
			rows = append(rows, row)
		}
	}
	return rows
}
