package stats

// GroupStats summarizes one group inside a test result. The interval uses
// the large-sample 1.96 critical value, matching the reference backend.
type GroupStats struct {
	N       int     `json:"n"`
	Mean    float64 `json:"mean"`
	SD      float64 `json:"std"`
	CILower float64 `json:"ci_mean_lower"`
	CIUpper float64 `json:"ci_mean_upper"`
}

// TestResult is the uniform payload of every hypothesis test
type TestResult struct {
	TestName       string                `json:"test_name"`
	TestType       string                `json:"test_type"`
	Statistic      float64               `json:"statistic"`
	PValue         float64               `json:"p_value"`
	DF             float64               `json:"df,omitempty"`
	EffectSize     float64               `json:"effect_size,omitempty"`
	Groups         map[string]GroupStats `json:"groups,omitempty"`
	Interpretation string                `json:"interpretation"`
}

// CoefficientStat is one fitted regression term
type CoefficientStat struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	TValue   float64 `json:"t_value"`
	PValue   float64 `json:"p_value"`
}

// RegressionResult is the payload of an OLS fit
type RegressionResult struct {
	Dependent    string            `json:"dependent"`
	N            int               `json:"n"`
	Coefficients []CoefficientStat `json:"coefficients"`
	RSquared     float64           `json:"r_squared"`
	AdjRSquared  float64           `json:"adj_r_squared"`
	FStatistic   float64           `json:"f_statistic"`
	FPValue      float64           `json:"f_p_value"`
	ResidualSE   float64           `json:"residual_se"`
}

// LogisticCoefficient is one fitted logistic term with its odds ratio
type LogisticCoefficient struct {
	Name      string  `json:"name"`
	Estimate  float64 `json:"estimate"`
	StdErr    float64 `json:"std_err"`
	ZValue    float64 `json:"z_value"`
	PValue    float64 `json:"p_value"`
	OddsRatio float64 `json:"odds_ratio"`
}

// LogisticResult is the payload of a binary logistic fit. PositiveLevel is
// the outcome level encoded as 1.
type LogisticResult struct {
	Dependent     string                `json:"dependent"`
	PositiveLevel string                `json:"positive_level"`
	N             int                   `json:"n"`
	Coefficients  []LogisticCoefficient `json:"coefficients"`
	McFaddenR2    float64               `json:"mcfadden_r_squared"`
	LogLikelihood float64               `json:"log_likelihood"`
	AIC           float64               `json:"aic"`
	ChiSquare     float64               `json:"chi_square"`
	ChiSquareP    float64               `json:"chi_square_p_value"`
	Accuracy      float64               `json:"accuracy"`
}

// interpretation renders the significant / not significant verdict string
func interpretation(pValue float64, significantMsg, notMsg string) string {
	if pValue < 0.05 {
		return significantMsg
	}
	return notMsg
}
