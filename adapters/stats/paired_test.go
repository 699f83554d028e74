package stats

import (
	"math"
	"testing"

	"chartlab/internal/errors"
)

func TestPairedTTest_KnownValues(t *testing.T) {
	// Differences [1,2,2,3,4]: mean 2.4, sample var 1.3,
	// t = 2.4/sqrt(1.3/5) on df=4.
	rs := pairedValues([]float64{2, 4, 6, 8, 10}, []float64{1, 2, 4, 5, 6})

	result, err := NewRunner().PairedTTest(rs, "x", "y")
	if err != nil {
		t.Fatalf("PairedTTest failed: %v", err)
	}
	wantT := 2.4 / math.Sqrt(1.3/5)
	if math.Abs(result.Statistic-wantT) > 1e-9 {
		t.Errorf("t = %v, want %v", result.Statistic, wantT)
	}
	if result.DF != 4 {
		t.Errorf("df = %v, want 4", result.DF)
	}
	if result.PValue <= 0.001 || result.PValue >= 0.05 {
		t.Errorf("p = %v, want significant but not vanishing", result.PValue)
	}
	if math.Abs(result.EffectSize-2.4/math.Sqrt(1.3)) > 1e-9 {
		t.Errorf("cohen's d = %v, want %v", result.EffectSize, 2.4/math.Sqrt(1.3))
	}
	if result.Groups["x"].N != 5 || result.Groups["y"].N != 5 {
		t.Errorf("pair stats wrong: %+v", result.Groups)
	}
}

func TestPairedTTest_ExactSmallSample(t *testing.T) {
	// n=2, differences [1,3]: t = 2 on df=1, where the t distribution is
	// Cauchy, so p = 1 - 2*atan(2)/pi exactly.
	rs := pairedValues([]float64{2, 6}, []float64{1, 3})

	result, err := NewRunner().PairedTTest(rs, "x", "y")
	if err != nil {
		t.Fatalf("PairedTTest failed: %v", err)
	}
	if math.Abs(result.Statistic-2) > 1e-9 {
		t.Errorf("t = %v, want 2", result.Statistic)
	}
	wantP := 1 - 2*math.Atan(2)/math.Pi
	if math.Abs(result.PValue-wantP) > 1e-6 {
		t.Errorf("p = %v, want %v", result.PValue, wantP)
	}
}

func TestPairedTTest_RejectsConstantDifferences(t *testing.T) {
	rs := pairedValues([]float64{2, 3, 4}, []float64{1, 2, 3})
	_, err := NewRunner().PairedTTest(rs, "x", "y")
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestWilcoxonSignedRank_KnownValues(t *testing.T) {
	// Differences [1,-2,3,4,5]: no ties, W+ = 13, W- = 2, so W = 2 and
	// z = (2 - 7.5)/sqrt(13.75), p ~ 0.1380.
	rs := pairedValues([]float64{2, 1, 4, 5, 6}, []float64{1, 3, 1, 1, 1})

	result, err := NewRunner().WilcoxonSignedRank(rs, "x", "y")
	if err != nil {
		t.Fatalf("WilcoxonSignedRank failed: %v", err)
	}
	if result.Statistic != 2 {
		t.Errorf("W = %v, want 2", result.Statistic)
	}
	if math.Abs(result.PValue-0.1380) > 1e-3 {
		t.Errorf("p = %v, want ~0.1380", result.PValue)
	}
	wantR := 5.5 / math.Sqrt(13.75) / math.Sqrt(5)
	if math.Abs(result.EffectSize-wantR) > 1e-9 {
		t.Errorf("effect r = %v, want %v", result.EffectSize, wantR)
	}
}

func TestWilcoxonSignedRank_DropsZeroDifferences(t *testing.T) {
	// Two identical pairs contribute nothing; the statistic matches the
	// five-pair case above.
	rs := pairedValues(
		[]float64{2, 1, 4, 5, 6, 7, 9},
		[]float64{1, 3, 1, 1, 1, 7, 9},
	)

	result, err := NewRunner().WilcoxonSignedRank(rs, "x", "y")
	if err != nil {
		t.Fatalf("WilcoxonSignedRank failed: %v", err)
	}
	if result.Statistic != 2 {
		t.Errorf("W = %v, want 2", result.Statistic)
	}
}

func TestWilcoxonSignedRank_RejectsAllZeroDifferences(t *testing.T) {
	rs := pairedValues([]float64{1, 2, 3}, []float64{1, 2, 3})
	_, err := NewRunner().WilcoxonSignedRank(rs, "x", "y")
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestKendall_KnownValues(t *testing.T) {
	// One discordant pair out of ten: tau = (9-1)/10 = 0.8,
	// z = 3*0.8*sqrt(20)/sqrt(30), p ~ 0.0500.
	rs := pairedValues([]float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 5, 4})

	result, err := NewRunner().Kendall(rs, "x", "y")
	if err != nil {
		t.Fatalf("Kendall failed: %v", err)
	}
	if math.Abs(result.Statistic-0.8) > 1e-9 {
		t.Errorf("tau = %v, want 0.8", result.Statistic)
	}
	if math.Abs(result.PValue-0.0500) > 1e-3 {
		t.Errorf("p = %v, want ~0.0500", result.PValue)
	}
}

func TestKendall_TauBTieCorrection(t *testing.T) {
	// 4 concordant, 0 discordant, one tied pair per field:
	// tau-b = 4/sqrt((6-1)*(6-1)) = 0.8.
	rs := pairedValues([]float64{1, 1, 2, 3}, []float64{1, 2, 3, 3})

	result, err := NewRunner().Kendall(rs, "x", "y")
	if err != nil {
		t.Fatalf("Kendall failed: %v", err)
	}
	if math.Abs(result.Statistic-0.8) > 1e-9 {
		t.Errorf("tau-b = %v, want 0.8", result.Statistic)
	}
}

func TestKendall_RejectsConstantField(t *testing.T) {
	rs := pairedValues([]float64{2, 2, 2, 2}, []float64{1, 2, 3, 4})
	_, err := NewRunner().Kendall(rs, "x", "y")
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestTiePairs(t *testing.T) {
	if got := tiePairs([]float64{1, 1, 1, 2, 2, 3}); got != 4 {
		t.Errorf("tiePairs = %v, want 4", got)
	}
	if got := tiePairs([]float64{1, 2, 3}); got != 0 {
		t.Errorf("tiePairs = %v, want 0", got)
	}
}
