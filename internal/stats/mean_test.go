package stats_test

import (
	"errors"
	"math"
	"testing"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

func TestMeanTest_KnownReference(t *testing.T) {
	control := []float64{1, 2, 3, 4, 5}
	treatment := []float64{2, 4, 6, 8, 10}

	result, err := stats.MeanTest(control, treatment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"control mean", result.Control.Mean, 3},
		{"treatment mean", result.Treatment.Mean, 6},
		{"control std", result.Control.StdDev, 1.581139},
		{"treatment std", result.Treatment.StdDev, 3.162278},
		{"t statistic", result.TStatistic, 1.897367},
		{"degrees of freedom", result.DegreesOfFreedom, 5.882353},
		{"p-value", result.PValue, 0.107531},
		{"cohen's d", result.CohensD, 1.2},
		{"lift", result.LiftPercent, 100},
		{"control CI lower", result.Control.CI.Lower, 1.036757},
		{"control CI upper", result.Control.CI.Upper, 4.963243},
		{"treatment CI lower", result.Treatment.CI.Lower, 2.073514},
		{"treatment CI upper", result.Treatment.CI.Upper, 9.926486},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-4 {
			t.Errorf("%s = %f, want ~%f", c.name, c.got, c.want)
		}
	}

	if result.Significant {
		t.Error("p ~0.11 must not be significant")
	}
	if result.EffectCategory != stats.EffectLarge {
		t.Errorf("effect category = %q, want %q", result.EffectCategory, stats.EffectLarge)
	}
	if result.Control.N != 5 || result.Treatment.N != 5 {
		t.Errorf("sizes = (%d, %d), want (5, 5)", result.Control.N, result.Treatment.N)
	}
}

func TestMeanTest_UnequalSizes(t *testing.T) {
	control := []float64{12.1, 11.8, 12.5, 13.0, 12.2, 11.9, 12.7, 12.4}
	treatment := []float64{13.2, 12.9, 13.8, 13.5, 13.1, 14.0, 13.3}

	result, err := stats.MeanTest(control, treatment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.TStatistic-5.212691) > 1e-4 {
		t.Errorf("t = %f, want ~5.212691", result.TStatistic)
	}
	if math.Abs(result.DegreesOfFreedom-12.851943) > 1e-4 {
		t.Errorf("df = %f, want ~12.851943", result.DegreesOfFreedom)
	}
	if math.Abs(result.PValue-0.000174) > 1e-5 {
		t.Errorf("p = %f, want ~0.000174", result.PValue)
	}
	if math.Abs(result.CohensD-2.690736) > 1e-4 {
		t.Errorf("d = %f, want ~2.690736", result.CohensD)
	}
	if math.Abs(result.LiftPercent-8.722110) > 1e-4 {
		t.Errorf("lift = %f, want ~8.722110", result.LiftPercent)
	}
	if !result.Significant {
		t.Error("expected a significant result")
	}
	if math.Abs(result.Treatment.CI.Lower-13.037851) > 1e-4 || math.Abs(result.Treatment.CI.Upper-13.762149) > 1e-4 {
		t.Errorf("treatment CI = [%f, %f], want ~[13.037851, 13.762149]", result.Treatment.CI.Lower, result.Treatment.CI.Upper)
	}
}

func TestMeanTest_ConstantArms(t *testing.T) {
	t.Run("equal means", func(t *testing.T) {
		result, err := stats.MeanTest([]float64{4, 4, 4}, []float64{4, 4})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TStatistic != 0 || result.PValue != 1 {
			t.Errorf("expected t=0, p=1, got t=%f, p=%f", result.TStatistic, result.PValue)
		}
		if result.DegreesOfFreedom != 3 {
			t.Errorf("df = %f, want 3", result.DegreesOfFreedom)
		}
		if result.CohensD != 0 {
			t.Errorf("d = %f, want 0", result.CohensD)
		}
	})

	t.Run("different means", func(t *testing.T) {
		result, err := stats.MeanTest([]float64{4, 4, 4}, []float64{5, 5, 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !math.IsInf(result.TStatistic, 1) {
			t.Errorf("expected t=+Inf, got %f", result.TStatistic)
		}
		if result.PValue != 0 || !result.Significant {
			t.Errorf("expected p=0 and significant, got p=%f", result.PValue)
		}
	})
}

func TestMeanTest_ZeroControlMean(t *testing.T) {
	result, err := stats.MeanTest([]float64{-1, 1, -2, 2}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LiftDefined || result.LiftPercent != 0 {
		t.Errorf("expected undefined lift reported as 0, got %f (defined=%v)", result.LiftPercent, result.LiftDefined)
	}
}

func TestMeanTest_InvalidSamples(t *testing.T) {
	tests := []struct {
		name      string
		control   []float64
		treatment []float64
	}{
		{"empty control", nil, []float64{1, 2}},
		{"single control", []float64{1}, []float64{1, 2}},
		{"single treatment", []float64{1, 2}, []float64{3}},
		{"NaN value", []float64{1, math.NaN()}, []float64{1, 2}},
		{"infinite value", []float64{1, 2}, []float64{math.Inf(1), 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stats.MeanTest(tt.control, tt.treatment)
			if !errors.Is(err, stats.ErrInvalidSample) {
				t.Fatalf("expected ErrInvalidSample, got %v", err)
			}
		})
	}
}

func TestCategorizeEffect(t *testing.T) {
	tests := []struct {
		d    float64
		want stats.EffectCategory
	}{
		{0, stats.EffectNegligible},
		{0.19, stats.EffectNegligible},
		{0.2, stats.EffectSmall},
		{-0.3, stats.EffectSmall},
		{0.5, stats.EffectMedium},
		{-0.79, stats.EffectMedium},
		{0.8, stats.EffectLarge},
		{-2.5, stats.EffectLarge},
	}

	for _, tt := range tests {
		if got := stats.CategorizeEffect(tt.d); got != tt.want {
			t.Errorf("CategorizeEffect(%f) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
