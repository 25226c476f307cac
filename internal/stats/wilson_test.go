package stats_test

import (
	"math"
	"testing"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

func TestWilsonInterval_50PercentConversion(t *testing.T) {
	// 50 successes out of 100 trials
	ci := stats.WilsonInterval(50, 100, 0.95)

	// Expected: approximately [0.40, 0.60] with some tolerance
	if ci.Lower < 0.38 || ci.Lower > 0.42 {
		t.Errorf("lower bound %f not in expected range [0.38, 0.42]", ci.Lower)
	}
	if ci.Upper < 0.58 || ci.Upper > 0.62 {
		t.Errorf("upper bound %f not in expected range [0.58, 0.62]", ci.Upper)
	}
}

func TestWilsonInterval_LowConversion(t *testing.T) {
	ci := stats.WilsonInterval(5, 100, 0.95)

	// Should be roughly [0.02, 0.11]
	if ci.Lower < 0.01 || ci.Lower > 0.03 {
		t.Errorf("lower bound %f not in expected range [0.01, 0.03]", ci.Lower)
	}
	if ci.Upper < 0.09 || ci.Upper > 0.13 {
		t.Errorf("upper bound %f not in expected range [0.09, 0.13]", ci.Upper)
	}
}

func TestWilsonInterval_ZeroTrials(t *testing.T) {
	ci := stats.WilsonInterval(0, 0, 0.95)

	if ci.Lower != 0 || ci.Upper != 0 {
		t.Errorf("expected (0, 0) for zero trials, got (%f, %f)", ci.Lower, ci.Upper)
	}
}

func TestWilsonInterval_ZeroSuccesses(t *testing.T) {
	ci := stats.WilsonInterval(0, 100, 0.95)

	if ci.Lower != 0 {
		t.Errorf("expected lower bound 0, got %f", ci.Lower)
	}
	if ci.Upper < 0.01 || ci.Upper > 0.05 {
		t.Errorf("upper bound %f not in expected range [0.01, 0.05]", ci.Upper)
	}
}

func TestWilsonInterval_AllSuccesses(t *testing.T) {
	ci := stats.WilsonInterval(100, 100, 0.95)

	if ci.Lower < 0.95 || ci.Lower > 0.99 {
		t.Errorf("lower bound %f not in expected range [0.95, 0.99]", ci.Lower)
	}
	if ci.Upper < 0.99 || ci.Upper > 1.0 {
		t.Errorf("upper bound %f not in expected range [0.99, 1.0]", ci.Upper)
	}
}

func TestWilsonInterval_SmallSampleIsWide(t *testing.T) {
	ci := stats.WilsonInterval(5, 10, 0.95)

	if ci.Width() < 0.3 {
		t.Errorf("interval width %f too narrow for small sample", ci.Width())
	}
}

func TestZScore(t *testing.T) {
	tests := []struct {
		confidence float64
		expected   float64
		tolerance  float64
	}{
		{0.80, 1.2816, 0.001},
		{0.90, 1.645, 0.001},
		{0.95, 1.96, 0.001},
		{0.99, 2.576, 0.001},
	}

	for _, tt := range tests {
		z := stats.ZScore(tt.confidence)
		if math.Abs(z-tt.expected) > tt.tolerance {
			t.Errorf("ZScore(%f) = %f, want %f (tolerance %f)", tt.confidence, z, tt.expected, tt.tolerance)
		}
	}
}
