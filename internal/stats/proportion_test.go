package stats_test

import (
	"errors"
	"math"
	"testing"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/testutil"
)

func TestProportionTest_KnownReference(t *testing.T) {
	// 8.5% vs 9.5% on 10,000 units each
	result, err := stats.ProportionTest(
		stats.ProportionSample{Successes: 850, Total: 10000},
		stats.ProportionSample{Successes: 950, Total: 10000},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.Control.Rate-0.085) > 1e-12 {
		t.Errorf("control rate = %f, want 0.085", result.Control.Rate)
	}
	if math.Abs(result.Treatment.Rate-0.095) > 1e-12 {
		t.Errorf("treatment rate = %f, want 0.095", result.Treatment.Rate)
	}
	if math.Abs(result.ZScore-2.470831) > 1e-5 {
		t.Errorf("z = %f, want ~2.470831", result.ZScore)
	}
	if math.Abs(result.PValue-0.013480) > 1e-5 {
		t.Errorf("p = %f, want ~0.013480", result.PValue)
	}
	if !result.Significant {
		t.Error("expected a significant result")
	}
	if math.Abs(result.LiftPercent-11.764706) > 1e-5 {
		t.Errorf("lift = %f, want ~11.7647", result.LiftPercent)
	}
	if !result.LiftDefined {
		t.Error("expected lift to be defined")
	}
	if result.ConfidenceLevel != 0.95 {
		t.Errorf("confidence level = %f, want 0.95", result.ConfidenceLevel)
	}

	// Normal-approximation intervals
	if math.Abs(result.Control.CI.Lower-0.079534) > 1e-5 || math.Abs(result.Control.CI.Upper-0.090466) > 1e-5 {
		t.Errorf("control CI = [%f, %f], want ~[0.079534, 0.090466]", result.Control.CI.Lower, result.Control.CI.Upper)
	}
	if math.Abs(result.Treatment.CI.Lower-0.089253) > 1e-5 || math.Abs(result.Treatment.CI.Upper-0.100747) > 1e-5 {
		t.Errorf("treatment CI = [%f, %f], want ~[0.089253, 0.100747]", result.Treatment.CI.Lower, result.Treatment.CI.Upper)
	}
}

func TestProportionTest_NoDifference(t *testing.T) {
	result, err := stats.ProportionTest(
		stats.ProportionSample{Successes: 50, Total: 1000},
		stats.ProportionSample{Successes: 50, Total: 1000},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ZScore != 0 {
		t.Errorf("expected z = 0 for equal rates, got %f", result.ZScore)
	}
	if math.Abs(result.PValue-1) > 1e-12 {
		t.Errorf("expected p = 1 for equal rates, got %f", result.PValue)
	}
	if result.Significant {
		t.Error("equal rates must not be significant")
	}
}

func TestProportionTest_SmallSample(t *testing.T) {
	// Small samples should not show significance even with different rates
	result, err := stats.ProportionTest(
		stats.ProportionSample{Successes: 2, Total: 20},
		stats.ProportionSample{Successes: 5, Total: 20},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Significant {
		t.Errorf("expected no significance for small sample, got p = %f", result.PValue)
	}
}

func TestProportionTest_ZeroPooledVariance(t *testing.T) {
	for _, successes := range []int{0, 100} {
		result, err := stats.ProportionTest(
			stats.ProportionSample{Successes: successes, Total: 100},
			stats.ProportionSample{Successes: successes * 2, Total: 200},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ZScore != 0 || result.PValue != 1 {
			t.Errorf("successes=%d: expected z=0, p=1, got z=%f, p=%f", successes, result.ZScore, result.PValue)
		}
	}
}

func TestProportionTest_ZeroControlRate(t *testing.T) {
	result, err := stats.ProportionTest(
		stats.ProportionSample{Successes: 0, Total: 500},
		stats.ProportionSample{Successes: 25, Total: 500},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.LiftPercent != 0 {
		t.Errorf("expected lift reported as 0 for zero control, got %f", result.LiftPercent)
	}
	if result.LiftDefined {
		t.Error("expected lift to be flagged as undefined")
	}
	if !result.Significant {
		t.Errorf("0/500 vs 25/500 should be significant, got p = %f", result.PValue)
	}
}

func TestProportionTest_WilsonIntervalIncluded(t *testing.T) {
	result, err := stats.ProportionTest(
		stats.ProportionSample{Successes: 100, Total: 1000},
		stats.ProportionSample{Successes: 150, Total: 1000},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, arm := range map[string]stats.ArmRate{"control": result.Control, "treatment": result.Treatment} {
		if !arm.WilsonCI.Contains(arm.Rate) {
			t.Errorf("%s: Wilson CI [%f, %f] should contain rate %f", name, arm.WilsonCI.Lower, arm.WilsonCI.Upper, arm.Rate)
		}
		if arm.WilsonCI.Lower < 0 || arm.WilsonCI.Upper > 1 {
			t.Errorf("%s: Wilson CI [%f, %f] out of bounds", name, arm.WilsonCI.Lower, arm.WilsonCI.Upper)
		}
	}
}

func TestProportionTest_InvalidSamples(t *testing.T) {
	valid := stats.ProportionSample{Successes: 10, Total: 100}

	tests := []struct {
		name      string
		control   stats.ProportionSample
		treatment stats.ProportionSample
	}{
		{"zero control total", stats.ProportionSample{Successes: 0, Total: 0}, valid},
		{"zero treatment total", valid, stats.ProportionSample{Successes: 0, Total: 0}},
		{"successes exceed total", stats.ProportionSample{Successes: 101, Total: 100}, valid},
		{"negative successes", valid, stats.ProportionSample{Successes: -1, Total: 100}},
		{"negative total", stats.ProportionSample{Successes: 0, Total: -5}, valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := stats.ProportionTest(tt.control, tt.treatment)
			if !errors.Is(err, stats.ErrInvalidSample) {
				t.Fatalf("expected ErrInvalidSample, got %v", err)
			}
			if result != nil {
				t.Error("expected no result on error")
			}
		})
	}
}

// Samples sized by PowerPlan should be detected in roughly DesiredPower of trials.
func TestProportionTest_DetectsAtPlannedPower(t *testing.T) {
	plan, err := stats.PowerPlan(stats.PowerPlanRequest{
		BaselineRate:            0.10,
		MinimumDetectableEffect: 0.5,
	}.WithDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.SampleSizePerArm != 686 {
		t.Fatalf("sample size = %d, want 686", plan.SampleSizePerArm)
	}

	r := testutil.Rand(2024)
	const trials = 500
	rejected := 0
	for i := 0; i < trials; i++ {
		n := plan.SampleSizePerArm
		result, err := stats.ProportionTest(
			stats.ProportionSample{Successes: testutil.BernoulliCount(r, n, plan.BaselineRate), Total: n},
			stats.ProportionSample{Successes: testutil.BernoulliCount(r, n, plan.ExpectedTreatmentRate), Total: n},
		)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", i, err)
		}
		if result.Significant {
			rejected++
		}
	}

	rate := float64(rejected) / trials
	if math.Abs(rate-plan.DesiredPower) > 0.07 {
		t.Errorf("rejection rate %f not within 0.07 of planned power %f", rate, plan.DesiredPower)
	}
}
