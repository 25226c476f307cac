package stats_test

import (
	"math"
	"testing"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

func TestDescribe(t *testing.T) {
	s := stats.Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if s.N != 8 {
		t.Errorf("N = %d, want 8", s.N)
	}
	if s.Mean != 5 {
		t.Errorf("mean = %f, want 5", s.Mean)
	}
	// Unbiased: 32 / 7
	if math.Abs(s.Variance-32.0/7.0) > 1e-12 {
		t.Errorf("variance = %f, want %f", s.Variance, 32.0/7.0)
	}
	if math.Abs(s.StandardError()-math.Sqrt(32.0/7.0)/math.Sqrt(8)) > 1e-12 {
		t.Errorf("standard error = %f", s.StandardError())
	}
}

func TestDescribe_Empty(t *testing.T) {
	s := stats.Describe(nil)
	if s.N != 0 || s.Mean != 0 || s.StandardError() != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestLift(t *testing.T) {
	lift, ok := stats.Lift(0.10, 0.12)
	if !ok || math.Abs(lift-20) > 1e-9 {
		t.Errorf("Lift(0.10, 0.12) = (%f, %v), want (20, true)", lift, ok)
	}

	lift, ok = stats.Lift(0, 0.12)
	if ok || lift != 0 {
		t.Errorf("Lift(0, 0.12) = (%f, %v), want (0, false)", lift, ok)
	}
}

func TestDistributions(t *testing.T) {
	if math.Abs(stats.NormalCDF(1.959964)-0.975) > 1e-6 {
		t.Errorf("NormalCDF(1.96) = %f", stats.NormalCDF(1.959964))
	}
	if math.Abs(stats.NormalQuantile(0.8)-0.841621) > 1e-6 {
		t.Errorf("NormalQuantile(0.8) = %f", stats.NormalQuantile(0.8))
	}
	if math.Abs(stats.StudentTQuantile(0.975, 4)-2.776445) > 1e-5 {
		t.Errorf("t quantile df=4 = %f, want 2.776445", stats.StudentTQuantile(0.975, 4))
	}
	if math.Abs(stats.StudentTQuantile(0.975, 30)-2.042272) > 1e-5 {
		t.Errorf("t quantile df=30 = %f, want 2.042272", stats.StudentTQuantile(0.975, 30))
	}
	if math.Abs(stats.StudentTCDF(2.776445, 4)-0.975) > 1e-6 {
		t.Errorf("t CDF df=4 = %f, want 0.975", stats.StudentTCDF(2.776445, 4))
	}
}

func TestInterval(t *testing.T) {
	i := stats.Interval{Lower: -1, Upper: 2}
	if i.ExcludesZero() {
		t.Error("[-1, 2] contains zero")
	}
	if !i.Contains(0) || i.Contains(3) {
		t.Error("Contains is wrong")
	}
	if i.Width() != 3 {
		t.Errorf("width = %f, want 3", i.Width())
	}
	if !(stats.Interval{Lower: 0.5, Upper: 2}).ExcludesZero() {
		t.Error("[0.5, 2] excludes zero")
	}
	if !(stats.Interval{Lower: -3, Upper: -0.1}).ExcludesZero() {
		t.Error("[-3, -0.1] excludes zero")
	}
}
