package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics of one arm.
type Summary struct {
	N        int
	Mean     float64
	Variance float64 // unbiased, n-1 denominator
	StdDev   float64
}

// Describe computes the mean and unbiased variance of values.
// Callers validate length beforehand; fewer than two values yields zero variance.
func Describe(values []float64) Summary {
	s := Summary{N: len(values)}
	if s.N == 0 {
		return s
	}
	s.Mean, _ = mstats.Mean(values)
	if s.N < 2 {
		return s
	}
	s.Variance, _ = mstats.SampleVariance(values)
	s.StdDev = math.Sqrt(s.Variance)
	return s
}

// StandardError returns the standard error of the mean.
func (s Summary) StandardError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev / math.Sqrt(float64(s.N))
}

// PooledStdDev combines two arms' variances weighted by their degrees of freedom.
func PooledStdDev(a, b Summary) float64 {
	df := float64(a.N + b.N - 2)
	if df <= 0 {
		return 0
	}
	return math.Sqrt((float64(a.N-1)*a.Variance + float64(b.N-1)*b.Variance) / df)
}

// Lift returns the percentage change of treatment over control.
// A zero control yields (0, false): the ratio is undefined, not a zero lift.
func Lift(control, treatment float64) (float64, bool) {
	if control == 0 {
		return 0, false
	}
	return (treatment - control) / control * 100, true
}
