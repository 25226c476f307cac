package stats

import "math"

// WilsonInterval calculates the Wilson score confidence interval
// for a binomial proportion. It's more accurate for small samples
// than the normal approximation.
func WilsonInterval(successes, trials int, confidence float64) Interval {
	if trials == 0 {
		return Interval{}
	}

	z := ZScore(confidence)
	p := float64(successes) / float64(trials)
	n := float64(trials)

	denominator := 1 + z*z/n
	center := (p + z*z/(2*n)) / denominator
	spread := (z / denominator) * math.Sqrt(p*(1-p)/n+z*z/(4*n*n))

	// Clamp to [0, 1]
	return Interval{
		Lower: math.Max(center-spread, 0),
		Upper: math.Min(center+spread, 1),
	}
}
