package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalCDF returns Φ(x), the standard normal cumulative distribution function.
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile returns Φ⁻¹(p), the inverse of the standard normal CDF.
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// StudentTCDF returns the Student-t CDF at t for df degrees of freedom.
// df may be fractional, as produced by the Welch-Satterthwaite equation.
func StudentTCDF(t, df float64) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(t)
}

// StudentTQuantile returns the Student-t quantile at p for df degrees of freedom.
func StudentTQuantile(p, df float64) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(p)
}

// ZScore returns the two-sided critical value for a given confidence level.
// Common values:
//   - 0.90 -> 1.645
//   - 0.95 -> 1.96
//   - 0.99 -> 2.576
func ZScore(confidence float64) float64 {
	return NormalQuantile((1 + confidence) / 2)
}

// twoTailedNormal returns the two-tailed p-value of a standard normal statistic.
func twoTailedNormal(z float64) float64 {
	return 2 * (1 - NormalCDF(math.Abs(z)))
}

// twoTailedT returns the two-tailed p-value of a t statistic.
func twoTailedT(t, df float64) float64 {
	return 2 * (1 - StudentTCDF(math.Abs(t), df))
}
