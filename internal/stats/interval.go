package stats

const (
	// SignificanceThreshold is the fixed p-value cutoff for the Significant flag.
	SignificanceThreshold = 0.05

	// ConfidenceLevel is the coverage of every per-arm interval.
	ConfidenceLevel = 0.95
)

// Interval is a closed confidence interval.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether v lies inside the interval.
func (i Interval) Contains(v float64) bool {
	return v >= i.Lower && v <= i.Upper
}

// Width returns Upper - Lower.
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// ExcludesZero reports whether the interval lies entirely on one side of zero.
func (i Interval) ExcludesZero() bool {
	return i.Lower > 0 || i.Upper < 0
}

// symmetric builds center ± halfWidth.
func symmetric(center, halfWidth float64) Interval {
	return Interval{Lower: center - halfWidth, Upper: center + halfWidth}
}
