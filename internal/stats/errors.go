package stats

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSample reports malformed or degenerate sample data: zero totals,
	// too few observations, empty or non-finite sequences.
	ErrInvalidSample = errors.New("invalid sample")

	// ErrInvalidConfiguration reports out-of-range probabilities, non-positive
	// iteration counts, or configuration that drives a denominator to zero.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

func invalidSample(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSample, fmt.Sprintf(format, args...))
}

func invalidConfiguration(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// checkFinite rejects NaN and infinite observations.
func checkFinite(arm string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidSample("%s value at index %d is not finite", arm, i)
		}
	}
	return nil
}

// openUnit reports whether p lies strictly inside (0, 1).
func openUnit(p float64) bool {
	return p > 0 && p < 1
}
