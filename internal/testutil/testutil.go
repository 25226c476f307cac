package testutil

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

// SetupTestStore creates a test database and returns the store.
// Uses t.TempDir() for automatic cleanup on test completion.
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// Rand returns a deterministic generator for test data.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NormalSample draws n values from N(mean, sd²).
func NormalSample(r *rand.Rand, n int, mean, sd float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = mean + sd*r.NormFloat64()
	}
	return values
}

// BernoulliCount returns the number of successes in n trials with probability p.
func BernoulliCount(r *rand.Rand, n int, p float64) int {
	successes := 0
	for i := 0; i < n; i++ {
		if r.Float64() < p {
			successes++
		}
	}
	return successes
}
