package stats

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
	"runtime"
	"slices"

	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	gstat "gonum.org/v1/gonum/stat"
)

// DefaultBootstrapIterations is the resample count used when a caller has no preference.
const DefaultBootstrapIterations = 10000

// bootstrapChunk is the number of iterations drawn from one sub-generator.
// Fixed so the output does not depend on the worker count.
const bootstrapChunk = 1024

// BootstrapRequest holds the two arms and the resample count.
// Workers bounds concurrency; zero means runtime.GOMAXPROCS(0).
type BootstrapRequest struct {
	Control    []float64 `json:"control"`
	Treatment  []float64 `json:"treatment"`
	Iterations int       `json:"iterations"`
	Workers    int       `json:"workers,omitempty"`
}

// Validate checks both arms are non-empty and finite and Iterations is positive.
func (r BootstrapRequest) Validate() error {
	if len(r.Control) == 0 {
		return invalidSample("control sample is empty")
	}
	if len(r.Treatment) == 0 {
		return invalidSample("treatment sample is empty")
	}
	if err := checkFinite("control", r.Control); err != nil {
		return err
	}
	if err := checkFinite("treatment", r.Treatment); err != nil {
		return err
	}
	if r.Iterations <= 0 {
		return invalidConfiguration("iterations must be positive, got %d", r.Iterations)
	}
	if r.Workers < 0 {
		return invalidConfiguration("workers must not be negative, got %d", r.Workers)
	}
	return nil
}

// BootstrapResult is the percentile bootstrap estimate of relative lift.
type BootstrapResult struct {
	MedianLift  float64 `json:"median_lift"`
	Lower       float64 `json:"ci_95_lower"`
	Upper       float64 `json:"ci_95_upper"`
	Significant bool    `json:"is_significant"`
	Iterations  int     `json:"n_iterations"`

	// DegenerateIterations counts resamples whose control mean was zero;
	// their lift is recorded as 0.
	DegenerateIterations int `json:"degenerate_iterations"`
}

// Interval returns the 95% percentile interval.
func (r *BootstrapResult) Interval() Interval {
	return Interval{Lower: r.Lower, Upper: r.Upper}
}

// NewSource returns a generator for BootstrapLift. A nil seed draws the seed
// from crypto/rand so repeated runs differ.
func NewSource(seed *uint64) *mrand.Rand {
	if seed != nil {
		return mrand.New(mrand.NewPCG(*seed, 0))
	}
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("stats: reading entropy: %v", err))
	}
	return mrand.New(mrand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// BootstrapLift estimates the sampling distribution of the treatment-over-control
// percentage lift by resampling both arms with replacement.
//
// The iterations are split into fixed chunks; each chunk runs on its own PCG
// stream seeded serially from rng, so a seeded rng gives bit-identical results
// for any worker count. Cancelling ctx abandons the run.
func BootstrapLift(ctx context.Context, req BootstrapRequest, rng *mrand.Rand) (*BootstrapResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, invalidConfiguration("random source is nil")
	}

	workers := req.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	chunks := (req.Iterations + bootstrapChunk - 1) / bootstrapChunk
	seeds := make([][2]uint64, chunks)
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}

	lifts := make([]float64, req.Iterations)
	degenerate := make([]int, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < chunks; i++ {
		start := i * bootstrapChunk
		end := min(start+bootstrapChunk, req.Iterations)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := mrand.New(mrand.NewPCG(seeds[i][0], seeds[i][1]))
			for j := start; j < end; j++ {
				lift, ok := Lift(resampleMean(r, req.Control), resampleMean(r, req.Treatment))
				if !ok {
					degenerate[i]++
				}
				lifts[j] = lift
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bootstrap aborted: %w", err)
	}

	slices.Sort(lifts)
	median, err := mstats.Median(lifts)
	if err != nil {
		return nil, fmt.Errorf("bootstrap median: %w", err)
	}
	ci := Interval{
		Lower: gstat.Quantile(0.025, gstat.LinInterp, lifts, nil),
		Upper: gstat.Quantile(0.975, gstat.LinInterp, lifts, nil),
	}

	skipped := 0
	for _, d := range degenerate {
		skipped += d
	}

	return &BootstrapResult{
		MedianLift:           median,
		Lower:                ci.Lower,
		Upper:                ci.Upper,
		Significant:          ci.ExcludesZero(),
		Iterations:           req.Iterations,
		DegenerateIterations: skipped,
	}, nil
}

// resampleMean draws len(values) values with replacement and returns their mean.
func resampleMean(r *mrand.Rand, values []float64) float64 {
	n := len(values)
	sum := 0.0
	for k := 0; k < n; k++ {
		sum += values[r.IntN(n)]
	}
	return sum / float64(n)
}
