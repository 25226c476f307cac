// Package analysis runs the statistical tests on experiments held in the
// sample store.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

// Options controls which tests Run performs.
type Options struct {
	// Treatment selects the arm compared against the control (the first arm).
	// Empty means the second arm.
	Treatment string

	Bootstrap  bool
	Iterations int
	Workers    int
	Seed       *uint64
}

// Recorder receives the outcome of each test run. metrics.Metrics satisfies it.
type Recorder interface {
	RecordAnalysis(test string, err error)
	RecordBootstrap(iterations int, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordAnalysis(string, error) {}

func (nopRecorder) RecordBootstrap(int, time.Duration) {}

// Source is the part of the sample store Run reads from.
type Source interface {
	GetExperiment(ctx context.Context, name string) (*store.Experiment, error)
	ArmValues(ctx context.Context, experiment, arm string) ([]float64, error)
	ArmCounts(ctx context.Context, experiment string) ([]store.ArmCount, error)
}

// Run analyzes one stored experiment. Conversion experiments get the
// two-proportion z-test, continuous ones the Welch t-test; either may add
// a bootstrap of the relative lift.
func Run(ctx context.Context, src Source, name string, opts Options, rec Recorder) (*report.Analysis, error) {
	if rec == nil {
		rec = nopRecorder{}
	}

	e, err := src.GetExperiment(ctx, name)
	if err != nil {
		return nil, err
	}

	control := e.Arms[0]
	treatment := opts.Treatment
	if treatment == "" {
		treatment = e.Arms[1]
	}
	if treatment == control || !e.HasArm(treatment) {
		return nil, fmt.Errorf("experiment %q has no treatment arm %q", name, treatment)
	}

	a := &report.Analysis{Experiment: name}

	switch e.Kind {
	case store.KindConversion:
		counts, err := src.ArmCounts(ctx, name)
		if err != nil {
			return nil, err
		}
		var c, t stats.ProportionSample
		for _, count := range counts {
			switch count.Arm {
			case control:
				c = stats.ProportionSample{Successes: count.Successes, Total: count.Total}
			case treatment:
				t = stats.ProportionSample{Successes: count.Successes, Total: count.Total}
			}
		}
		a.Proportion, err = stats.ProportionTest(c, t)
		rec.RecordAnalysis("proportion", err)
		if err != nil {
			return nil, err
		}
	case store.KindContinuous:
		c, t, err := armValues(ctx, src, name, control, treatment)
		if err != nil {
			return nil, err
		}
		a.Mean, err = stats.MeanTest(c, t)
		rec.RecordAnalysis("mean", err)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("experiment %q has unknown kind %q", name, e.Kind)
	}

	if opts.Bootstrap {
		c, t, err := armValues(ctx, src, name, control, treatment)
		if err != nil {
			return nil, err
		}
		a.Bootstrap, err = Bootstrap(ctx, stats.BootstrapRequest{
			Control:    c,
			Treatment:  t,
			Iterations: opts.Iterations,
			Workers:    opts.Workers,
		}, opts.Seed, rec)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Bootstrap runs stats.BootstrapLift with a generator built from seed and
// records its duration.
func Bootstrap(ctx context.Context, req stats.BootstrapRequest, seed *uint64, rec Recorder) (*stats.BootstrapResult, error) {
	if rec == nil {
		rec = nopRecorder{}
	}
	start := time.Now()
	result, err := stats.BootstrapLift(ctx, req, stats.NewSource(seed))
	rec.RecordAnalysis("bootstrap", err)
	if err != nil {
		return nil, err
	}
	rec.RecordBootstrap(result.Iterations, time.Since(start))
	return result, nil
}

func armValues(ctx context.Context, src Source, name, control, treatment string) ([]float64, []float64, error) {
	c, err := src.ArmValues(ctx, name, control)
	if err != nil {
		return nil, nil, err
	}
	t, err := src.ArmValues(ctx, name, treatment)
	if err != nil {
		return nil, nil, err
	}
	return c, t, nil
}
