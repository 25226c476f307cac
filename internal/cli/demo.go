package cli

import (
	"fmt"
	mrand "math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/analysis"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

const (
	demoSampleSize = 1000
	demoBootstrapN = 500
	demoIterations = 5000
)

func newDemoCmd(o *rootOptions) *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run every test on example data",
		Long: `Run the four analyses on example data:

  - z-test on 850/10,000 vs 950/10,000 conversions
  - Welch's t-test on simulated time on page, N(120, 30) vs N(135, 32), 1,000 each
  - power analysis for a 10% baseline and an 8% relative lift
  - bootstrap of the lift on the first 500 simulated times, 5,000 resamples

The simulated data and the bootstrap are seeded, so output is stable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &report.Analysis{Experiment: "demo"}
			var err error

			a.Proportion, err = stats.ProportionTest(
				stats.ProportionSample{Successes: 850, Total: 10000},
				stats.ProportionSample{Successes: 950, Total: 10000},
			)
			if err != nil {
				return fmt.Errorf("z-test: %w", err)
			}

			rng := mrand.New(mrand.NewPCG(seed, seed))
			control := normalSample(rng, demoSampleSize, 120, 30)
			treatment := normalSample(rng, demoSampleSize, 135, 32)

			a.Mean, err = stats.MeanTest(control, treatment)
			if err != nil {
				return fmt.Errorf("t-test: %w", err)
			}

			a.Power, err = stats.PowerPlan(stats.PowerPlanRequest{
				BaselineRate:            0.10,
				MinimumDetectableEffect: 0.08,
			}.WithDefaults())
			if err != nil {
				return fmt.Errorf("power analysis: %w", err)
			}

			a.Bootstrap, err = analysis.Bootstrap(cmd.Context(), stats.BootstrapRequest{
				Control:    control[:demoBootstrapN],
				Treatment:  treatment[:demoBootstrapN],
				Iterations: demoIterations,
				Workers:    o.cfg.Bootstrap.Workers,
			}, &seed, nil)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}

			return o.render(cmd, a)
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 42, "seed for the simulated data and the bootstrap")
	return cmd
}

func normalSample(r *mrand.Rand, n int, mean, sd float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = mean + sd*r.NormFloat64()
	}
	return values
}
