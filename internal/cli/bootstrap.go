package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/analysis"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

// resampleFlags are shared by every command that can bootstrap.
type resampleFlags struct {
	iterations int
	workers    int
	seed       uint64
}

func (f *resampleFlags) register(cmd *cobra.Command, o *rootOptions) {
	cmd.Flags().IntVar(&f.iterations, "iterations", o.cfg.Bootstrap.Iterations, "bootstrap resamples (env AB_BOOTSTRAP_ITERATIONS)")
	cmd.Flags().IntVar(&f.workers, "workers", o.cfg.Bootstrap.Workers, "parallel workers, 0 for one per CPU (env AB_BOOTSTRAP_WORKERS)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for a reproducible run")
}

// seedPtr returns nil unless --seed was given.
func (f *resampleFlags) seedPtr(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	seed := f.seed
	return &seed
}

func newBootstrapCmd(o *rootOptions) *cobra.Command {
	var (
		samples  sampleFlags
		resample resampleFlags
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Estimate relative lift with a percentile bootstrap",
		Long: `Resample both arms with replacement and report the median relative lift
of the treatment mean over the control mean with a 95% percentile interval.

Runs with the same --seed produce identical output for any --workers value.

Examples:
  abtest bootstrap --control 10,12,11,13 --treatment 12,14,13,15 --seed 42
  abtest bootstrap --control-file a.csv --treatment-file b.csv --iterations 5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			control, treatment, err := samples.load()
			if err != nil {
				return err
			}

			result, err := analysis.Bootstrap(cmd.Context(), stats.BootstrapRequest{
				Control:    control,
				Treatment:  treatment,
				Iterations: resample.iterations,
				Workers:    resample.workers,
			}, resample.seedPtr(cmd), nil)
			if err != nil {
				return err
			}

			o.logger.Debug("bootstrap complete",
				zap.Int("iterations", result.Iterations),
				zap.Int("degenerate", result.DegenerateIterations),
			)
			return o.render(cmd, &report.Analysis{Bootstrap: result})
		},
	}

	samples.register(cmd)
	resample.register(cmd, o)
	return cmd
}
