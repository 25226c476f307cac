package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/analysis"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

func newAnalyzeCmd(o *rootOptions) *cobra.Command {
	var (
		treatment string
		bootstrap bool
		resample  resampleFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze <experiment>",
		Short: "Run the statistical test on a stored experiment",
		Long: `Analyze an experiment from the sample store. Conversion experiments get
the two-proportion z-test and continuous experiments Welch's t-test, comparing
the control (first arm) with the treatment arm.

Examples:
  abtest analyze signup
  abtest analyze revenue --bootstrap --seed 42
  abtest analyze pricing --treatment c --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			return o.withStore(func(s *store.SQLStore) error {
				a, err := analysis.Run(cmd.Context(), s, name, analysis.Options{
					Treatment:  treatment,
					Bootstrap:  bootstrap,
					Iterations: resample.iterations,
					Workers:    resample.workers,
					Seed:       resample.seedPtr(cmd),
				}, nil)
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("experiment '%s' not found", name)
					}
					return err
				}
				return o.render(cmd, a)
			})
		},
	}

	cmd.Flags().StringVarP(&treatment, "treatment", "t", "", "arm compared with the control (default: second arm)")
	cmd.Flags().BoolVarP(&bootstrap, "bootstrap", "b", false, "add a bootstrap estimate of the relative lift")
	resample.register(cmd, o)

	return cmd
}
