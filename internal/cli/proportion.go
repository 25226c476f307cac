package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/dataset"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

func newProportionCmd(o *rootOptions) *cobra.Command {
	var control, treatment string

	cmd := &cobra.Command{
		Use:   "proportion",
		Short: "Compare two conversion rates with a z-test",
		Long: `Run a two-proportion z-test of the treatment conversion rate against
the control. Each arm is given as conversions/total.

Examples:
  abtest proportion --control 850/10000 --treatment 950/10000
  abtest proportion --control 85/1000 --treatment 95/1000 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseProportion("control", control)
			if err != nil {
				return err
			}
			t, err := parseProportion("treatment", treatment)
			if err != nil {
				return err
			}

			result, err := stats.ProportionTest(c, t)
			if err != nil {
				return err
			}
			return o.render(cmd, &report.Analysis{Proportion: result})
		},
	}

	cmd.Flags().StringVar(&control, "control", "", "control conversions/total, e.g. 850/10000 (required)")
	cmd.Flags().StringVar(&treatment, "treatment", "", "treatment conversions/total, e.g. 950/10000 (required)")
	cmd.MarkFlagRequired("control")
	cmd.MarkFlagRequired("treatment")

	return cmd
}

func parseProportion(arm, s string) (stats.ProportionSample, error) {
	successes, total, err := dataset.ParseCounts(s)
	if err != nil {
		return stats.ProportionSample{}, fmt.Errorf("--%s: %w", arm, err)
	}
	return stats.ProportionSample{Successes: successes, Total: total}, nil
}
