package cli

import (
	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

func newMeanCmd(o *rootOptions) *cobra.Command {
	var samples sampleFlags

	cmd := &cobra.Command{
		Use:   "mean",
		Short: "Compare two means with Welch's t-test",
		Long: `Run Welch's t-test of the treatment mean against the control mean and
report Cohen's d. Values are given inline or read from a CSV or XLSX column.

Examples:
  abtest mean --control 1,2,3,4,5 --treatment 2,4,6,8,10
  abtest mean --control-file control.csv --treatment-file treatment.xlsx --column seconds`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			control, treatment, err := samples.load()
			if err != nil {
				return err
			}

			result, err := stats.MeanTest(control, treatment)
			if err != nil {
				return err
			}
			return o.render(cmd, &report.Analysis{Mean: result})
		},
	}

	samples.register(cmd)
	return cmd
}
