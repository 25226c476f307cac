package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

func newPowerCmd(o *rootOptions) *cobra.Command {
	var (
		req         stats.PowerPlanRequest
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "power",
		Short: "Plan the sample size needed to detect a lift",
		Long: `Compute the per-arm sample size a two-proportion test needs to detect a
relative lift of --mde over a --baseline conversion rate.

Examples:
  abtest power --baseline 0.10 --mde 0.08
  abtest power --baseline 0.05 --mde 0.2 --alpha 0.01 --power 0.9
  abtest power --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if err := promptPlan(cmd, &req); err != nil {
					return err
				}
			}

			result, err := stats.PowerPlan(req)
			if err != nil {
				return err
			}
			return o.render(cmd, &report.Analysis{Power: result})
		},
	}

	cmd.Flags().Float64Var(&req.BaselineRate, "baseline", 0, "baseline conversion rate, e.g. 0.10")
	cmd.Flags().Float64Var(&req.MinimumDetectableEffect, "mde", 0, "minimum detectable relative lift, e.g. 0.08 for 8%")
	cmd.Flags().Float64Var(&req.SignificanceLevel, "alpha", stats.DefaultSignificanceLevel, "significance level")
	cmd.Flags().Float64Var(&req.DesiredPower, "power", stats.DefaultPower, "desired statistical power")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the baseline and lift not given as flags")

	return cmd
}

// promptPlan asks for the baseline and lift when they were not passed as flags.
func promptPlan(cmd *cobra.Command, req *stats.PowerPlanRequest) error {
	if !cmd.Flags().Changed("baseline") {
		v, err := promptRate("Baseline conversion rate (0-1)", "0.10")
		if err != nil {
			return err
		}
		req.BaselineRate = v
	}
	if !cmd.Flags().Changed("mde") {
		v, err := promptRate("Minimum detectable lift (0.08 = 8%)", "0.08")
		if err != nil {
			return err
		}
		req.MinimumDetectableEffect = v
	}
	return nil
}

func promptRate(label, def string) (float64, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: def,
		Validate: func(input string) error {
			v, err := strconv.ParseFloat(input, 64)
			if err != nil {
				return errors.New("enter a number")
			}
			if v <= 0 {
				return errors.New("must be positive")
			}
			return nil
		},
	}

	result, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return strconv.ParseFloat(result, 64)
}
