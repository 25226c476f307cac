package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

// WriteText renders a as aligned plain-text tables.
func WriteText(w io.Writer, a *Analysis) error {
	var b strings.Builder

	if a.Experiment != "" {
		fmt.Fprintf(&b, "EXPERIMENT: %s\n\n", a.Experiment)
	}

	sections := 0
	section := func() {
		if sections > 0 {
			b.WriteString("\n")
		}
		sections++
	}

	if r := a.Proportion; r != nil {
		section()
		b.WriteString("Z-TEST (conversion rate)\n")
		b.WriteString(strings.Repeat("─", 60) + "\n")

		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ARM\tCONVERSIONS\tTOTAL\tRATE\t95% CI\tWILSON 95% CI")
		for i, arm := range [...]stats.ArmRate{r.Control, r.Treatment} {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				armName(i),
				FormatCount(arm.Successes),
				FormatCount(arm.Total),
				formatPercent(arm.Rate),
				formatRange(arm.CI.Lower, arm.CI.Upper, true),
				formatRange(arm.WilsonCI.Lower, arm.WilsonCI.Upper, true),
			)
		}
		tw.Flush()

		fmt.Fprintf(&b, "\nLift:         %s\n", formatLift(r.LiftPercent, r.LiftDefined))
		fmt.Fprintf(&b, "z-score:      %s\n", formatFloat(r.ZScore, 4))
		fmt.Fprintf(&b, "p-value:      %s (%s)\n", FormatPValue(r.PValue), SignificanceLabel(r.PValue))
		fmt.Fprintf(&b, "Significant:  %s\n", yesNo(r.Significant))
	}

	if r := a.Mean; r != nil {
		section()
		b.WriteString("T-TEST (Welch, continuous metric)\n")
		b.WriteString(strings.Repeat("─", 60) + "\n")

		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ARM\tN\tMEAN\tSTD\t95% CI")
		for i, arm := range [...]stats.ArmMean{r.Control, r.Treatment} {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%s\n",
				armName(i),
				FormatCount(arm.N),
				arm.Mean,
				arm.StdDev,
				formatRange(arm.CI.Lower, arm.CI.Upper, false),
			)
		}
		tw.Flush()

		fmt.Fprintf(&b, "\nLift:         %s\n", formatLift(r.LiftPercent, r.LiftDefined))
		fmt.Fprintf(&b, "t-statistic:  %s (df = %s)\n", formatFloat(r.TStatistic, 4), formatFloat(r.DegreesOfFreedom, 2))
		fmt.Fprintf(&b, "p-value:      %s (%s)\n", FormatPValue(r.PValue), SignificanceLabel(r.PValue))
		fmt.Fprintf(&b, "Cohen's d:    %s (%s)\n", formatFloat(r.CohensD, 3), r.EffectCategory)
		fmt.Fprintf(&b, "Significant:  %s\n", yesNo(r.Significant))
	}

	if r := a.Power; r != nil {
		section()
		b.WriteString("POWER ANALYSIS\n")
		b.WriteString(strings.Repeat("─", 60) + "\n")
		fmt.Fprintf(&b, "Baseline rate:            %s\n", formatPercent(r.BaselineRate))
		fmt.Fprintf(&b, "Expected treatment rate:  %s\n", formatPercent(r.ExpectedTreatmentRate))
		fmt.Fprintf(&b, "Minimum detectable lift:  %s relative\n", formatPercent(r.MinimumDetectableEffect))
		fmt.Fprintf(&b, "Significance level:       %.2f\n", r.SignificanceLevel)
		fmt.Fprintf(&b, "Power:                    %.2f\n", r.DesiredPower)
		fmt.Fprintf(&b, "Sample size per variant:  %s\n", FormatCount(r.SampleSizePerArm))
		fmt.Fprintf(&b, "Total sample size:        %s\n", FormatCount(r.TotalSampleSize))
	}

	if r := a.Bootstrap; r != nil {
		section()
		fmt.Fprintf(&b, "BOOTSTRAP (%s iterations)\n", FormatCount(r.Iterations))
		b.WriteString(strings.Repeat("─", 60) + "\n")
		fmt.Fprintf(&b, "Median lift:  %+.2f%%\n", r.MedianLift)
		fmt.Fprintf(&b, "95%% CI:       [%.2f%%, %.2f%%]\n", r.Lower, r.Upper)
		fmt.Fprintf(&b, "Significant:  %s\n", yesNo(r.Significant))
		if r.DegenerateIterations > 0 {
			fmt.Fprintf(&b, "Warning: %s resamples had a zero control mean; their lift was recorded as 0\n", FormatCount(r.DegenerateIterations))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func armName(i int) string {
	if i == 0 {
		return "control"
	}
	return "treatment"
}
