package report

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

// Markdown renders a as a markdown document with one section per result.
func Markdown(a *Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", title(a))

	if r := a.Proportion; r != nil {
		b.WriteString("\n## Conversion rate (z-test)\n\n")
		b.WriteString("| Arm | Conversions | Total | Rate | 95% CI | Wilson 95% CI |\n")
		b.WriteString("|---|---:|---:|---:|---|---|\n")
		for i, arm := range [...]stats.ArmRate{r.Control, r.Treatment} {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				armName(i),
				FormatCount(arm.Successes),
				FormatCount(arm.Total),
				formatPercent(arm.Rate),
				formatRange(arm.CI.Lower, arm.CI.Upper, true),
				formatRange(arm.WilsonCI.Lower, arm.WilsonCI.Upper, true),
			)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "- **Lift:** %s\n", formatLift(r.LiftPercent, r.LiftDefined))
		fmt.Fprintf(&b, "- **z-score:** %s\n", formatFloat(r.ZScore, 4))
		fmt.Fprintf(&b, "- **p-value:** %s (%s)\n", FormatPValue(r.PValue), SignificanceLabel(r.PValue))
	}

	if r := a.Mean; r != nil {
		b.WriteString("\n## Continuous metric (Welch t-test)\n\n")
		b.WriteString("| Arm | N | Mean | Std | 95% CI |\n")
		b.WriteString("|---|---:|---:|---:|---|\n")
		for i, arm := range [...]stats.ArmMean{r.Control, r.Treatment} {
			fmt.Fprintf(&b, "| %s | %s | %.2f | %.2f | %s |\n",
				armName(i),
				FormatCount(arm.N),
				arm.Mean,
				arm.StdDev,
				formatRange(arm.CI.Lower, arm.CI.Upper, false),
			)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "- **Lift:** %s\n", formatLift(r.LiftPercent, r.LiftDefined))
		fmt.Fprintf(&b, "- **t-statistic:** %s (df = %s)\n", formatFloat(r.TStatistic, 4), formatFloat(r.DegreesOfFreedom, 2))
		fmt.Fprintf(&b, "- **p-value:** %s (%s)\n", FormatPValue(r.PValue), SignificanceLabel(r.PValue))
		fmt.Fprintf(&b, "- **Cohen's d:** %s (%s)\n", formatFloat(r.CohensD, 3), r.EffectCategory)
	}

	if r := a.Power; r != nil {
		b.WriteString("\n## Power analysis\n\n")
		b.WriteString("| Parameter | Value |\n")
		b.WriteString("|---|---:|\n")
		fmt.Fprintf(&b, "| Baseline rate | %s |\n", formatPercent(r.BaselineRate))
		fmt.Fprintf(&b, "| Expected treatment rate | %s |\n", formatPercent(r.ExpectedTreatmentRate))
		fmt.Fprintf(&b, "| Minimum detectable lift | %s |\n", formatPercent(r.MinimumDetectableEffect))
		fmt.Fprintf(&b, "| Significance level | %.2f |\n", r.SignificanceLevel)
		fmt.Fprintf(&b, "| Power | %.2f |\n", r.DesiredPower)
		fmt.Fprintf(&b, "| Sample size per variant | %s |\n", FormatCount(r.SampleSizePerArm))
		fmt.Fprintf(&b, "| Total sample size | %s |\n", FormatCount(r.TotalSampleSize))
	}

	if r := a.Bootstrap; r != nil {
		fmt.Fprintf(&b, "\n## Bootstrap lift (%s iterations)\n\n", FormatCount(r.Iterations))
		fmt.Fprintf(&b, "- **Median lift:** %+.2f%%\n", r.MedianLift)
		fmt.Fprintf(&b, "- **95%% CI:** [%.2f%%, %.2f%%]\n", r.Lower, r.Upper)
		fmt.Fprintf(&b, "- **Significant:** %s\n", yesNo(r.Significant))
		if r.DegenerateIterations > 0 {
			fmt.Fprintf(&b, "- **Zero-control resamples:** %s\n", FormatCount(r.DegenerateIterations))
		}
	}

	return b.String()
}

// HTML renders the markdown report as a standalone HTML page. Raw HTML in the
// markdown is dropped, so the experiment name is escaped to survive as text.
func HTML(a *Analysis) []byte {
	escaped := *a
	escaped.Experiment = escapeMarkdown(a.Experiment)

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: stdhtml.EscapeString(title(a)),
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
	})
	return markdown.ToHTML([]byte(Markdown(&escaped)), p, renderer)
}

// escapeMarkdown backslash-escapes every character markdown gives meaning to.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf && bytes.IndexByte(parser.EscapeChars, byte(r)) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func title(a *Analysis) string {
	if a.Experiment != "" {
		return "Experiment report: " + a.Experiment
	}
	return "Experiment report"
}
