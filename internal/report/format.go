// Package report renders statistical results as text, JSON, markdown or HTML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts text, json, markdown (or md) and html.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be text, json, markdown or html", s)
	}
}

// Render writes a in the requested format.
func Render(w io.Writer, format Format, a *Analysis) error {
	switch format {
	case FormatText:
		return WriteText(w, a)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(NewDocument(a))
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(a))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(a))
		return err
	default:
		return fmt.Errorf("invalid format %q", format)
	}
}

// FormatPValue formats a p-value for display.
func FormatPValue(p float64) string {
	switch {
	case p < 0.001:
		return "< 0.001"
	case p < 0.01:
		return fmt.Sprintf("%.3f", p)
	default:
		return fmt.Sprintf("%.2f", p)
	}
}

// SignificanceLabel describes a p-value in words.
func SignificanceLabel(p float64) string {
	switch {
	case p < 0.001:
		return "Highly Significant"
	case p < 0.05:
		return "Significant"
	case p < 0.1:
		return "Marginally Significant"
	default:
		return "Not Significant"
	}
}

// FormatCount formats n with thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%s,%03d,%03d", FormatCount(n/1000000), (n/1000)%1000, n%1000)
}

func formatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

func formatLift(lift float64, defined bool) string {
	if !defined {
		return "undefined (zero control)"
	}
	return fmt.Sprintf("%+.2f%%", lift)
}

func formatFloat(v float64, places int) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("%.*f", places, v)
}

func formatRange(lower, upper float64, percent bool) string {
	if percent {
		return fmt.Sprintf("[%.2f%%, %.2f%%]", lower*100, upper*100)
	}
	return fmt.Sprintf("[%.2f, %.2f]", lower, upper)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
