package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/cqe/internal/cli"
	"github.com/dotcommander/cqe/internal/scoring"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	w       io.Writer
	verbose bool
	now     func() time.Time
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(w io.Writer, verbose bool) *MarkdownFormatter {
	return &MarkdownFormatter{
		w:       w,
		verbose: verbose,
		now:     time.Now,
	}
}

// Format writes the evaluation summary as a Markdown document
func (f *MarkdownFormatter) Format(summary *cli.EvalSummary) error {
	var b strings.Builder

	b.WriteString("# Compost Quality Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", f.now().Format("2006-01-02 15:04:05"))
	if summary.Standard != "" {
		fmt.Fprintf(&b, "**Standard:** %s\n\n", summary.Standard)
	}
	fmt.Fprintf(&b, "**Parameters:** %s\n\n", summary.ParamsSource)
	b.WriteString(strings.Repeat("-", 50) + "\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Samples | %d |\n", summary.TotalFiles)
	fmt.Fprintf(&b, "| Compliant | %d |\n", summary.CompliantFiles)
	fmt.Fprintf(&b, "| Non-compliant | %d |\n", summary.NonCompliantFiles)
	fmt.Fprintf(&b, "| Failed | %d |\n", summary.FailedFiles)
	b.WriteString("\n")

	b.WriteString("## Results\n\n")
	if summary.TotalFiles == 0 {
		b.WriteString("*No samples evaluated.*\n\n")
	} else {
		b.WriteString("| Sample | File | Compliant | Fertility | Clean | Grade |\n")
		b.WriteString("|--------|------|-----------|-----------|-------|-------|\n")
		for _, result := range summary.Results {
			writeResultRow(&b, result)
		}
		b.WriteString("\n")
	}

	for _, result := range summary.Results {
		if !result.Success {
			fmt.Fprintf(&b, "### %s\n\n", result.File)
			fmt.Fprintf(&b, "❌ `%s` %s\n\n", result.Kind, escapeCell(result.Error))
			continue
		}
		if !f.verbose && result.Report.Compliant {
			continue
		}
		writeReportDetail(&b, result.File, result.Report)
	}

	b.WriteString("## Conclusion\n\n")
	switch {
	case summary.FailedFiles > 0:
		fmt.Fprintf(&b, "✗ %d samples could not be evaluated\n", summary.FailedFiles)
	case summary.NonCompliantFiles > 0:
		fmt.Fprintf(&b, "⚠ %d samples are non-compliant\n", summary.NonCompliantFiles)
	default:
		b.WriteString("✓ All samples compliant\n")
	}

	if _, err := io.WriteString(f.w, b.String()); err != nil {
		return fmt.Errorf("error writing markdown: %w", err)
	}
	return nil
}

func writeResultRow(b *strings.Builder, result cli.EvalResult) {
	if !result.Success {
		fmt.Fprintf(b, "| - | %s | ❌ | - | - | - |\n", result.File)
		return
	}
	r := result.Report
	fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
		escapeCell(r.SampleID), result.File, getStatusEmoji(r.Compliant),
		FormatIndex(r.FertilityIndex), FormatIndex(r.CleanIndex), r.Grade)
}

func writeReportDetail(b *strings.Builder, file string, r *scoring.Report) {
	fmt.Fprintf(b, "### %s\n\n", file)
	if len(r.NonCompliant) > 0 {
		fmt.Fprintf(b, "Non-compliant: %s\n\n", strings.Join(r.NonCompliant, ", "))
	}
	b.WriteString("| Property | Value | Compliance | OK | Score |\n")
	b.WriteString("|----------|-------|------------|----|-------|\n")
	for _, p := range r.Properties {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			escapeCell(p.Label), FormatValue(p.Value, p.Unit), p.ComplianceRange,
			getStatusEmoji(p.Compliant), formatScore(p))
	}
	b.WriteString("\n")
}

// getStatusEmoji returns an emoji for the status
func getStatusEmoji(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
