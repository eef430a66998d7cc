package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dotcommander/cqe/internal/cli"
	"github.com/dotcommander/cqe/internal/scoring"
)

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	w       io.Writer
	quiet   bool
	verbose bool
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(w io.Writer, quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		w:       w,
		quiet:   quiet,
		verbose: verbose,
	}
}

// Format writes one status line per sample, the property breakdown in
// verbose mode, and a closing summary.
func (f *ConsoleFormatter) Format(summary *cli.EvalSummary) error {
	if f.quiet {
		// Exit code carries the verdict in quiet mode
		return nil
	}

	for _, result := range summary.Results {
		f.printResult(result)
	}
	f.printSummary(summary)
	return nil
}

func (f *ConsoleFormatter) printResult(result cli.EvalResult) {
	if !result.Success {
		fmt.Fprintf(f.w, "%s %s\n", redStyle.Render("✗"), result.File)
		fmt.Fprintf(f.w, "    %s %s\n", redStyle.Render("["+result.Kind+"]"), result.Error)
		return
	}

	r := result.Report
	status, style := "✓", greenStyle
	if !r.Compliant {
		status, style = "⚠", yellowStyle
	}

	fmt.Fprintf(f.w, "%s %s %s\n", style.Render(status), result.File, dimStyle.Render("("+r.SampleID+")"))
	fmt.Fprintf(f.w, "    fertility %s  clean %s  grade %s\n",
		boldStyle.Render(FormatIndex(r.FertilityIndex)),
		boldStyle.Render(FormatIndex(r.CleanIndex)),
		boldStyle.Render(string(r.Grade)))

	if !r.Compliant {
		fmt.Fprintf(f.w, "    %s %s\n", yellowStyle.Render("non-compliant:"), strings.Join(r.NonCompliant, ", "))
	}
	if f.verbose {
		fmt.Fprintln(f.w, PropertyTable(r.Properties))
	}
}

// PropertyTable renders the per-property breakdown of a report.
func PropertyTable(props []scoring.PropertyScore) string {
	rows := make([][]string, 0, len(props))
	for _, p := range props {
		rows = append(rows, []string{
			p.Label,
			p.Group,
			FormatValue(p.Value, p.Unit),
			p.ComplianceRange,
			compliantMark(p.Compliant),
			formatScore(p),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Property", "Group", "Value", "Compliance", "OK", "Score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col == 4 && row >= 0 && row < len(props) && !props[row].Compliant {
				return s.Inherit(redStyle)
			}
			return s
		})
	return t.String()
}

func compliantMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func formatScore(p scoring.PropertyScore) string {
	if !p.Scored() {
		return "-"
	}
	return fmt.Sprintf("%s/%s ×%s", formatNumber(*p.Score), formatNumber(*p.MaxScore), formatNumber(*p.Weight))
}

// FormatIndex renders an index to two decimals.
func FormatIndex(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatValue renders a measured value with its unit.
func FormatValue(v float64, unit string) string {
	s := formatNumber(v)
	if unit == "" || unit == "-" {
		return s
	}
	return s + " " + unit
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// printSummary prints the summary statistics
func (f *ConsoleFormatter) printSummary(summary *cli.EvalSummary) {
	fmt.Fprintln(f.w)
	fmt.Fprintf(f.w, "%d samples: %d compliant, %d non-compliant, %d failed (%v)\n",
		summary.TotalFiles, summary.CompliantFiles, summary.NonCompliantFiles, summary.FailedFiles,
		(time.Duration(summary.Duration) * time.Millisecond).Round(time.Millisecond))

	switch {
	case summary.FailedFiles > 0:
		fmt.Fprintln(f.w, redStyle.Bold(true).Render("✗ Some samples could not be evaluated"))
	case summary.NonCompliantFiles > 0:
		fmt.Fprintln(f.w, yellowStyle.Bold(true).Render("⚠ Some samples are non-compliant"))
	default:
		fmt.Fprintln(f.w, greenStyle.Bold(true).Render("✓ All samples compliant"))
	}
}
