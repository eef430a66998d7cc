package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/grade"
	"github.com/dotcommander/cqe/internal/params"
)

// FormatParams writes a parameter table as console, json or yaml.
func FormatParams(w io.Writer, f *params.File, format string) error {
	switch format {
	case "console", "":
		return writeParamsTable(w, f)
	case "json":
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := f.Marshal()
		if err != nil {
			return fmt.Errorf("error marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format: %s (valid: console, json, yaml)", format)
	}
}

func writeParamsTable(w io.Writer, f *params.File) error {
	p, err := f.Parameters()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, name := range compost.Names() {
		pp, ok := p[name]
		if !ok {
			continue
		}
		role, _, _ := compost.RoleOf(name)
		weight, limits := "-", "-"
		if len(pp.CategoryLimits) > 0 {
			weight = formatNumber(pp.Weight)
			limits = joinNumbers(pp.CategoryLimits)
		}
		rows = append(rows, []string{
			name,
			role.String(),
			pp.Unit,
			pp.Validity.String(),
			pp.Compliance.String(),
			weight,
			limits,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Property", "Group", "Unit", "Valid", "Compliance", "Weight", "Categories").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})

	title := "Parameters: " + f.Source()
	if f.Standard != "" {
		title += " (" + f.Standard + ")"
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", boldStyle.Render(title), t.String()); err != nil {
		return err
	}

	policy, err := f.Policy()
	if err != nil {
		return err
	}
	if policy.Empty() {
		_, err := fmt.Fprintln(w, dimStyle.Render("No grade rules: samples are reported as ungraded."))
		return err
	}
	for _, r := range policy.Rules() {
		if _, err := fmt.Fprintf(w, "  %-4s %s\n", r.Grade, describeRule(r)); err != nil {
			return err
		}
	}
	return nil
}

func describeRule(g grade.Rule) string {
	var parts []string
	if g.MinFertility != nil {
		parts = append(parts, "fertility >= "+formatNumber(*g.MinFertility))
	}
	if g.MinClean != nil {
		parts = append(parts, "clean >= "+formatNumber(*g.MinClean))
	}
	if g.RequireCompliance {
		parts = append(parts, "compliant")
	}
	if len(parts) == 0 {
		return "otherwise"
	}
	return strings.Join(parts, ", ")
}

func joinNumbers(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
