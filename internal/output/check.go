package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dotcommander/cqe/internal/cli"
)

// FormatChecks writes sample validation results as console lines or JSON.
// Markdown falls back to the console layout.
func FormatChecks(w io.Writer, results []cli.CheckResult, format string) error {
	switch format {
	case "console", "markdown", "":
		writeChecks(w, results)
		return nil
	case "json":
		type jsonCheck struct {
			File     string   `json:"file"`
			SampleID string   `json:"sample_id,omitempty"`
			Valid    bool     `json:"valid"`
			Problems []string `json:"problems,omitempty"`
		}
		out := make([]jsonCheck, len(results))
		for i, r := range results {
			out[i] = jsonCheck{File: r.File, SampleID: r.SampleID, Valid: r.Valid(), Problems: r.Problems}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeChecks(w io.Writer, results []cli.CheckResult) {
	invalid := 0
	for _, r := range results {
		if r.Valid() {
			fmt.Fprintf(w, "%s %s\n", greenStyle.Render("✓"), r.File)
			continue
		}
		invalid++
		fmt.Fprintf(w, "%s %s\n", redStyle.Render("✗"), r.File)
		for _, p := range r.Problems {
			fmt.Fprintf(w, "    %s\n", p)
		}
	}
	fmt.Fprintf(w, "\n%d samples checked, %d invalid\n", len(results), invalid)
}
