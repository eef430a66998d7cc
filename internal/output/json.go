package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/cqe/internal/cli"
	"github.com/dotcommander/cqe/internal/scoring"
)

// Version is reported in the JSON header; set by cmd from the build version.
var Version = "dev"

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	w      io.Writer
	indent bool
	now    func() time.Time
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		w:      w,
		indent: indent,
		now:    time.Now,
	}
}

// Format writes the evaluation summary as a single JSON document
func (f *JSONFormatter) Format(summary *cli.EvalSummary) error {
	report := JSONReport{
		Header: JSONHeader{
			Tool:      "cqe",
			Version:   Version,
			Timestamp: f.now().UTC().Format(time.RFC3339),
			Standard:  summary.Standard,
			Params:    summary.ParamsSource,
		},
		Summary: JSONSummary{
			TotalFiles:        summary.TotalFiles,
			CompliantFiles:    summary.CompliantFiles,
			NonCompliantFiles: summary.NonCompliantFiles,
			FailedFiles:       summary.FailedFiles,
			Duration:          (time.Duration(summary.Duration) * time.Millisecond).String(),
		},
		Results: make([]JSONResult, len(summary.Results)),
	}

	for i, result := range summary.Results {
		report.Results[i] = JSONResult{
			File:     result.File,
			Success:  result.Success,
			Duration: result.Duration,
			Error:    result.Error,
			Kind:     result.Kind,
			Report:   result.Report,
		}
	}

	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	if _, err := fmt.Fprintln(f.w, string(data)); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return nil
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Standard  string `json:"standard,omitempty"`
	Params    string `json:"params"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	TotalFiles        int    `json:"total_files"`
	CompliantFiles    int    `json:"compliant_files"`
	NonCompliantFiles int    `json:"non_compliant_files"`
	FailedFiles       int    `json:"failed_files"`
	Duration          string `json:"duration"`
}

// JSONResult represents a single sample's evaluation
type JSONResult struct {
	File     string          `json:"file"`
	Success  bool            `json:"success"`
	Duration int64           `json:"duration_ms,omitempty"`
	Error    string          `json:"error,omitempty"`
	Kind     string          `json:"kind,omitempty"`
	Report   *scoring.Report `json:"report,omitempty"`
}
