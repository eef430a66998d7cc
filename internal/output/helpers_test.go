package output

import (
	"testing"
	"time"

	"github.com/dotcommander/cqe/internal/cli"
	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/params"
	"github.com/dotcommander/cqe/internal/scoring"
)

func referenceInputs() compost.Inputs {
	return compost.Inputs{
		compost.Moisture: 20, compost.PH: 7, compost.Conductivity: 3, compost.BulkDensity: 0.8,
		compost.OrganicMatter: 16, compost.Nitrogen: 1.0, compost.Phosphorus: 0.5, compost.Potassium: 0.6,
		compost.Zinc: 100, compost.Copper: 120, compost.Cadmium: 0.5, compost.Lead: 60,
		compost.Chromium: 40, compost.Nickel: 30, compost.Arsenic: 1, compost.Mercury: 0.05,
	}
}

// testSummary holds one compliant, one non-compliant and one failed sample.
func testSummary(t *testing.T) *cli.EvalSummary {
	t.Helper()
	table, err := params.Default()
	if err != nil {
		t.Fatalf("params.Default: %v", err)
	}

	parameters, err := table.Parameters()
	if err != nil {
		t.Fatalf("Parameters: %v", err)
	}
	report := func(id string, inputs compost.Inputs) scoring.Report {
		c, err := compost.Build(parameters, inputs)
		if err != nil {
			t.Fatalf("Build %s: %v", id, err)
		}
		r, err := scoring.NewReport(c, scoring.Options{SampleID: id, Standard: table.Standard})
		if err != nil {
			t.Fatalf("NewReport %s: %v", id, err)
		}
		return r
	}

	good := report("north-1", referenceInputs())
	in := referenceInputs()
	in[compost.PH] = 8.4
	acidic := report("south-2", in)

	return &cli.EvalSummary{
		Standard:          table.Standard,
		ParamsSource:      table.Source(),
		StartTime:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalFiles:        3,
		CompliantFiles:    1,
		NonCompliantFiles: 1,
		FailedFiles:       1,
		Duration:          12,
		Results: []cli.EvalResult{
			{File: "north-1.yaml", Report: &good, Success: true},
			{File: "south-2.yaml", Report: &acidic, Success: true},
			{File: "broken.yaml", Error: "lead: missing input", Kind: "missing-input"},
		},
	}
}
