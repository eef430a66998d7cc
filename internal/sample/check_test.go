package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/params"
)

func completeInputs() compost.Inputs {
	return compost.Inputs{
		compost.Moisture: 20, compost.PH: 7, compost.Conductivity: 3, compost.BulkDensity: 0.8,
		compost.OrganicMatter: 16, compost.Nitrogen: 1.0, compost.Phosphorus: 0.5, compost.Potassium: 0.6,
		compost.Zinc: 100, compost.Copper: 120, compost.Cadmium: 0.5, compost.Lead: 60,
		compost.Chromium: 40, compost.Nickel: 30, compost.Arsenic: 1, compost.Mercury: 0.05,
	}
}

func TestCheck(t *testing.T) {
	table, err := params.Default()
	require.NoError(t, err)
	p, err := table.Parameters()
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(compost.Inputs)
		wantErr []error
		wantMsg []string
	}{
		{name: "complete", mutate: func(compost.Inputs) {}},
		{
			name:    "missing lead",
			mutate:  func(in compost.Inputs) { delete(in, compost.Lead) },
			wantErr: []error{compost.ErrMissingInput},
			wantMsg: []string{"lead"},
		},
		{
			name:    "unknown and derived",
			mutate:  func(in compost.Inputs) { in["sodium"] = 1; in[compost.CNRatio] = 16 },
			wantErr: []error{compost.ErrInvalidInput},
			wantMsg: []string{"sodium: unknown measurement", "cn_ratio: derived property"},
		},
		{
			name:    "outside validity",
			mutate:  func(in compost.Inputs) { in[compost.PH] = 15 },
			wantErr: []error{compost.ErrInvalidInput},
			wantMsg: []string{"ph: value 15 outside validity range"},
		},
		{
			name:    "zero nitrogen",
			mutate:  func(in compost.Inputs) { in[compost.Nitrogen] = 0 },
			wantErr: []error{compost.ErrInvalidInput},
			wantMsg: []string{"nitrogen is zero"},
		},
		{
			name:    "derived ratio outside validity",
			mutate:  func(in compost.Inputs) { in[compost.OrganicMatter] = 50; in[compost.Nitrogen] = 0.00001 },
			wantErr: []error{compost.ErrInvalidInput},
			wantMsg: []string{"cn_ratio: value 5e+06 outside validity range"},
		},
		{
			name: "reports every problem",
			mutate: func(in compost.Inputs) {
				delete(in, compost.Mercury)
				in[compost.PH] = -1
			},
			wantErr: []error{compost.ErrMissingInput, compost.ErrInvalidInput},
			wantMsg: []string{"mercury", "ph: value -1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := completeInputs()
			tt.mutate(inputs)
			err := (&Sample{ID: "s", Measurements: inputs}).Check(p)

			// Check and Build must agree on whether the sample evaluates.
			_, buildErr := compost.Build(p, inputs)
			assert.Equal(t, buildErr == nil, err == nil, "build error: %v", buildErr)

			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			for _, msg := range tt.wantMsg {
				assert.ErrorContains(t, err, msg)
			}
		})
	}
}
