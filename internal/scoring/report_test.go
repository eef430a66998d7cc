package scoring

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/grade"
	"github.com/dotcommander/cqe/internal/params"
)

func evaluate(t *testing.T, mutate func(compost.Inputs)) *compost.Compost {
	t.Helper()
	f, err := params.Default()
	require.NoError(t, err)
	p, err := f.Parameters()
	require.NoError(t, err)

	in := compost.Inputs{
		compost.Moisture: 20, compost.PH: 7, compost.Conductivity: 3, compost.BulkDensity: 0.8,
		compost.OrganicMatter: 16, compost.Nitrogen: 1.0, compost.Phosphorus: 0.5, compost.Potassium: 0.6,
		compost.Zinc: 100, compost.Copper: 120, compost.Cadmium: 0.5, compost.Lead: 60,
		compost.Chromium: 40, compost.Nickel: 30, compost.Arsenic: 1, compost.Mercury: 0.05,
	}
	if mutate != nil {
		mutate(in)
	}
	c, err := compost.Build(p, in)
	require.NoError(t, err)
	return c
}

func ptr(v float64) *float64 { return &v }

func TestNewReport(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	r, err := NewReport(evaluate(t, nil), Options{
		SampleID: "batch-7",
		Source:   "samples/batch-7.yaml",
		Standard: "default",
		Now:      func() time.Time { return fixed },
	})
	require.NoError(t, err)

	_, err = uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.Equal(t, "batch-7", r.SampleID)
	assert.Equal(t, "samples/batch-7.yaml", r.Source)
	assert.Equal(t, "default", r.Standard)
	assert.True(t, r.Compliant)
	assert.Empty(t, r.NonCompliant)
	assert.InDelta(t, 53.0/15.0, r.FertilityIndex, 1e-12)
	assert.InDelta(t, 97.0/23.0, r.CleanIndex, 1e-12)
	assert.Equal(t, grade.Ungraded, r.Grade)
	assert.Equal(t, fixed.UTC(), r.EvaluatedAt)
	require.Len(t, r.Properties, len(compost.Names()))

	want := PropertyScore{
		Name:            compost.Nitrogen,
		Label:           "Nitrogen",
		Unit:            "%",
		Group:           "nutritional",
		Value:           1.0,
		ComplianceRange: "[0.8, 100]",
		Compliant:       true,
		Score:           ptr(3),
		MinScore:        ptr(1),
		MaxScore:        ptr(5),
		Weight:          ptr(3),
	}
	var got PropertyScore
	for _, p := range r.Properties {
		if p.Name == compost.Nitrogen {
			got = p
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nitrogen breakdown mismatch (-want +got):\n%s", diff)
	}

	for _, p := range r.Properties {
		if p.Name == compost.Moisture {
			assert.False(t, p.Scored())
			assert.Nil(t, p.Weight)
		}
		if p.Name == compost.Mercury {
			assert.Equal(t, 0.0, *p.MinScore)
		}
	}
}

func TestNewReportIDsAreUnique(t *testing.T) {
	c := evaluate(t, nil)
	a, err := NewReport(c, Options{})
	require.NoError(t, err)
	b, err := NewReport(c, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewReportNonCompliant(t *testing.T) {
	c := evaluate(t, func(in compost.Inputs) {
		in[compost.PH] = 8.2
		in[compost.Lead] = 180
	})

	policy, err := grade.NewPolicy([]grade.Rule{
		{Grade: grade.A, MinFertility: ptr(3), RequireCompliance: true},
		{Grade: grade.RU1},
	})
	require.NoError(t, err)

	r, err := NewReport(c, Options{Policy: policy})
	require.NoError(t, err)
	assert.False(t, r.Compliant)
	assert.Equal(t, []string{compost.PH, compost.Lead}, r.NonCompliant)
	assert.Equal(t, grade.RU1, r.Grade)
}

func TestReportJSON(t *testing.T) {
	r, err := NewReport(evaluate(t, nil), Options{SampleID: "s1"})
	require.NoError(t, err)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "s1", decoded["sample_id"])
	assert.Equal(t, "ungraded", decoded["grade"])
	assert.Equal(t, []any{}, decoded["non_compliant"])

	props := decoded["properties"].([]any)
	first := props[0].(map[string]any)
	assert.Equal(t, compost.Moisture, first["name"])
	assert.Equal(t, "[15, 25]", first["compliance_range"])
	assert.NotContains(t, first, "score")
}
