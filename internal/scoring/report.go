// Package scoring turns an evaluated compost into a report.
package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/grade"
)

// Options carries the report metadata that does not come from the compost.
type Options struct {
	SampleID string
	Source   string
	Standard string
	Policy   grade.Policy
	// Now overrides the evaluation timestamp; nil uses time.Now.
	Now func() time.Time
}

// NewReport computes both indices, the compliance verdict and the grade of
// an evaluated compost.
func NewReport(c *compost.Compost, opts Options) (Report, error) {
	fi, err := c.FertilityIndex()
	if err != nil {
		return Report{}, err
	}
	ci, err := c.CleanIndex()
	if err != nil {
		return Report{}, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	compliant := c.Compliant()
	nonCompliant := []string{}
	for _, p := range c.NonCompliant() {
		nonCompliant = append(nonCompliant, p.Name())
	}

	props := c.Properties()
	scores := make([]PropertyScore, 0, len(props))
	for _, p := range props {
		scores = append(scores, propertyScore(p))
	}

	return Report{
		ID:             uuid.NewString(),
		SampleID:       opts.SampleID,
		Source:         opts.Source,
		Standard:       opts.Standard,
		Compliant:      compliant,
		FertilityIndex: fi,
		CleanIndex:     ci,
		Grade:          opts.Policy.Grade(fi, ci, compliant),
		NonCompliant:   nonCompliant,
		Properties:     scores,
		EvaluatedAt:    now().UTC(),
	}, nil
}

func propertyScore(p *compost.Property) PropertyScore {
	ps := PropertyScore{
		Name:            p.Name(),
		Label:           p.Label(),
		Unit:            p.Unit(),
		Group:           p.Role().String(),
		Value:           p.Value(),
		ComplianceRange: p.Compliance().String(),
		Compliant:       p.Compliant(),
	}
	index, ok := p.Index()
	if !ok {
		return ps
	}
	score, _ := index.Score()
	minScore, maxScore, weight := index.MinScore(), compost.MaxScore, index.Weight()
	ps.Score = &score
	ps.MinScore = &minScore
	ps.MaxScore = &maxScore
	ps.Weight = &weight
	return ps
}
