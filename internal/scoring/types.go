package scoring

import (
	"time"

	"github.com/dotcommander/cqe/internal/grade"
)

// Report is the evaluation result for one sample
type Report struct {
	ID             string          `json:"id"`                 // Unique per evaluation run
	SampleID       string          `json:"sample_id"`          // Sample identifier
	Source         string          `json:"source,omitempty"`   // Sample file path
	Standard       string          `json:"standard,omitempty"` // Parameter table name
	Compliant      bool            `json:"compliant"`          // Every property within its compliance range
	FertilityIndex float64         `json:"fertility_index"`    // Weighted mean of fertility scores, 1-5
	CleanIndex     float64         `json:"clean_index"`        // Weighted mean of clean scores, 0-5
	Grade          grade.Grade     `json:"grade"`              // A..D, RU1..RU3 or ungraded
	NonCompliant   []string        `json:"non_compliant"`      // Names of failing properties
	Properties     []PropertyScore `json:"properties"`         // Per-property breakdown
	EvaluatedAt    time.Time       `json:"evaluated_at"`
}

// PropertyScore is the breakdown for a single property
type PropertyScore struct {
	Name            string   `json:"name"`
	Label           string   `json:"label"`
	Unit            string   `json:"unit,omitempty"`
	Group           string   `json:"group"`            // basic, nutritional, heavy-metal, derived
	Value           float64  `json:"value"`            // Measured or derived value
	ComplianceRange string   `json:"compliance_range"` // e.g. "[6.5, 7.5]" or "[0, +Inf)"
	Compliant       bool     `json:"compliant"`
	Score           *float64 `json:"score,omitempty"`     // Category score; nil when unscored
	MinScore        *float64 `json:"min_score,omitempty"` // Lowest attainable score
	MaxScore        *float64 `json:"max_score,omitempty"` // Highest attainable score
	Weight          *float64 `json:"weight,omitempty"`    // Index weight
}

// Scored reports whether the property carries a category score.
func (p PropertyScore) Scored() bool {
	return p.Score != nil
}
