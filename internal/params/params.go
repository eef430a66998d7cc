// Package params loads the reference parameter table that drives an
// evaluation: per-property limits, index weights, category boundaries and
// the optional grade policy.
package params

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/cue"
	"github.com/dotcommander/cqe/internal/grade"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// SourceEmbedded is the Source of the built-in parameter table.
const SourceEmbedded = "(built-in)"

// maxFileSize bounds parameter files read from disk.
const maxFileSize = 1 << 20

// Bounds is a [min, max] pair; a null end is open (0 for min, +Inf for max).
// An empty Bounds means the default limit.
type Bounds []*float64

// Limit converts the pair into a compost.Limit.
func (b Bounds) Limit() (compost.Limit, error) {
	if len(b) == 0 {
		return compost.Limit{}, nil
	}
	if len(b) != 2 {
		return compost.Limit{}, fmt.Errorf("bounds need exactly 2 values, got %d: %w", len(b), compost.ErrInvalidConfiguration)
	}
	for _, v := range b {
		if v != nil && (math.IsInf(*v, 0) || math.IsNaN(*v)) {
			return compost.Limit{}, fmt.Errorf("bound %g is not finite, write null for an open bound: %w", *v, compost.ErrInvalidConfiguration)
		}
	}
	lo, hi := 0.0, math.Inf(1)
	if b[0] != nil {
		lo = *b[0]
	}
	if b[1] != nil {
		hi = *b[1]
	}
	return compost.NewLimit(lo, hi)
}

// Entry is the parameter row of one property.
type Entry struct {
	Label          string    `yaml:"label,omitempty" json:"label,omitempty"`
	Unit           string    `yaml:"unit,omitempty" json:"unit,omitempty"`
	Validity       Bounds    `yaml:"validity_limit,omitempty" json:"validity_limit,omitempty"`
	Compliance     Bounds    `yaml:"compliance_limit,omitempty" json:"compliance_limit,omitempty"`
	Weight         *float64  `yaml:"weight,omitempty" json:"weight,omitempty"`
	CategoryLimits []float64 `yaml:"category_limits,omitempty" json:"category_limits,omitempty"`
}

// GradeRule is one row of the grade policy.
type GradeRule struct {
	Grade             string   `yaml:"grade" json:"grade"`
	MinFertility      *float64 `yaml:"min_fertility,omitempty" json:"min_fertility,omitempty"`
	MinClean          *float64 `yaml:"min_clean,omitempty" json:"min_clean,omitempty"`
	RequireCompliance bool     `yaml:"require_compliance,omitempty" json:"require_compliance,omitempty"`
}

// File is a decoded parameter document.
type File struct {
	Version    int              `yaml:"version" json:"version"`
	Standard   string           `yaml:"standard,omitempty" json:"standard,omitempty"`
	Properties map[string]Entry `yaml:"properties" json:"properties"`
	Grades     []GradeRule      `yaml:"grades,omitempty" json:"grades,omitempty"`

	source string
}

// Source returns the path the file was loaded from, or SourceEmbedded.
func (f *File) Source() string {
	if f.source == "" {
		return SourceEmbedded
	}
	return f.source
}

// Default returns the built-in parameter table.
func Default() (*File, error) {
	f, err := Parse(defaultsYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in parameters: %w", err)
	}
	f.source = SourceEmbedded
	return f, nil
}

// Load reads and validates a parameter file. YAML and JSON are accepted.
func Load(path string) (*File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return nil, fmt.Errorf("%s: parameter file must be .yaml, .yml or .json", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameters: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("%s: parameter file too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameters: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.source = path
	return f, nil
}

// Parse decodes a parameter document, validates it against the parameters
// schema and checks it against the property catalog.
func Parse(data []byte) (*File, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding parameters: %v: %w", err, compost.ErrInvalidConfiguration)
	}
	if raw == nil {
		return nil, fmt.Errorf("parameter document is empty: %w", compost.ErrInvalidConfiguration)
	}

	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, err
	}
	violations, err := v.ValidateParameters(raw)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, fmt.Errorf("parameter schema: %s: %w", cue.Join(violations), compost.ErrInvalidConfiguration)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding parameters: %v: %w", err, compost.ErrInvalidConfiguration)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the table against the property catalog. Every problem is
// reported; the result wraps compost.ErrInvalidConfiguration or
// compost.ErrMissingConfiguration.
func (f *File) Validate() error {
	var errs []error

	for _, name := range slices.Sorted(maps.Keys(f.Properties)) {
		role, scored, ok := compost.RoleOf(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown property: %w", name, compost.ErrInvalidConfiguration))
			continue
		}
		errs = append(errs, checkEntry(name, role, scored, f.Properties[name])...)
	}

	for _, name := range compost.Names() {
		if _, ok := f.Properties[name]; !ok {
			errs = append(errs, fmt.Errorf("%s: %w", name, compost.ErrMissingConfiguration))
		}
	}

	if _, err := f.Policy(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func checkEntry(name string, role compost.Role, scored bool, e Entry) []error {
	var errs []error
	if _, err := e.Validity.Limit(); err != nil {
		errs = append(errs, fmt.Errorf("%s: validity_limit: %w", name, err))
	}
	if _, err := e.Compliance.Limit(); err != nil {
		errs = append(errs, fmt.Errorf("%s: compliance_limit: %w", name, err))
	}

	hasWeight := e.Weight != nil
	hasLimits := len(e.CategoryLimits) > 0
	switch {
	case !scored && (hasWeight || hasLimits):
		errs = append(errs, fmt.Errorf("%s: %s property takes no weight or category_limits: %w", name, role, compost.ErrInvalidConfiguration))
	case scored && (!hasWeight || !hasLimits):
		errs = append(errs, fmt.Errorf("%s: scored property needs weight and category_limits: %w", name, compost.ErrInvalidConfiguration))
	case slices.ContainsFunc(e.CategoryLimits, func(v float64) bool { return math.IsInf(v, 0) }):
		errs = append(errs, fmt.Errorf("%s: category_limits must be finite: %w", name, compost.ErrInvalidConfiguration))
	case scored:
		if _, err := compost.NewCategoryIndex(role.IndexKind(), *e.Weight, e.CategoryLimits); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errs
}

// Parameters converts the table into the form consumed by compost.Build.
func (f *File) Parameters() (compost.Parameters, error) {
	out := make(compost.Parameters, len(f.Properties))
	for name, e := range f.Properties {
		validity, err := e.Validity.Limit()
		if err != nil {
			return nil, fmt.Errorf("%s: validity_limit: %w", name, err)
		}
		compliance, err := e.Compliance.Limit()
		if err != nil {
			return nil, fmt.Errorf("%s: compliance_limit: %w", name, err)
		}
		pp := compost.PropertyParams{
			Label:          e.Label,
			Unit:           e.Unit,
			Validity:       validity,
			Compliance:     compliance,
			CategoryLimits: slices.Clone(e.CategoryLimits),
		}
		if e.Weight != nil {
			pp.Weight = *e.Weight
		}
		out[name] = pp
	}
	return out, nil
}

// Policy builds the grade policy. A table without grades yields an empty
// policy that grades every sample as ungraded.
func (f *File) Policy() (grade.Policy, error) {
	rules := make([]grade.Rule, 0, len(f.Grades))
	for i, g := range f.Grades {
		label, err := grade.Parse(g.Grade)
		if err != nil {
			return grade.Policy{}, fmt.Errorf("grades[%d]: %w", i, err)
		}
		rules = append(rules, grade.Rule{
			Grade:             label,
			MinFertility:      g.MinFertility,
			MinClean:          g.MinClean,
			RequireCompliance: g.RequireCompliance,
		})
	}
	return grade.NewPolicy(rules)
}

// Marshal renders the table as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
