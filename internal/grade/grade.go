// Package grade maps the composite indices and compliance of a sample to a
// grade label using a configured rule table.
package grade

import (
	"fmt"
	"slices"

	"github.com/dotcommander/cqe/internal/compost"
)

// Grade is a compost grade label.
type Grade string

const (
	A   Grade = "A"
	B   Grade = "B"
	C   Grade = "C"
	D   Grade = "D"
	RU1 Grade = "RU1"
	RU2 Grade = "RU2"
	RU3 Grade = "RU3"

	// Ungraded is reported when no rule matches or no policy is configured.
	Ungraded Grade = "ungraded"
)

var known = []Grade{A, B, C, D, RU1, RU2, RU3}

// Parse validates a grade label.
func Parse(s string) (Grade, error) {
	g := Grade(s)
	if !slices.Contains(known, g) {
		return "", fmt.Errorf("unknown grade %q (want one of %v): %w", s, known, compost.ErrInvalidConfiguration)
	}
	return g, nil
}

// Rule assigns Grade when every configured condition holds. Nil thresholds
// are not checked.
type Rule struct {
	Grade             Grade
	MinFertility      *float64
	MinClean          *float64
	RequireCompliance bool
}

// Matches reports whether the rule applies to the given evaluation.
func (r Rule) Matches(fertility, clean float64, compliant bool) bool {
	if r.RequireCompliance && !compliant {
		return false
	}
	if r.MinFertility != nil && fertility < *r.MinFertility {
		return false
	}
	if r.MinClean != nil && clean < *r.MinClean {
		return false
	}
	return true
}

// Policy is an ordered rule table; the first matching rule wins.
type Policy struct {
	rules []Rule
}

// NewPolicy validates the grade label of every rule.
func NewPolicy(rules []Rule) (Policy, error) {
	for i, r := range rules {
		if _, err := Parse(string(r.Grade)); err != nil {
			return Policy{}, fmt.Errorf("grade rule %d: %w", i, err)
		}
	}
	return Policy{rules: slices.Clone(rules)}, nil
}

// Empty reports whether the policy has no rules.
func (p Policy) Empty() bool { return len(p.rules) == 0 }

// Rules returns a copy of the rule table.
func (p Policy) Rules() []Rule { return slices.Clone(p.rules) }

// Grade returns the grade of the first matching rule, or Ungraded.
func (p Policy) Grade(fertility, clean float64, compliant bool) Grade {
	for _, r := range p.rules {
		if r.Matches(fertility, clean, compliant) {
			return r.Grade
		}
	}
	return Ungraded
}
