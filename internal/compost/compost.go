// Package compost implements the compost quality scoring and classification
// engine: limits, category indices, typed properties and the aggregate that
// derives compliance, the fertility index and the clean index for one sample.
package compost

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Groups partitions the properties of one sample by role.
type Groups struct {
	Basic       []*Property
	Nutritional []*Property
	HeavyMetal  []*Property
	Derived     []*Property
}

// Compost is the evaluated aggregate for one sample. It exclusively owns its
// properties and is read-only after construction; evaluating a new sample
// requires a new Compost.
type Compost struct {
	groups Groups
	byName map[string]*Property
}

// New assembles a Compost from its property groups. Each property must carry
// the role of the group it is placed in and names must be unique.
func New(groups Groups) (*Compost, error) {
	c := &Compost{
		groups: Groups{
			Basic:       slices.Clone(groups.Basic),
			Nutritional: slices.Clone(groups.Nutritional),
			HeavyMetal:  slices.Clone(groups.HeavyMetal),
			Derived:     slices.Clone(groups.Derived),
		},
		byName: make(map[string]*Property),
	}

	for _, role := range roles {
		for _, p := range c.Group(role) {
			if p == nil {
				return nil, fmt.Errorf("nil property in %s group: %w", role, ErrInvalidConfiguration)
			}
			if p.Role() != role {
				return nil, fmt.Errorf("%s: %s property placed in %s group: %w", p.Name(), p.Role(), role, ErrInvalidConfiguration)
			}
			if _, dup := c.byName[p.Name()]; dup {
				return nil, fmt.Errorf("%s: duplicate property: %w", p.Name(), ErrInvalidConfiguration)
			}
			c.byName[p.Name()] = p
		}
	}

	return c, nil
}

var roles = []Role{RoleBasic, RoleNutritional, RoleHeavyMetal, RoleDerived}

// Group returns the properties of one role in insertion order.
func (c *Compost) Group(role Role) []*Property {
	switch role {
	case RoleBasic:
		return slices.Clone(c.groups.Basic)
	case RoleNutritional:
		return slices.Clone(c.groups.Nutritional)
	case RoleHeavyMetal:
		return slices.Clone(c.groups.HeavyMetal)
	case RoleDerived:
		return slices.Clone(c.groups.Derived)
	default:
		return nil
	}
}

// Properties returns every property, group by group.
func (c *Compost) Properties() []*Property {
	all := make([]*Property, 0, len(c.byName))
	for _, role := range roles {
		all = append(all, c.Group(role)...)
	}
	return all
}

// Property looks up a property by name.
func (c *Compost) Property(name string) (*Property, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Compliant reports whether every property lies within its compliance limit.
func (c *Compost) Compliant() bool {
	for _, p := range c.Properties() {
		if !p.Compliant() {
			return false
		}
	}
	return true
}

// NonCompliant returns the properties outside their compliance limits.
func (c *Compost) NonCompliant() []*Property {
	var failed []*Property
	for _, p := range c.Properties() {
		if !p.Compliant() {
			failed = append(failed, p)
		}
	}
	return failed
}

// FertilityIndex is the weighted mean score of the nutritional properties and
// the scored derived properties.
func (c *Compost) FertilityIndex() (float64, error) {
	contributors := slices.Clone(c.groups.Nutritional)
	for _, p := range c.groups.Derived {
		if p.Scored() {
			contributors = append(contributors, p)
		}
	}
	v, err := weightedMean(contributors)
	if err != nil {
		return 0, fmt.Errorf("fertility index: %w", err)
	}
	return v, nil
}

// CleanIndex is the weighted mean score of the heavy-metal properties.
func (c *Compost) CleanIndex() (float64, error) {
	v, err := weightedMean(c.groups.HeavyMetal)
	if err != nil {
		return 0, fmt.Errorf("clean index: %w", err)
	}
	return v, nil
}

func weightedMean(props []*Property) (float64, error) {
	scores := make([]float64, 0, len(props))
	weights := make([]float64, 0, len(props))
	for _, p := range props {
		score, ok := p.Score()
		if !ok {
			continue
		}
		scores = append(scores, score)
		weights = append(weights, p.index.Weight())
	}
	if len(weights) == 0 || floats.Sum(weights) == 0 {
		return 0, ErrDivisionUndefined
	}
	return stat.Mean(scores, weights), nil
}
