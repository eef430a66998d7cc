package compost

import (
	"fmt"
	"maps"
	"slices"
)

// Property names understood by Build.
const (
	Moisture     = "moisture"
	PH           = "ph"
	Conductivity = "electrical_conductivity"
	BulkDensity  = "bulk_density"

	OrganicMatter = "organic_matter"
	Nitrogen      = "nitrogen"
	Phosphorus    = "phosphorus"
	Potassium     = "potassium"

	Zinc     = "zinc"
	Copper   = "copper"
	Cadmium  = "cadmium"
	Lead     = "lead"
	Chromium = "chromium"
	Nickel   = "nickel"
	Arsenic  = "arsenic"
	Mercury  = "mercury"

	// CNRatio is organic matter (as organic carbon) over total nitrogen.
	CNRatio = "cn_ratio"
	// NutrientRatio is the total N + P + K content.
	NutrientRatio = "nutrient_ratio"
)

var catalog = []struct {
	name   string
	role   Role
	scored bool
}{
	{Moisture, RoleBasic, false},
	{PH, RoleBasic, false},
	{Conductivity, RoleBasic, false},
	{BulkDensity, RoleBasic, false},
	{OrganicMatter, RoleNutritional, true},
	{Nitrogen, RoleNutritional, true},
	{Phosphorus, RoleNutritional, true},
	{Potassium, RoleNutritional, true},
	{Zinc, RoleHeavyMetal, true},
	{Copper, RoleHeavyMetal, true},
	{Cadmium, RoleHeavyMetal, true},
	{Lead, RoleHeavyMetal, true},
	{Chromium, RoleHeavyMetal, true},
	{Nickel, RoleHeavyMetal, true},
	{Arsenic, RoleHeavyMetal, true},
	{Mercury, RoleHeavyMetal, true},
	{CNRatio, RoleDerived, true},
	{NutrientRatio, RoleDerived, false},
}

// Names returns every property name in group order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, e := range catalog {
		names = append(names, e.name)
	}
	return names
}

// MeasuredNames returns the names that must be supplied as inputs.
func MeasuredNames() []string {
	var names []string
	for _, e := range catalog {
		if e.role != RoleDerived {
			names = append(names, e.name)
		}
	}
	return names
}

// RoleOf returns the role of a known property and whether it is scored.
func RoleOf(name string) (role Role, scored bool, ok bool) {
	for _, e := range catalog {
		if e.name == name {
			return e.role, e.scored, true
		}
	}
	return 0, false, false
}

// PropertyParams are the reference parameters for one property. Zero-valued
// limits resolve to DefaultLimit. Weight and CategoryLimits are only read for
// scored properties.
type PropertyParams struct {
	Label          string
	Unit           string
	Validity       Limit
	Compliance     Limit
	Weight         float64
	CategoryLimits []float64
}

// Parameters maps property names to their reference parameters.
type Parameters map[string]PropertyParams

// Inputs maps measured property names to laboratory values.
type Inputs map[string]float64

// Build evaluates one sample: it checks the inputs against the catalog,
// derives the composite ratios, and constructs and scores every property.
// Either a complete Compost or an error is returned.
func Build(params Parameters, inputs Inputs) (*Compost, error) {
	for _, name := range slices.Sorted(maps.Keys(inputs)) {
		role, _, ok := RoleOf(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown measurement: %w", name, ErrInvalidInput)
		}
		if role == RoleDerived {
			return nil, fmt.Errorf("%s: derived property must not be supplied: %w", name, ErrInvalidInput)
		}
	}
	for _, name := range MeasuredNames() {
		if _, ok := inputs[name]; !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingInput)
		}
	}
	for _, name := range Names() {
		if _, ok := params[name]; !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingConfiguration)
		}
	}

	derived, err := Derive(inputs)
	if err != nil {
		return nil, err
	}
	values := maps.Clone(inputs)
	maps.Copy(values, derived)

	var groups Groups
	for _, e := range catalog {
		p, err := buildProperty(e.name, e.role, e.scored, params[e.name], values[e.name])
		if err != nil {
			return nil, err
		}
		switch e.role {
		case RoleBasic:
			groups.Basic = append(groups.Basic, p)
		case RoleNutritional:
			groups.Nutritional = append(groups.Nutritional, p)
		case RoleHeavyMetal:
			groups.HeavyMetal = append(groups.HeavyMetal, p)
		case RoleDerived:
			groups.Derived = append(groups.Derived, p)
		}
	}

	return New(groups)
}

// Derive computes the derived properties from measured inputs: the C/N
// ratio and the total N+P+K content. A zero nitrogen value is
// ErrInvalidInput.
func Derive(inputs Inputs) (Inputs, error) {
	ratio, err := carbonNitrogenRatio(inputs)
	if err != nil {
		return nil, err
	}
	return Inputs{
		CNRatio:       ratio,
		NutrientRatio: inputs[Nitrogen] + inputs[Phosphorus] + inputs[Potassium],
	}, nil
}

func carbonNitrogenRatio(inputs Inputs) (float64, error) {
	n := inputs[Nitrogen]
	if n == 0 {
		return 0, fmt.Errorf("%s: nitrogen is zero: %w", CNRatio, ErrInvalidInput)
	}
	return inputs[OrganicMatter] / n, nil
}

func buildProperty(name string, role Role, scored bool, pp PropertyParams, value float64) (*Property, error) {
	spec := Spec{
		Name:       name,
		Label:      pp.Label,
		Unit:       pp.Unit,
		Value:      value,
		Validity:   pp.Validity,
		Compliance: pp.Compliance,
	}

	if !scored {
		if pp.Weight != 0 || len(pp.CategoryLimits) > 0 {
			return nil, fmt.Errorf("%s: unscored property has weight or category limits: %w", name, ErrInvalidConfiguration)
		}
		if role == RoleDerived {
			return NewDerived(spec, nil)
		}
		return NewBasic(spec)
	}

	index, err := NewCategoryIndex(role.IndexKind(), pp.Weight, pp.CategoryLimits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	switch role {
	case RoleNutritional:
		return NewNutritional(spec, index)
	case RoleHeavyMetal:
		return NewHeavyMetal(spec, index)
	default:
		return NewDerived(spec, index)
	}
}
