package compost

import "fmt"

// Role tags which group of the aggregate a property belongs to and how it
// is scored.
type Role int

const (
	// RoleBasic properties are checked for compliance only.
	RoleBasic Role = iota + 1
	// RoleNutritional properties carry a fertility index.
	RoleNutritional
	// RoleHeavyMetal properties carry a clean index.
	RoleHeavyMetal
	// RoleDerived properties are computed from other inputs and may carry a
	// fertility index.
	RoleDerived
)

func (r Role) String() string {
	switch r {
	case RoleBasic:
		return "basic"
	case RoleNutritional:
		return "nutritional"
	case RoleHeavyMetal:
		return "heavy-metal"
	case RoleDerived:
		return "derived"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// IndexKind returns the kind of category index a scored property of this
// role carries, or zero for roles that are never scored.
func (r Role) IndexKind() IndexKind {
	switch r {
	case RoleNutritional, RoleDerived:
		return Fertility
	case RoleHeavyMetal:
		return Clean
	default:
		return 0
	}
}

// Spec holds the identity, value and limits shared by every property.
// Zero-valued limits resolve to DefaultLimit.
type Spec struct {
	Name       string
	Label      string
	Unit       string
	Value      float64
	Validity   Limit
	Compliance Limit
}

// Property is a measured or derived compost property. It is read-only once
// constructed.
type Property struct {
	spec  Spec
	role  Role
	index *CategoryIndex
}

// NewBasic creates an unscored property.
func NewBasic(spec Spec) (*Property, error) {
	return newProperty(spec, RoleBasic, nil)
}

// NewNutritional creates a property scored on the fertility index.
//
// The property scores its own copy of index; the caller's index is left
// unassigned. Read the score through the property.
func NewNutritional(spec Spec, index *CategoryIndex) (*Property, error) {
	if err := requireIndex(spec.Name, index, Fertility); err != nil {
		return nil, err
	}
	return newProperty(spec, RoleNutritional, index)
}

// NewHeavyMetal creates a property scored on the clean index. Like
// NewNutritional it scores a copy of index.
func NewHeavyMetal(spec Spec, index *CategoryIndex) (*Property, error) {
	if err := requireIndex(spec.Name, index, Clean); err != nil {
		return nil, err
	}
	return newProperty(spec, RoleHeavyMetal, index)
}

// NewDerived creates a derived property. index may be nil for an unscored
// derived property; otherwise it must be a fertility index, and a copy of it
// is scored as in NewNutritional.
func NewDerived(spec Spec, index *CategoryIndex) (*Property, error) {
	if index != nil {
		if err := requireIndex(spec.Name, index, Fertility); err != nil {
			return nil, err
		}
	}
	return newProperty(spec, RoleDerived, index)
}

func requireIndex(name string, index *CategoryIndex, kind IndexKind) error {
	if index == nil {
		return fmt.Errorf("%s: %s index is required: %w", name, kind, ErrInvalidConfiguration)
	}
	if index.Kind() != kind {
		return fmt.Errorf("%s: index must be of kind %s, got %s: %w", name, kind, index.Kind(), ErrInvalidConfiguration)
	}
	return nil
}

func newProperty(spec Spec, role Role, index *CategoryIndex) (*Property, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("property name is empty: %w", ErrInvalidConfiguration)
	}
	spec.Validity = spec.Validity.orDefault()
	spec.Compliance = spec.Compliance.orDefault()

	if !spec.Validity.Contains(spec.Value) {
		return nil, fmt.Errorf("%s: value %g outside validity range %s: %w", spec.Name, spec.Value, spec.Validity, ErrInvalidInput)
	}

	p := &Property{spec: spec, role: role}
	if index != nil {
		p.index = index.clone()
		p.index.Assign(spec.Value)
	}
	return p, nil
}

func (p *Property) Name() string      { return p.spec.Name }
func (p *Property) Unit() string      { return p.spec.Unit }
func (p *Property) Value() float64    { return p.spec.Value }
func (p *Property) Validity() Limit   { return p.spec.Validity }
func (p *Property) Compliance() Limit { return p.spec.Compliance }
func (p *Property) Role() Role        { return p.role }

// Label returns the display label, falling back to the name.
func (p *Property) Label() string {
	if p.spec.Label == "" {
		return p.spec.Name
	}
	return p.spec.Label
}

// Compliant reports whether the value lies within the compliance limit.
func (p *Property) Compliant() bool {
	return p.spec.Compliance.Contains(p.spec.Value)
}

// Scored reports whether the property carries a category index.
func (p *Property) Scored() bool {
	return p.index != nil
}

// Score returns the category score; ok is false for unscored properties.
func (p *Property) Score() (score float64, ok bool) {
	if p.index == nil {
		return 0, false
	}
	return p.index.Score()
}

// Index returns a copy of the property's category index.
func (p *Property) Index() (*CategoryIndex, bool) {
	if p.index == nil {
		return nil, false
	}
	return p.index.clone(), true
}
