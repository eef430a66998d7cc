package compost

import (
	"fmt"
	"math"
	"strconv"
)

// Limit is a closed interval [min, max]. The zero value is unspecified and
// resolves to DefaultLimit wherever a limit is required.
type Limit struct {
	min float64
	max float64
	set bool
}

// NewLimit creates a Limit, failing when min > max or either bound is NaN.
func NewLimit(min, max float64) (Limit, error) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return Limit{}, fmt.Errorf("limit bounds must be numbers: %w", ErrInvalidConfiguration)
	}
	if min > max {
		return Limit{}, fmt.Errorf("limit minimum %g exceeds maximum %g: %w", min, max, ErrInvalidConfiguration)
	}
	return Limit{min: min, max: max, set: true}, nil
}

// MustLimit is like NewLimit but panics on invalid bounds.
func MustLimit(min, max float64) Limit {
	l, err := NewLimit(min, max)
	if err != nil {
		panic(err)
	}
	return l
}

// DefaultLimit returns [0, +Inf).
func DefaultLimit() Limit {
	return Limit{min: 0, max: math.Inf(1), set: true}
}

// Min returns the lower bound.
func (l Limit) Min() float64 { return l.orDefault().min }

// Max returns the upper bound, +Inf when open.
func (l Limit) Max() float64 { return l.orDefault().max }

// IsSet reports whether the limit was explicitly constructed.
func (l Limit) IsSet() bool { return l.set }

// Contains reports whether v lies within the limit, inclusive on both ends.
func (l Limit) Contains(v float64) bool {
	l = l.orDefault()
	return l.min <= v && v <= l.max
}

func (l Limit) String() string {
	l = l.orDefault()
	upper := formatBound(l.max)
	if math.IsInf(l.max, 1) {
		return "[" + formatBound(l.min) + ", " + upper + ")"
	}
	return "[" + formatBound(l.min) + ", " + upper + "]"
}

func (l Limit) orDefault() Limit {
	if !l.set {
		return DefaultLimit()
	}
	return l
}

func formatBound(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
