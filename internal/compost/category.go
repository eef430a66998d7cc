package compost

import (
	"fmt"
	"math"
	"slices"
)

// MaxScore is the score of a value that crosses no category boundary.
const MaxScore = 5.0

// IndexKind selects which composite index a category score feeds.
type IndexKind int

const (
	Fertility IndexKind = iota + 1
	Clean
)

func (k IndexKind) String() string {
	switch k {
	case Fertility:
		return "fertility"
	case Clean:
		return "clean"
	default:
		return fmt.Sprintf("IndexKind(%d)", int(k))
	}
}

// BoundaryCount returns the number of category boundaries the kind requires.
func (k IndexKind) BoundaryCount() int {
	switch k {
	case Fertility:
		return 4
	case Clean:
		return 5
	default:
		return 0
	}
}

// Direction is the ordering of category boundaries.
type Direction int

const (
	Ascending Direction = iota + 1
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// CategoryIndex maps a continuous value onto a discrete score band.
//
// Ascending boundaries model scales where larger values are worse (heavy
// metals, C/N ratio): the score drops by one for every boundary the value
// exceeds. Descending boundaries model scales where larger values are better
// (nutrients): the score drops by one for every boundary the value falls
// below. The decrement is cumulative over all boundaries.
//
// A CategoryIndex carries mutable score state and must not be shared between
// properties or samples.
type CategoryIndex struct {
	kind       IndexKind
	weight     float64
	boundaries []float64
	direction  Direction
	score      float64
	assigned   bool
}

// NewCategoryIndex validates the weight and boundaries for the given kind and
// derives the boundary direction. The boundaries slice is copied.
func NewCategoryIndex(kind IndexKind, weight float64, boundaries []float64) (*CategoryIndex, error) {
	want := kind.BoundaryCount()
	if want == 0 {
		return nil, fmt.Errorf("unknown index kind %v: %w", kind, ErrInvalidConfiguration)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return nil, fmt.Errorf("%s index weight must be positive, got %g: %w", kind, weight, ErrInvalidConfiguration)
	}
	for _, b := range boundaries {
		if math.IsNaN(b) {
			return nil, fmt.Errorf("%s index boundaries must be numbers: %w", kind, ErrInvalidConfiguration)
		}
	}

	direction, ok := boundaryDirection(boundaries)
	if !ok {
		return nil, fmt.Errorf("%s index boundaries %v are neither ascending nor descending: %w", kind, boundaries, ErrInvalidConfiguration)
	}
	if len(boundaries) != want {
		return nil, fmt.Errorf("%s index requires %d boundaries, got %d: %w", kind, want, len(boundaries), ErrInvalidConfiguration)
	}

	return &CategoryIndex{
		kind:       kind,
		weight:     weight,
		boundaries: slices.Clone(boundaries),
		direction:  direction,
	}, nil
}

func boundaryDirection(boundaries []float64) (Direction, bool) {
	if slices.IsSorted(boundaries) {
		return Ascending, true
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] > boundaries[i-1] {
			return 0, false
		}
	}
	return Descending, true
}

// Assign recomputes the score for value and returns it. Earlier assignments
// have no effect on the result.
func (c *CategoryIndex) Assign(value float64) float64 {
	score := MaxScore
	for _, b := range c.boundaries {
		switch c.direction {
		case Ascending:
			if value > b {
				score--
			}
		case Descending:
			if value < b {
				score--
			}
		}
	}
	c.score = score
	c.assigned = true
	return score
}

// Score returns the last assigned score; ok is false before the first Assign.
func (c *CategoryIndex) Score() (score float64, ok bool) {
	return c.score, c.assigned
}

func (c *CategoryIndex) Kind() IndexKind      { return c.kind }
func (c *CategoryIndex) Weight() float64      { return c.weight }
func (c *CategoryIndex) Direction() Direction { return c.direction }

// Boundaries returns a copy of the category boundaries in configured order.
func (c *CategoryIndex) Boundaries() []float64 {
	return slices.Clone(c.boundaries)
}

// MinScore is the lowest score the index can assign.
func (c *CategoryIndex) MinScore() float64 {
	return MaxScore - float64(len(c.boundaries))
}

func (c *CategoryIndex) clone() *CategoryIndex {
	cp := *c
	cp.boundaries = slices.Clone(c.boundaries)
	return &cp
}
