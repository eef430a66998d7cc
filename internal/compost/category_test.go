package compost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryIndex(t *testing.T) {
	tests := []struct {
		name          string
		kind          IndexKind
		weight        float64
		boundaries    []float64
		wantErr       bool
		wantDirection Direction
	}{
		{"clean ascending", Clean, 0.5, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, false, Ascending},
		{"clean descending", Clean, 0.5, []float64{0.5, 0.4, 0.3, 0.2, 0.1}, false, Descending},
		{"fertility descending", Fertility, 3, []float64{1.25, 1.05, 0.805, 0.505}, false, Descending},
		{"fertility ascending", Fertility, 3, []float64{10.05, 15.05, 20.05, 25.05}, false, Ascending},
		{"repeated boundaries ascending", Fertility, 1, []float64{1, 1, 2, 2}, false, Ascending},
		{"clean with three boundaries", Clean, 0.5, []float64{0.1, 0.2, 0.3}, true, 0},
		{"fertility with five boundaries", Fertility, 0.5, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, true, 0},
		{"non-monotonic clean", Clean, 0.5, []float64{0.1, 0.3, 0.2, 0.4, 0.5}, true, 0},
		{"non-monotonic short", Clean, 0.5, []float64{0.1, 0.3, 0.2}, true, 0},
		{"non-monotonic fertility", Fertility, 0.5, []float64{0.1, 0.3, 0.2, 0.4}, true, 0},
		{"zero weight", Fertility, 0, []float64{1, 2, 3, 4}, true, 0},
		{"negative weight", Clean, -1, []float64{1, 2, 3, 4, 5}, true, 0},
		{"unknown kind", IndexKind(9), 1, []float64{1, 2, 3, 4}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewCategoryIndex(tt.kind, tt.weight, tt.boundaries)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				assert.Nil(t, idx)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDirection, idx.Direction())
			assert.Equal(t, tt.kind, idx.Kind())
			assert.Equal(t, tt.weight, idx.Weight())
			assert.Equal(t, tt.boundaries, idx.Boundaries())

			_, ok := idx.Score()
			assert.False(t, ok, "score must be undefined before Assign")
		})
	}
}

func TestCategoryIndexAssignAscending(t *testing.T) {
	idx, err := NewCategoryIndex(Clean, 0.5, []float64{0.1, 0.2, 0.3, 0.4, 0.5})
	require.NoError(t, err)

	tests := []struct {
		value float64
		want  float64
	}{
		{0.05, 5},
		{0.15, 4},
		{0.25, 3},
		{0.35, 2},
		{0.45, 1},
		{0.55, 0},
		{0.1, 5}, // boundaries are strict
	}

	for _, tt := range tests {
		got := idx.Assign(tt.value)
		assert.Equal(t, tt.want, got, "Assign(%g)", tt.value)
		score, ok := idx.Score()
		assert.True(t, ok)
		assert.Equal(t, tt.want, score)
	}
}

func TestCategoryIndexAssignDescending(t *testing.T) {
	idx, err := NewCategoryIndex(Clean, 0.5, []float64{0.5, 0.4, 0.3, 0.2, 0.1})
	require.NoError(t, err)

	values := []float64{0.55, 0.45, 0.35, 0.25, 0.15, 0.05}
	want := []float64{5, 4, 3, 2, 1, 0}
	for i, v := range values {
		assert.Equal(t, want[i], idx.Assign(v), "Assign(%g)", v)
	}
}

func TestCategoryIndexReassign(t *testing.T) {
	idx, err := NewCategoryIndex(Fertility, 3, []float64{1.25, 1.05, 0.805, 0.505})
	require.NoError(t, err)

	idx.Assign(0.1)
	idx.Assign(1.3)

	score, ok := idx.Score()
	require.True(t, ok)
	assert.Equal(t, 5.0, score)
}

func TestCategoryIndexScoreRange(t *testing.T) {
	idx, err := NewCategoryIndex(Fertility, 1, []float64{10.05, 15.05, 20.05, 25.05})
	require.NoError(t, err)
	assert.Equal(t, 1.0, idx.MinScore())

	for v := -10.0; v <= 40; v += 0.5 {
		s := idx.Assign(v)
		assert.GreaterOrEqual(t, s, idx.MinScore())
		assert.LessOrEqual(t, s, MaxScore)
	}
}

func TestCategoryIndexCopiesBoundaries(t *testing.T) {
	b := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	idx, err := NewCategoryIndex(Clean, 1, b)
	require.NoError(t, err)

	b[0] = 99
	assert.Equal(t, 0.1, idx.Boundaries()[0])

	out := idx.Boundaries()
	out[1] = 99
	assert.Equal(t, 0.2, idx.Boundaries()[1])
}
