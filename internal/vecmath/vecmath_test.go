package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

const eps = 1e-9

func TestCosine(t *testing.T) {
	v := []float64{0.3, -1.2, 4.5, 2}
	neg := []float64{-0.3, 1.2, -4.5, -2}

	tests := []struct {
		name     string
		u, v     []float64
		expected float64
	}{
		{"self", v, v, 1},
		{"opposite", v, neg, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 3}, 0},
		{"scaled", []float64{1, 2}, []float64{2, 4}, 1},
		{"diagonal", []float64{1, 0}, []float64{1, 1}, 1 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.u, tt.v)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, eps)
		})
	}
}

func TestCosine_Errors(t *testing.T) {
	_, err := Cosine([]float64{0, 0}, []float64{1, 1})
	assert.ErrorIs(t, err, domain.ErrDegenerateVector)

	_, err = Cosine([]float64{1, 0}, []float64{1, 1, 1})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestNormalizedStats(t *testing.T) {
	mean, err := NormalizedMean([]float64{1, -1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mean, eps)

	std, err := NormalizedStd([]float64{1, -1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, std, eps)

	std, err = NormalizedStd([]float64{0.4, 0.4, 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, std, eps)
}

func TestNormalizedStats_Range(t *testing.T) {
	inputs := [][]float64{
		{1},
		{-1},
		{1, 1, 1},
		{-1, -1},
		{0.2, -0.7, 0.9, 0.1},
		{1, -1, 1, -1, 1},
	}
	for _, in := range inputs {
		m, err := NormalizedMean(in)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, m, 0.0)
		assert.LessOrEqual(t, m, 1.0)

		s, err := NormalizedStd(in)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s, 0.5)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestStats_Empty(t *testing.T) {
	_, err := NormalizedMean(nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientInput)
	_, err = NormalizedStd([]float64{})
	assert.ErrorIs(t, err, domain.ErrInsufficientInput)
}

func TestProject(t *testing.T) {
	p, err := Project([]float64{2, 3}, []float64{1, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 0}, p, eps)

	_, err = Project([]float64{2, 3}, []float64{0, 0})
	assert.ErrorIs(t, err, domain.ErrDegenerateVector)
}

func TestOrthogonalize(t *testing.T) {
	vectors := [][]float64{
		{1, 1, 0},
		{1, 0, 0},
		{0, 1, 1},
	}
	basis, err := Orthogonalize(vectors)
	require.NoError(t, err)
	require.Len(t, basis, 3)

	// Last input comes first, unchanged.
	assert.InDeltaSlice(t, []float64{0, 1, 1}, basis[0], eps)
	for i := range basis {
		for j := i + 1; j < len(basis); j++ {
			d, err := Dot(basis[i], basis[j])
			require.NoError(t, err)
			assert.InDelta(t, 0, d, eps)
		}
	}
}

func TestOrthogonalize_DropsDependent(t *testing.T) {
	basis, err := Orthogonalize([][]float64{{1, 2}, {2, 4}})
	require.NoError(t, err)
	assert.Len(t, basis, 1)

	_, err = Orthogonalize([][]float64{{1, 2}, {0, 0}})
	assert.ErrorIs(t, err, domain.ErrDegenerateVector)
}

func TestProjectOntoSubspace(t *testing.T) {
	v := []float64{3, 4, 5}

	t.Run("inside span", func(t *testing.T) {
		p, err := ProjectOntoSubspace(v, [][]float64{{1, 0, 0}, {1, 1, 1}, {0, 0, 2}})
		require.NoError(t, err)
		assert.InDeltaSlice(t, v, p, eps)
	})

	t.Run("plane", func(t *testing.T) {
		p, err := ProjectOntoSubspace(v, [][]float64{{1, 1, 0}, {1, -1, 0}})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{3, 4, 0}, p, eps)
	})

	t.Run("identical prior", func(t *testing.T) {
		p, err := ProjectOntoSubspace(v, [][]float64{v})
		require.NoError(t, err)
		assert.InDeltaSlice(t, v, p, eps)
	})
}

func TestSub(t *testing.T) {
	d, err := Sub([]float64{3, 4}, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, d)

	_, err = Sub([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
