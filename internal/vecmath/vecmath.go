// Package vecmath provides the vector and statistics helpers behind the
// LSA metrics: cosine similarity, normalised mean and standard deviation,
// projections and Gram-Schmidt orthogonalisation.
//
// Vectors are plain []float64. Functions never modify their inputs.
package vecmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// residualTolerance is the relative norm below which a Gram-Schmidt
// residual is treated as linearly dependent.
const residualTolerance = 1e-10

// Norm returns the Euclidean norm of v.
func Norm(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, 2)
}

// Dot returns the inner product of u and v.
func Dot(u, v []float64) (float64, error) {
	if len(u) != len(v) {
		return 0, fmt.Errorf("dimension mismatch %d != %d: %w", len(u), len(v), domain.ErrInvalidConfiguration)
	}
	if len(u) == 0 {
		return 0, nil
	}
	return floats.Dot(u, v), nil
}

// Cosine returns the cosine of the angle between u and v, in [-1, 1].
func Cosine(u, v []float64) (float64, error) {
	dot, err := Dot(u, v)
	if err != nil {
		return 0, err
	}
	nu, nv := Norm(u), Norm(v)
	if nu == 0 || nv == 0 {
		return 0, domain.ErrDegenerateVector
	}
	c := dot / (nu * nv)
	return math.Max(-1, math.Min(1, c)), nil
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, domain.ErrInsufficientInput
	}
	return stat.Mean(values, nil), nil
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, domain.ErrInsufficientInput
	}
	_, variance := stat.PopMeanVariance(values, nil)
	return math.Sqrt(math.Max(variance, 0)), nil
}

// NormalizedMean maps the mean of values in [-1, 1] onto [0, 1].
func NormalizedMean(values []float64) (float64, error) {
	m, err := Mean(values)
	if err != nil {
		return 0, err
	}
	return (m + 1) / 2, nil
}

// NormalizedStd returns (std + 1) / 2 for the population std of values.
func NormalizedStd(values []float64) (float64, error) {
	s, err := StdDev(values)
	if err != nil {
		return 0, err
	}
	return (s + 1) / 2, nil
}

// Project returns the projection of a onto b.
func Project(a, b []float64) ([]float64, error) {
	bb, err := Dot(b, b)
	if err != nil {
		return nil, err
	}
	if bb == 0 {
		return nil, domain.ErrDegenerateVector
	}
	ab, err := Dot(a, b)
	if err != nil {
		return nil, err
	}
	return floats.ScaleTo(make([]float64, len(b)), ab/bb, b), nil
}

// Orthogonalize returns an orthogonal (not normalised) basis spanning the
// same subspace as vectors. Vectors are taken in reverse order, so the last
// input becomes the first basis vector. Inputs that are linearly dependent
// on earlier ones contribute no basis vector; zero vectors are rejected.
func Orthogonalize(vectors [][]float64) ([][]float64, error) {
	basis := make([][]float64, 0, len(vectors))
	for i := len(vectors) - 1; i >= 0; i-- {
		v := vectors[i]
		nv := Norm(v)
		if nv == 0 {
			return nil, domain.ErrDegenerateVector
		}
		w := append([]float64(nil), v...)
		for _, b := range basis {
			p, err := Project(w, b)
			if err != nil {
				return nil, err
			}
			floats.Sub(w, p)
		}
		if Norm(w) <= residualTolerance*nv {
			continue
		}
		basis = append(basis, w)
	}
	return basis, nil
}

// ProjectOntoSubspace projects v onto the span of vectors.
func ProjectOntoSubspace(v []float64, vectors [][]float64) ([]float64, error) {
	basis, err := Orthogonalize(vectors)
	if err != nil {
		return nil, err
	}
	proj := make([]float64, len(v))
	for _, b := range basis {
		p, err := Project(v, b)
		if err != nil {
			return nil, err
		}
		floats.Add(proj, p)
	}
	return proj, nil
}

// Sub returns a - b.
func Sub(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("dimension mismatch %d != %d: %w", len(a), len(b), domain.ErrInvalidConfiguration)
	}
	return floats.SubTo(make([]float64, len(a)), a, b), nil
}
