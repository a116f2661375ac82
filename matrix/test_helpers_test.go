// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for kernels and validators.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

const epsTight = 1e-12

// hide wraps any mat.Matrix to hide its concrete type from type switches,
// forcing the generic (At-based) fallback paths in code under test.
type hide struct{ mat.Matrix }

// NewFilledDense builds an r×c *mat.Dense from row-major data.
func NewFilledDense(t testing.TB, r, c int, data []float64) *mat.Dense {
	t.Helper()
	require.Len(t, data, r*c, "fixture length")

	return mat.NewDense(r, c, append([]float64(nil), data...))
}

// MustSparse compresses a dense fixture or fails the test.
func MustSparse(t testing.TB, m mat.Matrix) *matrix.Sparse {
	t.Helper()
	s, err := matrix.SparseFromDense(m, 0)
	require.NoError(t, err)

	return s
}

// CompareClose asserts a and b have equal shapes and element-wise
// |a−b| <= atol + rtol*|b|.
func CompareClose(t testing.TB, a, b mat.Matrix, rtol, atol float64) {
	t.Helper()
	ar, ac := a.Dims()
	br, bc := b.Dims()
	require.Equal(t, ar, br, "rows")
	require.Equal(t, ac, bc, "cols")
	var i, j int
	var x, y float64
	for i = 0; i < ar; i++ {
		for j = 0; j < ac; j++ {
			x, y = a.At(i, j), b.At(i, j)
			if math.Abs(x-y) > atol+rtol*math.Abs(y) {
				t.Fatalf("(%d,%d): got %g want %g", i, j, x, y)
			}
		}
	}
}

// sliceClose asserts element-wise closeness of two float slices.
func sliceClose(t testing.TB, got, want []float64, rtol, atol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.Abs(got[i]-want[i]) > atol+rtol*math.Abs(want[i]) {
			t.Fatalf("[%d]: got %g want %g", i, got[i], want[i])
		}
	}
}

// randomDense returns an r×c matrix with a sparse-ish, non-negative fill
// driven by a fixed seed.
func randomDense(r, c int, seed int64, density float64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if rng.Float64() < density {
				m.Set(i, j, rng.Float64()*10)
			}
		}
	}

	return m
}
