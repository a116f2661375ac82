// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - In-place element-wise repairs for convex coefficient matrices produced by
//     iterative solvers (tiny negative drift, column sums off by rounding).
//
// Determinism:
//   - Fixed column-major traversal; no allocations beyond one column buffer.

package matrix

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ClampNonNegative replaces every negative entry of m with 0, in place.
// Complexity: O(r*c).
func ClampNonNegative(m *mat.Dense) {
	m.Apply(func(_, _ int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, m)
}

// RepairSimplexColumns clamps m to non-negative values and rescales each column
// to sum to 1, in place. A column that is entirely zero after clamping becomes
// the uniform distribution so the simplex invariant always holds afterwards.
//
// Implementation:
//   - Stage 1: ClampNonNegative.
//   - Stage 2: per column, divide by the sum (floats.Sum) or fill 1/r.
//
// Complexity:
//   - Time O(r*c), Space O(r).
func RepairSimplexColumns(m *mat.Dense) {
	ClampNonNegative(m)
	r, c := m.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		s := floats.Sum(col)
		if s <= 0 {
			for i := range col {
				col[i] = 1 / float64(r)
			}
		} else {
			floats.Scale(1/s, col)
		}
		m.SetCol(j, col)
	}
}
