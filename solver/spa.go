// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

const opSPA = "SPA"

// SPA runs the Successive Projection Algorithm on the columns of S and returns
// the k selected column indices in selection order, together with the
// residual norm each column had when it was selected.
//
// Implementation:
//   - Stage 1: validate S (non-empty, finite) and 1 ≤ k ≤ cols(S).
//   - Stage 2: R = dense copy of S; squared column norms.
//   - Stage 3: k times: pick the column with the largest residual norm
//     (lowest index on ties), project every column of R onto the orthogonal
//     complement of the picked one, update the norms.
//
// Behavior highlights:
//   - Once R is exhausted (rank(S) < k), remaining picks take the lowest
//     unselected index with norm 0, so exactly k distinct columns are returned.
//
// Errors:
//   - ErrInvalidRank, matrix.ErrNilMatrix, matrix.ErrEmpty, matrix.ErrNaNInf.
//
// Complexity:
//   - Time O(k·d·n), Space O(d·n).
func SPA(S mat.Matrix, k int) (selected []int, norms []float64, err error) {
	if err = matrix.ValidateNonEmpty(S); err != nil {
		return nil, nil, solverErrorf(opSPA, err)
	}
	if err = matrix.ValidateFinite(S); err != nil {
		return nil, nil, solverErrorf(opSPA, err)
	}
	d, n := S.Dims()
	if k < 1 || k > n {
		return nil, nil, solverErrorf(opSPA, fmt.Errorf("k=%d with %d samples: %w", k, n, ErrInvalidRank))
	}

	R, err := matrix.Densify(S)
	if err != nil {
		return nil, nil, solverErrorf(opSPA, err)
	}

	sq := make([]float64, n)
	col := make([]float64, d)
	var j int
	for j = 0; j < n; j++ {
		mat.Col(col, j, R)
		sq[j] = floats.Dot(col, col)
	}

	taken := make([]bool, n)
	selected = make([]int, 0, k)
	norms = make([]float64, 0, k)
	u := make([]float64, d)

	for len(selected) < k {
		best := -1
		for j = 0; j < n; j++ {
			if taken[j] {
				continue
			}
			if best < 0 || sq[j] > sq[best] {
				best = j
			}
		}
		taken[best] = true
		selected = append(selected, best)
		norm := math.Sqrt(math.Max(sq[best], 0))
		norms = append(norms, norm)
		if norm == 0 {
			continue
		}

		mat.Col(u, best, R)
		floats.Scale(1/norm, u)
		for j = 0; j < n; j++ {
			if taken[j] && j != best {
				continue
			}
			mat.Col(col, j, R)
			floats.AddScaled(col, -floats.Dot(u, col), u)
			R.SetCol(j, col)
			sq[j] = floats.Dot(col, col)
		}
	}

	return selected, norms, nil
}
