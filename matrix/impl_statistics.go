// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the column/row statistics used by archetype scoring and merging
//     as deterministic loops over gonum storage.
//
// Exposed API:
//   - NormalizeColumnsL1(X) -> (Y, norms)    // L1 column normalization (degenerate columns unchanged)
//   - ColumnArgMax(X)       -> []int         // per-column argmax, lowest index wins ties
//   - RowMeanVariance(X)    -> (means, vars) // population moments per row
//   - ColumnCorrelation(A,B)-> Corr          // Pearson corr between columns of A and B
//   - ColumnCosine(A,B)     -> Cos           // cosine similarity between columns of A and B
//
// Determinism & Performance:
//   - Fixed traversal orders for all explicit loops.
//   - *Sparse rows are folded through DoNonZero so implicit zeros cost nothing.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opNormalizeColumnsL1 = "NormalizeColumnsL1"
	opColumnArgMax       = "ColumnArgMax"
	opRowMeanVariance    = "RowMeanVariance"
	opColumnCorrelation  = "ColumnCorrelation"
	opColumnCosine       = "ColumnCosine"
)

// NormalizeColumnsL1 returns Y where each column j is scaled to L1-norm = 1.
// Degenerate columns (norm==0) are left unchanged. Also returns the norms per column.
//
// Implementation:
//   - Stage 1: Validate X (non-empty).
//   - Stage 2: Compute L1 norms per column.
//   - Stage 3: Copy X and scale each non-degenerate column by 1/norm.
//
// Behavior highlights:
//   - Zero columns stay zero (stable policy; mirrors row normalization in the kernels).
//
// Errors:
//   - ErrNilMatrix, ErrEmpty.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for output (+ O(c) norms).
func NormalizeColumnsL1(X mat.Matrix) (*mat.Dense, []float64, error) {
	if err := ValidateNonEmpty(X); err != nil {
		return nil, nil, matrixErrorf(opNormalizeColumnsL1, err)
	}
	r, c := X.Dims()
	Y := mat.DenseCopyOf(X)
	norms := make([]float64, c)

	var i, j int
	for j = 0; j < c; j++ {
		for i = 0; i < r; i++ {
			norms[j] += math.Abs(Y.At(i, j))
		}
	}
	for j = 0; j < c; j++ {
		if norms[j] == 0 {
			continue // degenerate column stays as-is
		}
		inv := 1.0 / norms[j]
		for i = 0; i < r; i++ {
			Y.Set(i, j, Y.At(i, j)*inv)
		}
	}

	return Y, norms, nil
}

// ColumnArgMax returns, for every column j, the row index of its maximum.
// Ties resolve to the lowest row index (floats.MaxIdx returns the first maximum).
//
// Errors:
//   - ErrNilMatrix, ErrEmpty.
//
// Complexity:
//   - Time O(r*c), Space O(r + c).
func ColumnArgMax(X mat.Matrix) ([]int, error) {
	if err := ValidateNonEmpty(X); err != nil {
		return nil, matrixErrorf(opColumnArgMax, err)
	}
	r, c := X.Dims()
	out := make([]int, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		out[j] = floats.MaxIdx(col)
	}

	return out, nil
}

// RowMeanVariance returns the population mean and variance of every row.
//
// Implementation:
//   - *Sparse: accumulate Σv and Σv² over stored entries; implicit zeros only
//     contribute to the denominator.
//   - otherwise: stat.PopMeanVariance on each materialized row.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty.
//
// Complexity:
//   - Time O(r*c) dense, O(nnz + r) sparse. Space O(r + c).
func RowMeanVariance(X mat.Matrix) (means, variances []float64, err error) {
	if err = ValidateNonEmpty(X); err != nil {
		return nil, nil, matrixErrorf(opRowMeanVariance, err)
	}
	r, c := X.Dims()
	means = make([]float64, r)
	variances = make([]float64, r)

	if s, ok := X.(*Sparse); ok {
		sq := make([]float64, r)
		s.DoNonZero(func(i, _ int, v float64) {
			means[i] += v
			sq[i] += v * v
		})
		n := float64(c)
		for i := 0; i < r; i++ {
			means[i] /= n
			variances[i] = math.Max(sq[i]/n-means[i]*means[i], 0)
		}
		return means, variances, nil
	}

	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		means[i], variances[i] = stat.PopMeanVariance(row, nil)
	}

	return means, variances, nil
}

// ColumnCorrelation returns the cols(A) × cols(B) matrix of Pearson
// correlations between columns of A and columns of B.
//
// Implementation:
//   - Stage 1: Validate both operands and matching row counts.
//   - Stage 2: materialize columns once; stat.Correlation for every pair.
//
// Behavior highlights:
//   - A constant column has undefined correlation; it is reported as 0 so it never
//     looks redundant with anything.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r * ca * cb), Space O(r*(ca+cb) + ca*cb).
func ColumnCorrelation(A, B mat.Matrix) (*mat.Dense, error) {
	return pairwiseColumns(opColumnCorrelation, A, B, func(x, y []float64) float64 {
		v := stat.Correlation(x, y, nil)
		if math.IsNaN(v) {
			return 0
		}
		return v
	})
}

// ColumnCosine returns the cols(A) × cols(B) matrix of cosine similarities
// between columns of A and columns of B. Zero columns score 0.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r * ca * cb), Space O(r*(ca+cb) + ca*cb).
func ColumnCosine(A, B mat.Matrix) (*mat.Dense, error) {
	return pairwiseColumns(opColumnCosine, A, B, func(x, y []float64) float64 {
		nx, ny := floats.Norm(x, 2), floats.Norm(y, 2)
		if nx == 0 || ny == 0 {
			return 0
		}
		return floats.Dot(x, y) / (nx * ny)
	})
}

// pairwiseColumns evaluates f over every (column of A, column of B) pair.
func pairwiseColumns(tag string, A, B mat.Matrix, f func(x, y []float64) float64) (*mat.Dense, error) {
	if err := ValidateNonEmpty(A); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	if err := ValidateNonEmpty(B); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	ar, ac := A.Dims()
	br, bc := B.Dims()
	if ar != br {
		return nil, matrixErrorf(tag, fmt.Errorf("rows %d vs %d: %w", ar, br, ErrDimensionMismatch))
	}

	colsA := columnsOf(A)
	colsB := colsA
	if A != B {
		colsB = columnsOf(B)
	}

	out := mat.NewDense(ac, bc, nil)
	for i := 0; i < ac; i++ {
		for j := 0; j < bc; j++ {
			out.Set(i, j, f(colsA[i], colsB[j]))
		}
	}

	return out, nil
}

// columnsOf materializes every column of m as its own slice.
func columnsOf(m mat.Matrix) [][]float64 {
	_, c := m.Dims()
	out := make([][]float64, c)
	for j := range out {
		out[j] = mat.Col(nil, j, m)
	}

	return out
}
