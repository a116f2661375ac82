// SPDX-License-Identifier: MIT

// Package matrix - compressed-sparse-column storage.
//
// Purpose:
//   - Hold a features × samples count matrix without materializing zeros.
//   - Satisfy gonum's mat.Matrix so every consumer can stay representation-agnostic;
//     hot paths (Mul, specificity scoring) type-switch on *Sparse to walk non-zeros.
//
// Layout:
//   - colPtr has cols+1 entries; the non-zeros of column j live in
//     rowIdx[colPtr[j]:colPtr[j+1]] / vals[colPtr[j]:colPtr[j+1]].
//   - Row indices inside one column are strictly increasing (binary-searchable).
//
// Complexity quicksheet:
//   - At: O(log nnz(col)); DoNonZero: O(nnz); SparseFromDense: O(r*c).

package matrix

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sparse is an immutable compressed-sparse-column matrix.
type Sparse struct {
	rows, cols int
	colPtr     []int     // len == cols+1, non-decreasing, colPtr[0] == 0
	rowIdx     []int     // len == nnz, strictly increasing within a column
	vals       []float64 // len == nnz
}

// Compile-time assertion: *Sparse is a gonum matrix.
var _ mat.Matrix = (*Sparse)(nil)

// NewSparse builds a CSC matrix from raw buffers. Buffers are copied.
//
// Implementation:
//   - Stage 1: validate shape (rows, cols > 0) and buffer lengths.
//   - Stage 2: validate colPtr monotonicity and per-column row ordering.
//   - Stage 3: copy buffers into a fresh Sparse.
//
// Errors:
//   - ErrEmpty for non-positive dimensions.
//   - ErrBadSparse for any layout violation (wrapped with the offending column).
//
// Complexity:
//   - Time O(cols + nnz), Space O(cols + nnz).
func NewSparse(rows, cols int, colPtr, rowIdx []int, vals []float64) (*Sparse, error) {
	if rows <= 0 || cols <= 0 {
		return nil, matrixErrorf(opNewSparse, ErrEmpty)
	}
	if len(colPtr) != cols+1 || len(rowIdx) != len(vals) || colPtr[0] != 0 || colPtr[cols] != len(vals) {
		return nil, matrixErrorf(opNewSparse, ErrBadSparse)
	}

	var j, p int
	for j = 0; j < cols; j++ {
		if colPtr[j+1] < colPtr[j] {
			return nil, matrixErrorf(opNewSparse, fmt.Errorf("col %d: %w", j, ErrBadSparse))
		}
		for p = colPtr[j]; p < colPtr[j+1]; p++ {
			if rowIdx[p] < 0 || rowIdx[p] >= rows {
				return nil, matrixErrorf(opNewSparse, fmt.Errorf("col %d: row %d: %w", j, rowIdx[p], ErrBadSparse))
			}
			if p > colPtr[j] && rowIdx[p] <= rowIdx[p-1] {
				return nil, matrixErrorf(opNewSparse, fmt.Errorf("col %d: unsorted rows: %w", j, ErrBadSparse))
			}
		}
	}

	s := &Sparse{
		rows:   rows,
		cols:   cols,
		colPtr: append([]int(nil), colPtr...),
		rowIdx: append([]int(nil), rowIdx...),
		vals:   append([]float64(nil), vals...),
	}

	return s, nil
}

// SparseFromDense compresses m, dropping entries with |v| <= tol.
// Complexity: O(r*c).
func SparseFromDense(m mat.Matrix, tol float64) (*Sparse, error) {
	if err := ValidateNonEmpty(m); err != nil {
		return nil, matrixErrorf(opNewSparse, err)
	}
	r, c := m.Dims()
	colPtr := make([]int, c+1)
	rowIdx := make([]int, 0, r)
	vals := make([]float64, 0, r)

	var i, j int
	var v float64
	for j = 0; j < c; j++ {
		for i = 0; i < r; i++ {
			v = m.At(i, j)
			if v > tol || v < -tol || v != v { // NaN stays visible to ValidateFinite
				rowIdx = append(rowIdx, i)
				vals = append(vals, v)
			}
		}
		colPtr[j+1] = len(vals)
	}

	return &Sparse{rows: r, cols: c, colPtr: colPtr, rowIdx: rowIdx, vals: vals}, nil
}

// Dims returns the matrix shape.
func (s *Sparse) Dims() (r, c int) { return s.rows, s.cols }

// At returns the element at (i, j); implicit entries are zero.
// Panics with mat.ErrRowAccess / mat.ErrColAccess on bad indices, like gonum.
func (s *Sparse) At(i, j int) float64 {
	if i < 0 || i >= s.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= s.cols {
		panic(mat.ErrColAccess)
	}
	lo, hi := s.colPtr[j], s.colPtr[j+1]
	k := sort.SearchInts(s.rowIdx[lo:hi], i)
	if k < hi-lo && s.rowIdx[lo+k] == i {
		return s.vals[lo+k]
	}

	return 0
}

// T returns the implicit transpose.
func (s *Sparse) T() mat.Matrix { return mat.Transpose{Matrix: s} }

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return len(s.vals) }

// DoNonZero calls fn for every stored entry in column-major order.
func (s *Sparse) DoNonZero(fn func(i, j int, v float64)) {
	var j, p int
	for j = 0; j < s.cols; j++ {
		for p = s.colPtr[j]; p < s.colPtr[j+1]; p++ {
			fn(s.rowIdx[p], j, s.vals[p])
		}
	}
}

// DoColNonZero calls fn for every stored entry of column j, rows ascending.
func (s *Sparse) DoColNonZero(j int, fn func(i int, v float64)) {
	if j < 0 || j >= s.cols {
		panic(mat.ErrColAccess)
	}
	for p := s.colPtr[j]; p < s.colPtr[j+1]; p++ {
		fn(s.rowIdx[p], s.vals[p])
	}
}
