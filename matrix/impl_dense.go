// SPDX-License-Identifier: MIT

// Package matrix - shape plumbing over gonum dense storage.
//
// Purpose:
//   - Materialize any mat.Matrix (dense or *Sparse) as an independent *mat.Dense.
//   - Copy-based submatrix extraction by explicit index sets (SelectColumns/SelectRows).
//   - Block concatenation along either axis (HStack/VStack) with strict shape checks.
//
// Determinism:
//   - Fixed loop orders; index sets are honoured in the order given (duplicates allowed).
//
// Complexity quicksheet:
//   - Densify: O(r*c); Select*: O(r'*c'); HStack/VStack: O(total elements).

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opDensify       = "Densify"
	opSelectColumns = "SelectColumns"
	opSelectRows    = "SelectRows"
	opHStack        = "HStack"
	opVStack        = "VStack"
	opNewSparse     = "NewSparse"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Densify returns an independent dense copy of m.
//
// Implementation:
//   - Stage 1: validate non-empty.
//   - Stage 2: *mat.Dense → DenseCopyOf; *Sparse → scatter stored entries into zeros;
//     otherwise generic copy through mat.DenseCopyOf.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Densify(m mat.Matrix) (*mat.Dense, error) {
	if err := ValidateNonEmpty(m); err != nil {
		return nil, matrixErrorf(opDensify, err)
	}
	if s, ok := m.(*Sparse); ok {
		out := mat.NewDense(s.rows, s.cols, nil)
		raw := out.RawMatrix()
		s.DoNonZero(func(i, j int, v float64) {
			raw.Data[i*raw.Stride+j] = v
		})
		return out, nil
	}

	return mat.DenseCopyOf(m), nil
}

// SelectColumns copies the columns of m listed in idx, in that order.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty (idx empty), ErrOutOfRange (bad index).
//
// Complexity:
//   - Time O(r*len(idx)), Space O(r*len(idx)).
func SelectColumns(m mat.Matrix, idx []int) (*mat.Dense, error) {
	if err := ValidateNonEmpty(m); err != nil {
		return nil, matrixErrorf(opSelectColumns, err)
	}
	if len(idx) == 0 {
		return nil, matrixErrorf(opSelectColumns, ErrEmpty)
	}
	r, c := m.Dims()
	out := mat.NewDense(r, len(idx), nil)
	var i, jj, j int
	for jj, j = range idx {
		if j < 0 || j >= c {
			return nil, matrixErrorf(opSelectColumns, fmt.Errorf("col index %d: %w", j, ErrOutOfRange))
		}
		for i = 0; i < r; i++ {
			out.Set(i, jj, m.At(i, j))
		}
	}

	return out, nil
}

// SelectRows copies the rows of m listed in idx, in that order.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty (idx empty), ErrOutOfRange (bad index).
//
// Complexity:
//   - Time O(len(idx)*c), Space O(len(idx)*c).
func SelectRows(m mat.Matrix, idx []int) (*mat.Dense, error) {
	if err := ValidateNonEmpty(m); err != nil {
		return nil, matrixErrorf(opSelectRows, err)
	}
	if len(idx) == 0 {
		return nil, matrixErrorf(opSelectRows, ErrEmpty)
	}
	r, c := m.Dims()
	out := mat.NewDense(len(idx), c, nil)
	var ii, i, j int
	for ii, i = range idx {
		if i < 0 || i >= r {
			return nil, matrixErrorf(opSelectRows, fmt.Errorf("row index %d: %w", i, ErrOutOfRange))
		}
		for j = 0; j < c; j++ {
			out.Set(ii, j, m.At(i, j))
		}
	}

	return out, nil
}

// HStack concatenates matrices left to right: [m0 | m1 | ...].
// All blocks must share the row count.
//
// Errors:
//   - ErrEmpty (no blocks), ErrNilMatrix, ErrDimensionMismatch (row count differs).
//
// Complexity:
//   - Time O(r * Σc), Space O(r * Σc).
func HStack(ms ...mat.Matrix) (*mat.Dense, error) {
	if len(ms) == 0 {
		return nil, matrixErrorf(opHStack, ErrEmpty)
	}
	var rows, total int
	for b, m := range ms {
		if err := ValidateNonEmpty(m); err != nil {
			return nil, matrixErrorf(opHStack, fmt.Errorf("block %d: %w", b, err))
		}
		r, c := m.Dims()
		if b == 0 {
			rows = r
		} else if r != rows {
			return nil, matrixErrorf(opHStack, fmt.Errorf("block %d has %d rows, want %d: %w", b, r, rows, ErrDimensionMismatch))
		}
		total += c
	}

	out := mat.NewDense(rows, total, nil)
	off := 0
	for _, m := range ms {
		_, c := m.Dims()
		out.Slice(0, rows, off, off+c).(*mat.Dense).Copy(m)
		off += c
	}

	return out, nil
}

// VStack concatenates matrices top to bottom. All blocks must share the column count.
//
// Errors:
//   - ErrEmpty (no blocks), ErrNilMatrix, ErrDimensionMismatch (column count differs).
//
// Complexity:
//   - Time O(Σr * c), Space O(Σr * c).
func VStack(ms ...mat.Matrix) (*mat.Dense, error) {
	if len(ms) == 0 {
		return nil, matrixErrorf(opVStack, ErrEmpty)
	}
	var cols, total int
	for b, m := range ms {
		if err := ValidateNonEmpty(m); err != nil {
			return nil, matrixErrorf(opVStack, fmt.Errorf("block %d: %w", b, err))
		}
		r, c := m.Dims()
		if b == 0 {
			cols = c
		} else if c != cols {
			return nil, matrixErrorf(opVStack, fmt.Errorf("block %d has %d cols, want %d: %w", b, c, cols, ErrDimensionMismatch))
		}
		total += r
	}

	out := mat.NewDense(total, cols, nil)
	off := 0
	for _, m := range ms {
		r, _ := m.Dims()
		out.Slice(off, off+r, 0, cols).(*mat.Dense).Copy(m)
		off += r
	}

	return out, nil
}
