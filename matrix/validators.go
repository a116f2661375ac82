// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating nil/shape/finite/simplex checks here.
//  - Return sentinels wrapped with the validator tag so call sites can match via errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - ValidateFinite on *Sparse scans stored values only (implicit zeros are finite).
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → NonEmpty → ...).

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is the tolerance used by simplex checks across the module.
const DefaultEpsilon = 1e-9

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// A typed nil pointer stored in the interface is also rejected.
//
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil(m mat.Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	switch v := m.(type) {
	case *mat.Dense:
		if v == nil {
			return validatorErrorf("ValidateNotNil", ErrNilMatrix)
		}
	case *Sparse:
		if v == nil {
			return validatorErrorf("ValidateNotNil", ErrNilMatrix)
		}
	}

	return nil
}

// ValidateNonEmpty ensures m is non-nil and has at least one row and one column.
// Complexity: O(1).
func ValidateNonEmpty(m mat.Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	// *mat.Dense zero value reports (0,0) and is treated as empty.
	if d, ok := m.(*mat.Dense); ok && d.IsEmpty() {
		return validatorErrorf("ValidateNonEmpty", ErrEmpty)
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return validatorErrorf("ValidateNonEmpty", ErrEmpty)
	}

	return nil
}

// ValidateFinite ensures every element of m is finite.
//
// Implementation:
//   - Stage 1: NotNil check.
//   - Stage 2: *Sparse → scan stored values; *mat.Dense → scan the raw buffer
//     row by row (respecting Stride); otherwise generic At loop.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf (wrapped with coordinates of the first offender).
//
// Determinism:
//   - Fixed i→j scan order, so the reported coordinate is stable.
//
// Complexity:
//   - Time O(r*c) dense, O(nnz) sparse. Space O(1).
func ValidateFinite(m mat.Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}

	switch v := m.(type) {
	case *Sparse:
		var j, p int
		for j = 0; j < v.cols; j++ {
			for p = v.colPtr[j]; p < v.colPtr[j+1]; p++ {
				if isNonFinite(v.vals[p]) {
					return fmt.Errorf("ValidateFinite(%d,%d): %w", v.rowIdx[p], j, ErrNaNInf)
				}
			}
		}
		return nil
	case *mat.Dense:
		if v.IsEmpty() {
			return nil
		}
		raw := v.RawMatrix()
		var i, j, base int
		for i = 0; i < raw.Rows; i++ {
			base = i * raw.Stride
			for j = 0; j < raw.Cols; j++ {
				if isNonFinite(raw.Data[base+j]) {
					return fmt.Errorf("ValidateFinite(%d,%d): %w", i, j, ErrNaNInf)
				}
			}
		}
		return nil
	}

	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if isNonFinite(m.At(i, j)) {
				return fmt.Errorf("ValidateFinite(%d,%d): %w", i, j, ErrNaNInf)
			}
		}
	}

	return nil
}

// ValidateMulCompatible ensures a.Cols == b.Rows for the product a·b.
// Complexity: O(1).
func ValidateMulCompatible(a, b mat.Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	_, ac := a.Dims()
	br, _ := b.Dims()
	if ac != br {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSimplexColumns ensures every column of m is non-negative (down to
// −eps) and sums to 1 within eps.
//
// Implementation:
//   - Stage 1: NonEmpty check.
//   - Stage 2: column-major scan accumulating sums and checking signs.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty, ErrNotSimplex (wrapped with the column index).
//
// Complexity:
//   - Time O(r*c), Space O(1).
func ValidateSimplexColumns(m mat.Matrix, eps float64) error {
	if err := ValidateNonEmpty(m); err != nil {
		return err
	}
	r, c := m.Dims()
	var i, j int
	var s, v float64
	for j = 0; j < c; j++ {
		s = 0
		for i = 0; i < r; i++ {
			v = m.At(i, j)
			if v < -eps || isNonFinite(v) {
				return fmt.Errorf("ValidateSimplexColumns(col %d): negative entry %g at row %d: %w", j, v, i, ErrNotSimplex)
			}
			s += v
		}
		if math.Abs(s-1) > eps {
			return fmt.Errorf("ValidateSimplexColumns(col %d): sum %g: %w", j, s, ErrNotSimplex)
		}
	}

	return nil
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
