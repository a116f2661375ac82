// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All helpers MUST return these sentinels and tests MUST check them
// via errors.Is. No helper should panic on user-triggered error conditions;
// the only panics left are the gonum mat.Matrix accessor contracts (At on an
// out-of-range index), which are programmer errors.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Call sites wrap with matrixErrorf(tag, err) so the
// sentinel stays reachable through errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> empty -> shape/index -> NaN/Inf -> structural violations (simplex).

var (
	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrEmpty indicates a matrix with zero rows or zero columns where at least
	// one element is required.
	ErrEmpty = errors.New("matrix: empty matrix")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., HStack of different row counts, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNotSimplex signals that a column expected to lie in the probability
	// simplex has a negative entry or does not sum to 1 within eps.
	ErrNotSimplex = errors.New("matrix: column is not in the probability simplex")

	// ErrBadSparse indicates malformed compressed-sparse-column buffers
	// (non-monotone column pointers, unsorted or out-of-range row indices).
	ErrBadSparse = errors.New("matrix: malformed sparse layout")
)
