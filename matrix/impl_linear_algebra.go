// SPDX-License-Identifier: MIT
// Package matrix provides the products the decomposition pipeline needs on top
// of gonum: representation-aware Mul and MulT (with *Sparse fast paths) and the
// Frobenius reconstruction residual ‖S − W·H‖_F.
//
// Notes:
//   - All kernels validate shapes before touching gonum, since gonum panics on mismatch.
//   - Results are freshly allocated; operands are never mutated.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Operation name constants for unified error wrapping.
const (
	opMul      = "Mul"
	opMulT     = "MulT"
	opResidual = "Residual"
)

// Mul returns the product a·b as a new *mat.Dense.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b) and non-empty operands.
//   - Stage 2: if a is *Sparse, accumulate out[i,:] += v·b[j,:] per stored (i,j,v);
//     otherwise delegate to (*mat.Dense).Mul.
//
// Behavior highlights:
//   - The sparse path touches only stored entries of a: O(nnz(a) * cols(b)).
//   - Deterministic: the sparse path walks columns of a in ascending order.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty, ErrDimensionMismatch.
//
// Complexity:
//   - Dense: O(r*n*c). Sparse left operand: O(nnz*c). Space O(r*c).
//
// AI-Hints:
//   - Keep S as *Sparse when it is mostly zeros; W = S·C then costs O(nnz·k).
func Mul(a, b mat.Matrix) (*mat.Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err := ValidateNonEmpty(a); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err := ValidateNonEmpty(b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	ar, _ := a.Dims()
	_, bc := b.Dims()

	if s, ok := a.(*Sparse); ok {
		bd := mat.DenseCopyOf(b)
		out := mat.NewDense(ar, bc, nil)
		rawOut := out.RawMatrix()
		rawB := bd.RawMatrix()
		var c int
		s.DoNonZero(func(i, j int, v float64) {
			dst := rawOut.Data[i*rawOut.Stride : i*rawOut.Stride+bc]
			src := rawB.Data[j*rawB.Stride : j*rawB.Stride+bc]
			for c = range dst {
				dst[c] += v * src[c]
			}
		})
		return out, nil
	}

	out := mat.NewDense(ar, bc, nil)
	out.Mul(a, b)

	return out, nil
}

// MulT returns the product aᵀ·b as a new *mat.Dense without materializing aᵀ.
//
// Implementation:
//   - Stage 1: rows(a) must equal rows(b).
//   - Stage 2: a is *Sparse → out[j,:] += v·b[i,:] per stored a(i,j,v);
//     b is *Sparse → out[:,j] += v·a[i,:] per stored b(i,j,v);
//     otherwise (*mat.Dense).Mul(a.T(), b).
//
// Errors:
//   - ErrNilMatrix, ErrEmpty, ErrDimensionMismatch.
//
// Complexity:
//   - Dense: O(ca*r*cb). Sparse operand: O(nnz * other cols). Space O(ca*cb).
func MulT(a, b mat.Matrix) (*mat.Dense, error) {
	if err := ValidateNonEmpty(a); err != nil {
		return nil, matrixErrorf(opMulT, err)
	}
	if err := ValidateNonEmpty(b); err != nil {
		return nil, matrixErrorf(opMulT, err)
	}
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br {
		return nil, matrixErrorf(opMulT, fmt.Errorf("rows %d vs %d: %w", ar, br, ErrDimensionMismatch))
	}

	out := mat.NewDense(ac, bc, nil)
	rawOut := out.RawMatrix()
	var c int

	if s, ok := a.(*Sparse); ok {
		bd := mat.DenseCopyOf(b)
		rawB := bd.RawMatrix()
		s.DoNonZero(func(i, j int, v float64) {
			dst := rawOut.Data[j*rawOut.Stride : j*rawOut.Stride+bc]
			src := rawB.Data[i*rawB.Stride : i*rawB.Stride+bc]
			for c = range dst {
				dst[c] += v * src[c]
			}
		})
		return out, nil
	}
	if s, ok := b.(*Sparse); ok {
		ad := mat.DenseCopyOf(a)
		rawA := ad.RawMatrix()
		s.DoNonZero(func(i, j int, v float64) {
			src := rawA.Data[i*rawA.Stride : i*rawA.Stride+ac]
			for c = range src {
				rawOut.Data[c*rawOut.Stride+j] += v * src[c]
			}
		})
		return out, nil
	}

	out.Mul(a.T(), b)

	return out, nil
}

// Residual returns ‖S − W·H‖_F.
//
// Implementation:
//   - Stage 1: P = W·H (dense), shape-checked against S.
//   - Stage 2: accumulate squared differences in i→j order.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(d*k*n), Space O(d*n).
func Residual(S, W, H mat.Matrix) (float64, error) {
	P, err := Mul(W, H)
	if err != nil {
		return 0, matrixErrorf(opResidual, err)
	}
	sr, sc := S.Dims()
	pr, pc := P.Dims()
	if sr != pr || sc != pc {
		return 0, matrixErrorf(opResidual, ErrDimensionMismatch)
	}

	var i, j int
	var d, acc float64
	for i = 0; i < sr; i++ {
		for j = 0; j < sc; j++ {
			d = S.At(i, j) - P.At(i, j)
			acc += d * d
		}
	}

	return math.Sqrt(acc), nil
}
