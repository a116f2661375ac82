// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

func TestMul_SparseMatchesDense(t *testing.T) {
	t.Parallel()

	a := randomDense(9, 6, 7, 0.3)
	b := randomDense(6, 4, 8, 1)

	want := mat.NewDense(9, 4, nil)
	want.Mul(a, b)

	gotDense, err := matrix.Mul(a, b)
	require.NoError(t, err)
	gotSparse, err := matrix.Mul(MustSparse(t, a), b)
	require.NoError(t, err)
	gotHidden, err := matrix.Mul(hide{a}, b)
	require.NoError(t, err)

	CompareClose(t, gotDense, want, epsTight, epsTight)
	CompareClose(t, gotSparse, want, 1e-12, 1e-12)
	CompareClose(t, gotHidden, want, epsTight, epsTight)
}

func TestMul_Errors(t *testing.T) {
	t.Parallel()

	_, err := matrix.Mul(mat.NewDense(2, 3, nil), mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(nil, mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestResidual(t *testing.T) {
	t.Parallel()

	W := NewFilledDense(t, 2, 1, []float64{1, 2})
	H := NewFilledDense(t, 1, 2, []float64{1, 1})
	S := NewFilledDense(t, 2, 2, []float64{1, 1, 2, 5})

	got, err := matrix.Residual(S, W, H)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, epsTight)

	exact, err := matrix.Residual(NewFilledDense(t, 2, 2, []float64{1, 1, 2, 2}), W, H)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, exact, epsTight)

	_, err = matrix.Residual(mat.NewDense(3, 2, nil), W, H)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	assert.False(t, math.IsNaN(got))
}

func TestMulT_AllPathsAgree(t *testing.T) {
	t.Parallel()

	a := randomDense(8, 3, 21, 0.5)
	b := randomDense(8, 5, 22, 0.4)

	want := mat.NewDense(3, 5, nil)
	want.Mul(a.T(), b)

	for name, pair := range map[string][2]mat.Matrix{
		"dense":        {a, b},
		"sparse-left":  {MustSparse(t, a), b},
		"sparse-right": {a, MustSparse(t, b)},
		"hidden":       {hide{a}, hide{b}},
	} {
		got, err := matrix.MulT(pair[0], pair[1])
		require.NoError(t, err, name)
		CompareClose(t, got, want, 1e-12, 1e-12)
	}

	_, err := matrix.MulT(a, mat.NewDense(7, 1, nil))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
