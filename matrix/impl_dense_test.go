// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

func TestDensify_Independent(t *testing.T) {
	t.Parallel()

	src := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	cp, err := matrix.Densify(src)
	require.NoError(t, err)
	cp.Set(0, 0, 99)
	assert.Equal(t, 1.0, src.At(0, 0), "source must not be aliased")

	_, err = matrix.Densify(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestSelectColumns_OrderAndBounds(t *testing.T) {
	t.Parallel()

	m := NewFilledDense(t, 2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	got, err := matrix.SelectColumns(m, []int{2, 0, 2})
	require.NoError(t, err)
	CompareClose(t, got, NewFilledDense(t, 2, 3, []float64{3, 1, 3, 6, 4, 6}), 0, 0)

	_, err = matrix.SelectColumns(m, []int{3})
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = matrix.SelectColumns(m, nil)
	assert.ErrorIs(t, err, matrix.ErrEmpty)
}

func TestSelectRows_SparseSource(t *testing.T) {
	t.Parallel()

	d := NewFilledDense(t, 3, 2, []float64{0, 1, 2, 0, 0, 3})
	got, err := matrix.SelectRows(MustSparse(t, d), []int{2, 1})
	require.NoError(t, err)
	CompareClose(t, got, NewFilledDense(t, 2, 2, []float64{0, 3, 2, 0}), 0, 0)

	_, err = matrix.SelectRows(d, []int{-1})
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestHStackVStack(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 2, 1, []float64{1, 2})
	b := NewFilledDense(t, 2, 2, []float64{3, 4, 5, 6})

	h, err := matrix.HStack(a, b)
	require.NoError(t, err)
	assert.True(t, mat.Equal(h, NewFilledDense(t, 2, 3, []float64{1, 3, 4, 2, 5, 6})))

	v, err := matrix.VStack(a.T(), b)
	require.NoError(t, err)
	r, c := v.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 2.0, v.At(0, 1))
	assert.Equal(t, 5.0, v.At(2, 0))

	_, err = matrix.HStack(a, mat.NewDense(3, 1, nil))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.VStack(a, b)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.HStack()
	assert.ErrorIs(t, err, matrix.ErrEmpty)
}
