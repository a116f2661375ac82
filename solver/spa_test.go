// SPDX-License-Identifier: MIT

package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/solver"
)

func TestSPA_PicksExtremeColumns(t *testing.T) {
	t.Parallel()

	// columns: mix(e1,e2), e1, e2, e3, mix(e2,e3)
	S := mat.NewDense(3, 5, []float64{
		0.5, 1, 0, 0, 0,
		0.5, 0, 1, 0, 0.4,
		0.0, 0, 0, 1, 0.6,
	})
	sel, norms, err := solver.SPA(S, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, sel)
	for _, v := range norms {
		assert.InDelta(t, 1.0, v, 1e-12)
	}
}

func TestSPA_RankDeficientStillDistinct(t *testing.T) {
	t.Parallel()

	S := mat.NewDense(2, 4, []float64{
		1, 2, 3, 4,
		1, 2, 3, 4,
	})
	sel, norms, err := solver.SPA(S, 3)
	require.NoError(t, err)
	require.Len(t, sel, 3)
	assert.Equal(t, 3, sel[0], "largest column first")
	seen := map[int]bool{}
	for _, s := range sel {
		assert.False(t, seen[s], "duplicate pick %d", s)
		seen[s] = true
	}
	assert.InDelta(t, 0.0, norms[2], 1e-9)
}

func TestSPA_InvalidRank(t *testing.T) {
	t.Parallel()

	S := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	_, _, err := solver.SPA(S, 0)
	assert.ErrorIs(t, err, solver.ErrInvalidRank)
	_, _, err = solver.SPA(S, 4)
	assert.ErrorIs(t, err, solver.ErrInvalidRank)
}
