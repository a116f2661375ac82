// SPDX-License-Identifier: MIT

package solver_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
	"github.com/katalvlaran/actionet/solver"
)

func TestProjectSimplex_KnownPoints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want []float64
	}{
		{[]float64{0.5, 0.5}, []float64{0.5, 0.5}},
		{[]float64{2, 0}, []float64{1, 0}},
		{[]float64{-1, -1}, []float64{0.5, 0.5}},
		{[]float64{0.2, 0.2, 5}, []float64{0, 0, 1}},
		{[]float64{1}, []float64{1}},
	}
	for _, tc := range cases {
		v := append([]float64(nil), tc.in...)
		solver.ProjectSimplex(v)
		for i := range v {
			assert.InDelta(t, tc.want[i], v[i], 1e-12, "in=%v", tc.in)
		}
	}

	solver.ProjectSimplex(nil) // no panic
}

func TestProjectSimplex_RandomLandsInSimplex(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 50; trial++ {
		v := make([]float64, 1+rng.Intn(9))
		for i := range v {
			v[i] = rng.NormFloat64() * 3
		}
		solver.ProjectSimplex(v)
		assert.InDelta(t, 1.0, floats.Sum(v), 1e-12)
		assert.GreaterOrEqual(t, floats.Min(v), 0.0)
	}
}

func TestSimplexRegression_IdentityDesignIsExact(t *testing.T) {
	t.Parallel()

	A := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	B := mat.NewDense(3, 2, []float64{
		0.2, 1,
		0.3, 0,
		0.5, 0,
	})
	X, err := solver.SimplexRegression(A, B)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, B, 1e-12))
}

func TestSimplexRegression_RecoversCoefficients(t *testing.T) {
	t.Parallel()

	A := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		1, 1, 1,
	})
	want := mat.NewDense(3, 3, []float64{
		0.6, 0.1, 0,
		0.3, 0.1, 0,
		0.1, 0.8, 1,
	})
	B := mat.NewDense(4, 3, nil)
	B.Mul(A, want)

	X, err := solver.SimplexRegression(A, B)
	require.NoError(t, err)
	requireSimplex(t, X)
	assert.True(t, mat.EqualApprox(X, want, 1e-6))
}

func TestSimplexRegression_OutsideHullProjects(t *testing.T) {
	t.Parallel()

	// a point beyond vertex 0 still gets a simplex answer at vertex 0
	A := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	B := mat.NewDense(2, 1, []float64{3, -1})
	X, err := solver.SimplexRegression(A, B)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, X.At(0, 0), 1e-9)
	assert.InDelta(t, 0.0, X.At(1, 0), 1e-9)
}

func TestRegressor_SolveBlocksIndependentOfThreads(t *testing.T) {
	t.Parallel()

	S := mixture(6, 3, 40, 1)
	W, err := matrix.SelectColumns(S, []int{0, 1, 2})
	require.NoError(t, err)
	reg, err := solver.NewRegressor(W)
	require.NoError(t, err)

	one, err := reg.SolveBlocks(context.Background(), S, 1)
	require.NoError(t, err)
	four, err := reg.SolveBlocks(context.Background(), S, 4)
	require.NoError(t, err)
	many, err := reg.SolveBlocks(context.Background(), S, 100)
	require.NoError(t, err)

	assert.True(t, mat.Equal(one, four))
	assert.True(t, mat.Equal(one, many))
	requireSimplex(t, one)

	sparse, err := matrix.SparseFromDense(S, 0)
	require.NoError(t, err)
	fromSparse, err := reg.SolveBlocks(context.Background(), sparse, 2)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(one, fromSparse, 1e-9))
}

func TestRegressor_Errors(t *testing.T) {
	t.Parallel()

	_, err := solver.SimplexRegression(mat.NewDense(2, 2, nil), mat.NewDense(3, 1, nil))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = solver.SimplexRegression(mat.NewDense(2, 2, nil), mat.NewDense(2, 1, nil), solver.WithRegressionIter(0))
	assert.ErrorIs(t, err, solver.ErrOptionViolation)

	_, err = solver.NewRegressor(mat.NewDense(1, 1, []float64{math.NaN()}))
	assert.ErrorIs(t, err, matrix.ErrNaNInf)

	reg, err := solver.NewRegressor(mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reg.SolveBlocks(ctx, mat.NewDense(2, 3, nil), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

// A wide design (fewer rows than columns) takes the factored gradient; zero
// padding forces the Gram path without changing the answer.
func TestRegressor_WideDesignMatchesGramPath(t *testing.T) {
	t.Parallel()

	wide := mat.NewDense(2, 3, []float64{
		0, 1, 0,
		0, 0, 1,
	})
	tall := mat.NewDense(4, 3, []float64{
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
		0, 0, 0,
	})
	b := mat.NewDense(2, 1, []float64{0.3, 0.2})
	bTall := mat.NewDense(4, 1, []float64{0.3, 0.2, 0, 0})

	X, err := solver.SimplexRegression(wide, b)
	require.NoError(t, err)
	Y, err := solver.SimplexRegression(tall, bTall)
	require.NoError(t, err)

	want := mat.NewDense(3, 1, []float64{0.5, 0.3, 0.2})
	assert.True(t, mat.EqualApprox(want, X, 1e-6), "factored: %v", mat.Formatted(X))
	assert.True(t, mat.EqualApprox(want, Y, 1e-6), "gram: %v", mat.Formatted(Y))
}

func TestRegressor_SolveFrom(t *testing.T) {
	t.Parallel()

	S := mixture(6, 3, 20, 2)
	W, err := matrix.SelectColumns(S, []int{0, 1, 2})
	require.NoError(t, err)
	reg, err := solver.NewRegressor(W)
	require.NoError(t, err)
	ctx := context.Background()

	cold, err := reg.SolveBlocks(ctx, S, 2)
	require.NoError(t, err)
	fromNil, err := reg.SolveFrom(ctx, S, nil, 2)
	require.NoError(t, err)
	assert.True(t, mat.Equal(cold, fromNil))

	// starting at the answer stays there
	warm, err := reg.SolveFrom(ctx, S, cold, 3)
	require.NoError(t, err)
	requireSimplex(t, warm)
	assert.True(t, mat.EqualApprox(cold, warm, 1e-6))

	// infeasible starts are projected first
	off := mat.NewDense(3, 20, nil)
	off.Apply(func(i, j int, v float64) float64 { return float64(i) - 4 }, off)
	projected, err := reg.SolveFrom(ctx, S, off, 1)
	require.NoError(t, err)
	requireSimplex(t, projected)
	assert.True(t, mat.EqualApprox(cold, projected, 1e-6))

	_, err = reg.SolveFrom(ctx, S, mat.NewDense(3, 19, nil), 1)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	bad := mat.DenseCopyOf(cold)
	bad.Set(0, 0, math.Inf(1))
	_, err = reg.SolveFrom(ctx, S, bad, 1)
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}
