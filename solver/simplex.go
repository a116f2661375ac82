// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

const (
	opRegressor  = "NewRegressor"
	opSolve      = "Regressor.Solve"
	opRegression = "SimplexRegression"
)

// ProjectSimplex replaces v in place with its Euclidean projection onto
// {x : x ≥ 0, Σx = 1} (sort-based method of Duchi et al.). Empty v is a no-op.
// Complexity: O(n log n).
func ProjectSimplex(v []float64) {
	n := len(v)
	if n == 0 {
		return
	}
	u := append(make([]float64, 0, n), v...)
	sort.Sort(sort.Reverse(sort.Float64Slice(u)))

	var css, theta float64
	for j := 0; j < n; j++ {
		css += u[j]
		t := (css - 1) / float64(j+1)
		if u[j]-t > 0 {
			theta = t
		}
	}
	for i := range v {
		v[i] = math.Max(v[i]-theta, 0)
	}
}

// Regressor solves simplex-constrained least squares against a fixed design
// matrix A (d × k): for every column b of B it finds
//
//	argmin_x ½‖A·x − b‖²  subject to  x ≥ 0, Σx = 1.
//
// The curvature of the problem and the Lipschitz constant L = λ_max(AᵀA) are
// computed once, so one Regressor serves many right-hand sides and many
// goroutines. When A has fewer rows than columns the gradient is applied as
// Aᵀ(A·y) and the k × k Gram matrix is never formed.
type Regressor struct {
	a         mat.Matrix
	gram      *mat.Dense // k × k, nil when factored
	factor    *mat.Dense // dense A, set when factored
	lipschitz float64
	d, k      int
	opts      Options
}

// NewRegressor prepares a Regressor for design matrix A.
//
// Implementation:
//   - Stage 1: options, non-empty and finite A.
//   - Stage 2: d ≥ k: Gram = AᵀA (matrix.MulT; sparse-aware), L = λ_max(Gram).
//     d < k: keep dense A, L = λ_max(A·Aᵀ), which is the same value.
//   - Stage 3: eigenvalues via mat.EigenSym.
//
// Errors:
//   - ErrOptionViolation, matrix.ErrNilMatrix, matrix.ErrEmpty, matrix.ErrNaNInf.
//
// Complexity:
//   - Time O(d·m² + m³) with m = min(d, k), Space O(m² + d·k).
func NewRegressor(A mat.Matrix, opts ...Option) (*Regressor, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if err = matrix.ValidateNonEmpty(A); err != nil {
		return nil, solverErrorf(opRegressor, err)
	}
	if err = matrix.ValidateFinite(A); err != nil {
		return nil, solverErrorf(opRegressor, err)
	}
	d, k := A.Dims()
	r := &Regressor{a: A, d: d, k: k, opts: o}

	if d < k {
		if r.factor, err = matrix.Densify(A); err != nil {
			return nil, solverErrorf(opRegressor, err)
		}
		outer := mat.NewDense(d, d, nil)
		outer.Mul(r.factor, r.factor.T())
		r.lipschitz = maxEigen(outer)

		return r, nil
	}

	if r.gram, err = matrix.MulT(A, A); err != nil {
		return nil, solverErrorf(opRegressor, err)
	}
	r.lipschitz = maxEigen(r.gram)

	return r, nil
}

// Solve regresses every column of B (d × n) and returns X (k × n).
// Equivalent to SolveBlocks(context.Background(), B, 1).
func (r *Regressor) Solve(B mat.Matrix) (*mat.Dense, error) {
	return r.SolveBlocks(context.Background(), B, 1)
}

// SolveBlocks regresses every column of B, splitting the columns into
// contiguous blocks solved on at most threads goroutines. Each goroutine
// writes only its own block of X, so the result does not depend on threads.
// Every column starts from the simplex barycenter.
//
// Errors:
//   - matrix.ErrDimensionMismatch if rows(B) != rows(A).
//   - matrix.ErrNaNInf for non-finite B.
//   - ctx errors when cancelled between columns.
func (r *Regressor) SolveBlocks(ctx context.Context, B mat.Matrix, threads int) (*mat.Dense, error) {
	return r.solveBlocks(ctx, B, nil, threads)
}

// SolveFrom is SolveBlocks with column j of X0 (k × cols(B)) as the starting
// point of column j. Starting points are projected onto the simplex first; a
// nil X0 starts every column from the barycenter.
//
// Errors:
//   - as SolveBlocks, plus matrix.ErrDimensionMismatch or matrix.ErrNaNInf for X0.
func (r *Regressor) SolveFrom(ctx context.Context, B, X0 mat.Matrix, threads int) (*mat.Dense, error) {
	if X0 != nil {
		if err := matrix.ValidateFinite(X0); err != nil {
			return nil, solverErrorf(opSolve, err)
		}
	}

	return r.solveBlocks(ctx, B, X0, threads)
}

func (r *Regressor) solveBlocks(ctx context.Context, B, X0 mat.Matrix, threads int) (*mat.Dense, error) {
	if err := matrix.ValidateNonEmpty(B); err != nil {
		return nil, solverErrorf(opSolve, err)
	}
	if err := matrix.ValidateFinite(B); err != nil {
		return nil, solverErrorf(opSolve, err)
	}
	br, n := B.Dims()
	if r.d != br {
		return nil, solverErrorf(opSolve, fmt.Errorf("rows %d vs %d: %w", br, r.d, matrix.ErrDimensionMismatch))
	}
	if X0 != nil {
		if xr, xc := X0.Dims(); xr != r.k || xc != n {
			return nil, solverErrorf(opSolve, fmt.Errorf("start %dx%d, want %dx%d: %w", xr, xc, r.k, n, matrix.ErrDimensionMismatch))
		}
	}

	atb, err := matrix.MulT(r.a, B) // k × n
	if err != nil {
		return nil, solverErrorf(opSolve, err)
	}
	X := mat.NewDense(r.k, n, nil)

	if threads < 1 {
		threads = 1
	}
	if threads > n {
		threads = n
	}
	block := (n + threads - 1) / threads

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for lo := 0; lo < n; lo += block {
		lo, hi := lo, min(lo+block, n)
		g.Go(func() error {
			ws := newWorkspace(r.d, r.k)
			for j := lo; j < hi; j++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				mat.Col(ws.c, j, atb)
				if X0 != nil {
					mat.Col(ws.x, j, X0)
					ProjectSimplex(ws.x)
				} else {
					barycenter(ws.x)
				}
				r.solveColumn(ws)
				X.SetCol(j, ws.x)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, solverErrorf(opSolve, err)
	}

	return X, nil
}

// SimplexRegression solves min ‖A·X − B‖_F with every column of X in the
// simplex and returns X (cols(A) × cols(B)).
//
// Implementation:
//   - Stage 1: NewRegressor(A, opts...).
//   - Stage 2: Solve(B), column by column.
//
// Errors:
//   - ErrOptionViolation, matrix.ErrNilMatrix, matrix.ErrEmpty,
//     matrix.ErrNaNInf, matrix.ErrDimensionMismatch.
func SimplexRegression(A, B mat.Matrix, opts ...Option) (*mat.Dense, error) {
	r, err := NewRegressor(A, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRegression, err)
	}

	return r.Solve(B)
}

// workspace holds per-goroutine buffers for one column solve.
type workspace struct {
	c, x, xPrev, y, g, ay []float64
	gv, yv, ayv           *mat.VecDense
}

func newWorkspace(d, k int) *workspace {
	ws := &workspace{
		c:     make([]float64, k),
		x:     make([]float64, k),
		xPrev: make([]float64, k),
		y:     make([]float64, k),
		g:     make([]float64, k),
		ay:    make([]float64, d),
	}
	ws.gv = mat.NewVecDense(k, ws.g)
	ws.yv = mat.NewVecDense(k, ws.y)
	ws.ayv = mat.NewVecDense(d, ws.ay)

	return ws
}

func barycenter(x []float64) {
	for i := range x {
		x[i] = 1 / float64(len(x))
	}
}

// gradient writes AᵀA·y − c into ws.g.
func (r *Regressor) gradient(ws *workspace) {
	if r.gram != nil {
		ws.gv.MulVec(r.gram, ws.yv)
	} else {
		ws.ayv.MulVec(r.factor, ws.yv)
		ws.gv.MulVec(r.factor.T(), ws.ayv)
	}
	floats.Sub(ws.g, ws.c)
}

// solveColumn runs FISTA with gradient restart on ½xᵀAᵀAx − cᵀx over the simplex.
// ws.c holds Aᵀb and ws.x a feasible start on entry; ws.x holds the solution on exit.
func (r *Regressor) solveColumn(ws *workspace) {
	if r.k == 1 || r.lipschitz <= 0 {
		return // single vertex, or A == 0 (every feasible x is optimal)
	}
	copy(ws.y, ws.x)
	step := 1 / r.lipschitz
	t := 1.0

	for it := 0; it < r.opts.RegressionIter; it++ {
		copy(ws.xPrev, ws.x)

		// x = P(y − (AᵀA·y − c)/L)
		r.gradient(ws)
		for i := range ws.x {
			ws.x[i] = ws.y[i] - step*ws.g[i]
		}
		ProjectSimplex(ws.x)

		// step size and restart test use the same difference vector
		var moved, restart, norm float64
		for i := range ws.x {
			d := ws.x[i] - ws.xPrev[i]
			moved += d * d
			restart += (ws.y[i] - ws.x[i]) * d
			norm += ws.x[i] * ws.x[i]
		}
		if math.Sqrt(moved) <= r.opts.RegressionTol*math.Max(1, math.Sqrt(norm)) {
			return
		}

		if restart > 0 {
			t = 1
			copy(ws.y, ws.x)
			continue
		}
		tNext := (1 + math.Sqrt(1+4*t*t)) / 2
		beta := (t - 1) / tNext
		for i := range ws.y {
			ws.y[i] = ws.x[i] + beta*(ws.x[i]-ws.xPrev[i])
		}
		t = tNext
	}
}

// maxEigen returns the largest eigenvalue of the symmetric PSD matrix g,
// falling back to the trace bound when the decomposition fails.
func maxEigen(g *mat.Dense) float64 {
	n, _ := g.Dims()
	sym := mat.NewSymDense(n, nil)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			sym.SetSym(i, j, (g.At(i, j)+g.At(j, i))/2)
		}
	}

	var es mat.EigenSym
	if es.Factorize(sym, false) {
		return floats.Max(es.Values(nil))
	}

	return mat.Trace(sym)
}
