// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

const opArchetypal = "Archetypal.Solve"

// Archetypal is the default Solver: SPA initialization followed by alternating
// simplex-constrained updates of H and of each archetype column of C.
// A zero Archetypal is not usable; build one with NewArchetypal.
type Archetypal struct {
	opts Options
}

// Compile-time assertion.
var _ Solver = (*Archetypal)(nil)

// NewArchetypal returns an Archetypal solver configured by opts.
// Invalid options are reported by Solve as ErrOptionViolation.
func NewArchetypal(opts ...Option) *Archetypal {
	o, _ := buildOptions(opts)

	return &Archetypal{opts: o}
}

// Options returns a copy of the resolved options.
func (a *Archetypal) Options() Options { return a.opts }

// Solve factors S (d × n) at rank k.
//
// Implementation:
//   - Stage 1: options, S non-empty/finite, 1 ≤ k ≤ n.
//   - Stage 2: C = indicator columns of SPA(S, k); W = S·C.
//   - Stage 3: repeat up to MaxIter:
//     H ← SimplexRegression(W, S), warm-started from the previous H;
//     for each archetype j with non-zero load b = H[j,:]:
//     target = W[:,j] + R·bᵀ/‖b‖², C[:,j] ← SimplexRegression(S, target)
//     warm-started from the current C[:,j];
//     rank-one update of R = S − W·H;
//     stop once ‖W − W_prev‖_F / ‖W_prev‖_F < MinDelta.
//   - Stage 4: repair C, W = S·C, final H against W, repair H;
//     Loss = ‖S − W·H‖_F.
//
// Behavior highlights:
//   - ctx is checked before every outer iteration and between regressed columns.
//   - The sample-space regressor never forms the n × n Gram matrix when d < n.
//   - Non-convergence returns Converged=false, never an error.
//
// Errors:
//   - ErrOptionViolation, ErrInvalidRank, matrix sentinels, ctx errors.
func (a *Archetypal) Solve(ctx context.Context, S mat.Matrix, k int) (*Result, error) {
	if a == nil {
		return nil, solverErrorf(opArchetypal, ErrOptionViolation)
	}
	if a.opts.err != nil {
		return nil, a.opts.err
	}
	if err := matrix.ValidateNonEmpty(S); err != nil {
		return nil, solverErrorf(opArchetypal, err)
	}
	if err := matrix.ValidateFinite(S); err != nil {
		return nil, solverErrorf(opArchetypal, err)
	}
	d, n := S.Dims()
	if k < 1 || k > n {
		return nil, solverErrorf(opArchetypal, fmt.Errorf("k=%d with %d samples: %w", k, n, ErrInvalidRank))
	}

	regOpts := []Option{WithRegressionIter(a.opts.RegressionIter), WithRegressionTol(a.opts.RegressionTol)}

	selected, _, err := SPA(S, k)
	if err != nil {
		return nil, err
	}
	C := mat.NewDense(n, k, nil)
	for j, s := range selected {
		C.Set(s, j, 1)
	}
	W, err := matrix.Mul(S, C)
	if err != nil {
		return nil, solverErrorf(opArchetypal, err)
	}

	// The sample-space regressor (A = S) is fixed for the whole run.
	sampleReg, err := NewRegressor(S, regOpts...)
	if err != nil {
		return nil, solverErrorf(opArchetypal, err)
	}
	Sd, err := matrix.Densify(S)
	if err != nil {
		return nil, solverErrorf(opArchetypal, err)
	}

	res := &Result{Delta: math.Inf(1)}
	Wprev := mat.NewDense(d, k, nil)
	R := mat.NewDense(d, n, nil)
	b := make([]float64, n)
	wj := make([]float64, d)
	target := mat.NewVecDense(d, nil)
	var H *mat.Dense

	for it := 0; it < a.opts.MaxIter; it++ {
		if err = ctx.Err(); err != nil {
			return nil, solverErrorf(opArchetypal, err)
		}
		Wprev.Copy(W)

		var loadReg *Regressor
		if loadReg, err = NewRegressor(W, regOpts...); err != nil {
			return nil, solverErrorf(opArchetypal, err)
		}
		// H is nil on the first pass, which starts from the barycenter.
		var start mat.Matrix
		if H != nil {
			start = H
		}
		if H, err = loadReg.SolveFrom(ctx, S, start, 1); err != nil {
			return nil, solverErrorf(opArchetypal, err)
		}
		R.Mul(W, H)
		R.Sub(Sd, R)

		for j := 0; j < k; j++ {
			mat.Row(b, j, H)
			bb := floats.Dot(b, b)
			if bb == 0 {
				continue
			}
			// target = W[:,j] + R·bᵀ/‖b‖²
			target.MulVec(R, mat.NewVecDense(n, b))
			target.ScaleVec(1/bb, target)
			mat.Col(wj, j, W)
			target.AddVec(target, mat.NewVecDense(d, wj))

			cj, err := sampleReg.SolveFrom(ctx, target, C.Slice(0, n, j, j+1), 1)
			if err != nil {
				return nil, solverErrorf(opArchetypal, err)
			}
			C.SetCol(j, mat.Col(nil, 0, cj))

			// R += (W_old[:,j] − W_new[:,j])·b
			newW := mat.NewVecDense(d, nil)
			newW.MulVec(Sd, cj.ColView(0))
			diff := mat.NewVecDense(d, nil)
			diff.SubVec(mat.NewVecDense(d, wj), newW)
			R.RankOne(R, 1, diff, mat.NewVecDense(n, b))
			W.SetCol(j, newW.RawVector().Data)
		}

		res.Iterations = it + 1
		res.Delta = relativeChange(W, Wprev)
		if res.Delta < a.opts.MinDelta {
			res.Converged = true
			break
		}
	}

	matrix.RepairSimplexColumns(C)
	if W, err = matrix.Mul(S, C); err != nil {
		return nil, solverErrorf(opArchetypal, err)
	}
	if H, err = SimplexRegression(W, S, regOpts...); err != nil {
		return nil, solverErrorf(opArchetypal, err)
	}
	matrix.RepairSimplexColumns(H)
	if res.Loss, err = matrix.Residual(S, W, H); err != nil {
		return nil, solverErrorf(opArchetypal, err)
	}
	res.C, res.H = C, H

	return res, nil
}

// relativeChange returns ‖cur − prev‖_F / ‖prev‖_F, or ‖cur‖_F when prev is 0.
func relativeChange(cur, prev *mat.Dense) float64 {
	var diff mat.Dense
	diff.Sub(cur, prev)
	num := mat.Norm(&diff, 2)
	den := mat.Norm(prev, 2)
	if den == 0 {
		return num
	}

	return num / den
}
