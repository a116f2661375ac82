// SPDX-License-Identifier: MIT

package multires

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
	"github.com/katalvlaran/actionet/solver"
)

// Project writes new samples (features × m) as convex combinations of the
// unified archetype profiles W = S·C_unified and returns H_new (g × m) with its
// hard assignment. S must be the matrix the unified set was computed from.
//
// Errors:
//   - ErrInvalidInput for empty, non-finite or mismatched inputs.
//   - ErrInvalidParameter for bad options.
func Project(ctx context.Context, S, samples mat.Matrix, unified *Unified, opts ...Option) (*mat.Dense, Assignment, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, Assignment{}, multiresErrorf(opProject, err)
	}
	if err = validateData(S); err != nil {
		return nil, Assignment{}, multiresErrorf(opProject, err)
	}
	if err = validateData(samples); err != nil {
		return nil, Assignment{}, multiresErrorf(opProject, err)
	}
	if unified == nil || unified.C == nil {
		return nil, Assignment{}, multiresErrorf(opProject, fmt.Errorf("%w: nil unified set", ErrInvalidInput))
	}
	d, n := S.Dims()
	sd, _ := samples.Dims()
	if cr, _ := unified.C.Dims(); cr != n || sd != d {
		return nil, Assignment{}, multiresErrorf(opProject, fmt.Errorf("%w: S %dx%d, samples %d rows, C %d rows", ErrInvalidInput, d, n, sd, cr))
	}

	W, err := matrix.Mul(S, unified.C)
	if err != nil {
		return nil, Assignment{}, multiresErrorf(opProject, err)
	}
	reg, err := solver.NewRegressor(W)
	if err != nil {
		return nil, Assignment{}, multiresErrorf(opProject, err)
	}
	H, err := reg.SolveBlocks(ctx, samples, o.Threads)
	if err != nil {
		return nil, Assignment{}, multiresErrorf(opProject, err)
	}
	matrix.RepairSimplexColumns(H)
	a, err := assign(H)
	if err != nil {
		return nil, Assignment{}, multiresErrorf(opProject, err)
	}

	return H, a, nil
}
