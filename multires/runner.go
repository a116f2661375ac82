// SPDX-License-Identifier: MIT

package multires

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
	"github.com/katalvlaran/actionet/solver"
)

// validateData checks S once: non-nil, non-empty, finite.
func validateData(S mat.Matrix) error {
	if err := matrix.ValidateNonEmpty(S); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := matrix.ValidateFinite(S); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return nil
}

// RunRange solves every k in [kMin, kMax] and stacks the results in ascending k.
//
// Implementation:
//   - Stage 1: options, range and data validation (no goroutine has started yet).
//   - Stage 2: densify S once; it is shared read-only by all workers.
//   - Stage 3: errgroup limited to the thread budget; worker for k writes slot k−kMin.
//   - Stage 4: after Wait, stack C (HStack) and H (VStack) in slot order,
//     collect Warnings and call OnResolution in ascending k.
//
// Errors:
//   - ErrInvalidParameter, ErrInvalidRange, ErrInvalidInput, solver and ctx errors.
//
// Complexity:
//   - Σ_k cost(solver, k) spread over Threads workers; stacking O(n·Σk).
func RunRange(ctx context.Context, S mat.Matrix, kMin, kMax int, opts ...Option) (*Stack, []Warning, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, nil, multiresErrorf(opRunRange, err)
	}
	if err = checkRange(kMin, kMax); err != nil {
		return nil, nil, multiresErrorf(opRunRange, err)
	}
	if err = validateData(S); err != nil {
		return nil, nil, multiresErrorf(opRunRange, err)
	}
	if _, n := S.Dims(); kMax > n {
		return nil, nil, multiresErrorf(opRunRange, fmt.Errorf("%w: k_max %d exceeds %d samples", ErrInvalidRange, kMax, n))
	}

	return runRange(ctx, S, kMin, kMax, o)
}

// runRange is RunRange after validation.
func runRange(ctx context.Context, S mat.Matrix, kMin, kMax int, o Options) (*Stack, []Warning, error) {
	Sd, err := matrix.Densify(S)
	if err != nil {
		return nil, nil, multiresErrorf(opRunRange, err)
	}

	slots := make([]*solver.Result, kMax-kMin+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Threads)
	for i := range slots {
		i := i
		k := kMin + i
		g.Go(func() error {
			res, err := o.Solver.Solve(gctx, Sd, k)
			if err != nil {
				return fmt.Errorf("k=%d: %w", k, err)
			}
			slots[i] = res
			o.Logger.Debug("resolution solved",
				zap.Int("k", k),
				zap.Int("iterations", res.Iterations),
				zap.Bool("converged", res.Converged),
				zap.Float64("loss", res.Loss))
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, nil, multiresErrorf(opRunRange, err)
	}

	Cs := make([]mat.Matrix, len(slots))
	Hs := make([]mat.Matrix, len(slots))
	stack := &Stack{Resolutions: make([]Resolution, len(slots))}
	var warnings []Warning
	_, n := Sd.Dims()
	for i, res := range slots {
		k := kMin + i
		if err = checkShapes(res, n); err != nil {
			return nil, nil, multiresErrorf(opRunRange, fmt.Errorf("k=%d: %w", k, err))
		}
		Cs[i], Hs[i] = res.C, res.H
		_, kc := res.C.Dims()
		for j := 0; j < kc; j++ {
			stack.IDs = append(stack.IDs, ArchetypeID{K: k, Index: j})
		}
		stack.Resolutions[i] = Resolution{
			K:          k,
			Iterations: res.Iterations,
			Converged:  res.Converged,
			Delta:      res.Delta,
			Loss:       res.Loss,
		}
		if !res.Converged {
			w := Warning{K: k, Iterations: res.Iterations, Delta: res.Delta}
			warnings = append(warnings, w)
			o.Logger.Warn("resolution did not converge", zap.Error(w))
		}
		o.OnResolution(k, res)
	}

	if stack.C, err = matrix.HStack(Cs...); err != nil {
		return nil, nil, multiresErrorf(opRunRange, err)
	}
	if stack.H, err = matrix.VStack(Hs...); err != nil {
		return nil, nil, multiresErrorf(opRunRange, err)
	}

	return stack, warnings, nil
}

// checkShapes rejects a solver result that is not samples × m / m × samples.
func checkShapes(res *solver.Result, n int) error {
	if res == nil || res.C == nil || res.H == nil {
		return fmt.Errorf("%w: solver returned no matrices", ErrInvalidInput)
	}
	cr, cc := res.C.Dims()
	hr, hc := res.H.Dims()
	if cr != n || hc != n || cc != hr {
		return fmt.Errorf("%w: solver shapes C %dx%d, H %dx%d for %d samples", ErrInvalidInput, cr, cc, hr, hc, n)
	}

	return nil
}
