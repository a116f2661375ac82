// SPDX-License-Identifier: MIT

package multires

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Run executes the full pipeline RunRange → Prune → Unify → Aggregate with one
// up-front validation of options, range and data.
//
// Errors:
//   - ErrInvalidParameter, ErrInvalidRange, ErrInvalidInput, ErrEmptyResult,
//     solver and ctx errors. Non-convergence only appears in Result.Warnings.
func Run(ctx context.Context, S mat.Matrix, opts ...Option) (*Result, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, multiresErrorf(opRun, err)
	}
	if err = validateData(S); err != nil {
		return nil, multiresErrorf(opRun, err)
	}
	if _, n := S.Dims(); o.KMax > n {
		return nil, multiresErrorf(opRun, fmt.Errorf("%w: k_max %d exceeds %d samples", ErrInvalidRange, o.KMax, n))
	}

	log := o.Logger.With(zap.String("run_id", uuid.NewString()))
	o.Logger = log
	d, n := S.Dims()
	start := time.Now()
	log.Info("decomposition started",
		zap.Int("features", d),
		zap.Int("samples", n),
		zap.Int("k_min", o.KMin),
		zap.Int("k_max", o.KMax),
		zap.Int("threads", o.Threads))

	stacked, warnings, err := runRange(ctx, S, o.KMin, o.KMax, o)
	if err != nil {
		return nil, err
	}
	log.Info("resolutions stacked", zap.Int("archetypes", stacked.Len()), zap.Int("warnings", len(warnings)))

	pruned, err := prune(S, stacked, o)
	if err != nil {
		return nil, err
	}
	log.Info("archetypes pruned", zap.Int("kept", pruned.Len()))

	unified, err := unify(ctx, S, pruned, o)
	if err != nil {
		return nil, err
	}
	log.Info("archetypes unified", zap.Int("unified", unified.Len()))

	res, err := Aggregate(S, stacked, pruned, unified, o.ReturnW)
	if err != nil {
		return nil, err
	}
	res.Warnings = warnings
	log.Info("decomposition finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("reconstruction_error", res.ReconstructionError))

	return res, nil
}
