// SPDX-License-Identifier: MIT

package multires

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
	"github.com/katalvlaran/actionet/specificity"
)

// Aggregate packages the three levels of a run. It computes W = S·C for the
// stacked and unified levels (when withW is set), the reconstruction error of
// the unified model and the feature specificity of every assigned category.
//
// Errors:
//   - ErrInvalidInput for a nil level or shape mismatch with S.
func Aggregate(S mat.Matrix, stacked, pruned *Stack, unified *Unified, withW bool) (*Result, error) {
	if err := validateData(S); err != nil {
		return nil, multiresErrorf(opAggregate, err)
	}
	if err := checkStack(S, stacked); err != nil {
		return nil, multiresErrorf(opAggregate, fmt.Errorf("stacked: %w", err))
	}
	if err := checkStack(S, pruned); err != nil {
		return nil, multiresErrorf(opAggregate, fmt.Errorf("pruned: %w", err))
	}
	if unified == nil || unified.C == nil || unified.H == nil {
		return nil, multiresErrorf(opAggregate, fmt.Errorf("%w: nil unified set", ErrInvalidInput))
	}

	Wu, err := matrix.Mul(S, unified.C)
	if err != nil {
		return nil, multiresErrorf(opAggregate, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	recon, err := matrix.Residual(S, Wu, unified.H)
	if err != nil {
		return nil, multiresErrorf(opAggregate, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}

	scorer, err := specificity.For(S)
	if err != nil {
		return nil, multiresErrorf(opAggregate, err)
	}
	markers, err := scorer.Clusters(unified.Assignment.Labels)
	if err != nil {
		return nil, multiresErrorf(opAggregate, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}

	res := &Result{
		Stacked:             *stacked,
		Pruned:              *pruned,
		Unified:             *unified,
		Markers:             markers,
		ReconstructionError: recon,
	}
	if withW {
		if res.WStacked, err = matrix.Mul(S, stacked.C); err != nil {
			return nil, multiresErrorf(opAggregate, err)
		}
		res.WUnified = Wu
	}

	return res, nil
}
