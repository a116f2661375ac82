// SPDX-License-Identifier: MIT

package multires

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
	"github.com/katalvlaran/actionet/specificity"
)

// Prune drops stacked archetypes that are not specific or not supported.
//
// Implementation:
//   - Stage 1: options, data validation, stack shape check.
//   - Stage 2: support[i] = number of samples whose column of H has its
//     maximum at row i (lowest index on ties).
//   - Stage 3: specificity over the rows of H with positive weight
//     (specificity.For picks the dense or sparse scorer); rows with no weight
//     score −Inf.
//   - Stage 4: keep i iff maxUpper[i] ≥ SpecificityThreshold and
//     support[i] ≥ MinCellsPerArchetype; remove C columns and H rows together.
//
// Behavior highlights:
//   - The predicate is evaluated per archetype, so the kept set does not depend
//     on evaluation order. Kept archetypes retain their stacked order and IDs.
//
// Errors:
//   - ErrInvalidParameter, ErrInvalidInput, ErrEmptyResult.
func Prune(S mat.Matrix, stacked *Stack, opts ...Option) (*Stack, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, multiresErrorf(opPrune, err)
	}
	if err = validateData(S); err != nil {
		return nil, multiresErrorf(opPrune, err)
	}
	if err = checkStack(S, stacked); err != nil {
		return nil, multiresErrorf(opPrune, err)
	}

	return prune(S, stacked, o)
}

// prune is Prune after validation.
func prune(S mat.Matrix, stacked *Stack, o Options) (*Stack, error) {
	m := stacked.Len()
	support, err := dominantCounts(stacked.H)
	if err != nil {
		return nil, multiresErrorf(opPrune, err)
	}

	best, err := bestSpecificity(S, stacked.H)
	if err != nil {
		return nil, multiresErrorf(opPrune, err)
	}

	keep := make([]int, 0, m)
	for i := 0; i < m; i++ {
		if best[i] >= o.SpecificityThreshold && support[i] >= o.MinCellsPerArchetype {
			keep = append(keep, i)
		}
	}
	o.Logger.Debug("pruned archetypes",
		zap.Int("stacked", m),
		zap.Int("kept", len(keep)),
		zap.Float64("specificity_th", o.SpecificityThreshold),
		zap.Int("min_cells", o.MinCellsPerArchetype))
	if len(keep) == 0 {
		return nil, multiresErrorf(opPrune, fmt.Errorf("%w: all %d stacked archetypes pruned", ErrEmptyResult, m))
	}

	out := &Stack{
		IDs:         make([]ArchetypeID, len(keep)),
		Resolutions: append([]Resolution(nil), stacked.Resolutions...),
		Support:     make([]int, len(keep)),
		Specificity: make([]float64, len(keep)),
	}
	for p, i := range keep {
		out.IDs[p] = stacked.IDs[i]
		out.Support[p] = support[i]
		out.Specificity[p] = best[i]
	}
	if out.C, err = matrix.SelectColumns(stacked.C, keep); err != nil {
		return nil, multiresErrorf(opPrune, err)
	}
	if out.H, err = matrix.SelectRows(stacked.H, keep); err != nil {
		return nil, multiresErrorf(opPrune, err)
	}

	return out, nil
}

// dominantCounts returns, per row of H, how many columns peak at that row.
func dominantCounts(H *mat.Dense) ([]int, error) {
	m, _ := H.Dims()
	arg, err := matrix.ColumnArgMax(H)
	if err != nil {
		return nil, err
	}
	counts := make([]int, m)
	for _, a := range arg {
		counts[a]++
	}

	return counts, nil
}

// bestSpecificity returns max over features of the upper z-score per row of H.
// Rows without weight get −Inf.
func bestSpecificity(S mat.Matrix, H *mat.Dense) ([]float64, error) {
	m, n := H.Dims()
	best := make([]float64, m)
	active := make([]int, 0, m)
	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, H)
		if floats.Sum(row) > 0 {
			active = append(active, i)
		}
		best[i] = math.Inf(-1)
	}
	if len(active) == 0 {
		return best, nil
	}

	scorer, err := specificity.For(S)
	if err != nil {
		return nil, err
	}
	sub, err := matrix.SelectRows(H, active)
	if err != nil {
		return nil, err
	}
	res, err := scorer.Archetypes(sub)
	if err != nil {
		return nil, err
	}
	for p, v := range res.MaxUpper() {
		best[active[p]] = v
	}

	return best, nil
}

// checkStack verifies that stack matches S (samples) and is internally consistent.
func checkStack(S mat.Matrix, s *Stack) error {
	if s == nil || s.C == nil || s.H == nil {
		return fmt.Errorf("%w: nil stack", ErrInvalidInput)
	}
	_, n := S.Dims()
	cr, cc := s.C.Dims()
	hr, hc := s.H.Dims()
	if cr != n || hc != n || cc != hr || cc != len(s.IDs) {
		return fmt.Errorf("%w: stack C %dx%d, H %dx%d, %d ids for %d samples",
			ErrInvalidInput, cr, cc, hr, hc, len(s.IDs), n)
	}

	return nil
}
