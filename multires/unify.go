// SPDX-License-Identifier: MIT

package multires

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
	"github.com/katalvlaran/actionet/redundancy"
	"github.com/katalvlaran/actionet/solver"
	"github.com/katalvlaran/actionet/specificity"
)

// Unify merges redundant archetypes of a pruned stack into a consensus set and
// derives the hard assignment.
//
// Implementation:
//   - Stage 1: options (UnificationThreshold in [0,1]), data and stack validation.
//   - Stage 2: profiles W = S·C; similarity = Pearson correlation of W's columns.
//   - Stage 3: redundancy graph with an edge iff th > 0 and sim ≥ 1 − th;
//     groups = connected components, ordered by smallest member.
//   - Stage 4: per group, consensus C column = support-weighted mean of member
//     columns (uniform when the group has no support); representative = member
//     with most support, lowest index on ties. Support is pruned.Support as set
//     by Prune, or the argmax counts of pruned.H when it is absent.
//   - Stage 5: H = simplex regression of S onto S·C_unified, solved in
//     contiguous sample blocks on Threads goroutines.
//   - Stage 6: labels = per-sample argmax of H (lowest index on ties);
//     categories = distinct labels ascending.
//
// Behavior highlights:
//   - th = 0 yields exactly one group per pruned archetype.
//   - Group count is non-increasing in th.
//   - Output matrices never alias the input stack.
//
// Errors:
//   - ErrInvalidParameter, ErrInvalidInput, ErrEmptyResult, ctx errors.
func Unify(ctx context.Context, S mat.Matrix, pruned *Stack, opts ...Option) (*Unified, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	if err = validateData(S); err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	if err = checkStack(S, pruned); err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	if pruned.Len() == 0 {
		return nil, multiresErrorf(opUnify, ErrEmptyResult)
	}

	return unify(ctx, S, pruned, o)
}

// unify is Unify after validation.
func unify(ctx context.Context, S mat.Matrix, pruned *Stack, o Options) (*Unified, error) {
	W, err := matrix.Mul(S, pruned.C)
	if err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	sim, err := matrix.ColumnCorrelation(W, W)
	if err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	g, err := redundancy.BuildGraph(sim, o.UnificationThreshold)
	if err != nil {
		return nil, multiresErrorf(opUnify, fmt.Errorf("%w: %w", ErrInvalidParameter, err))
	}
	groups, err := redundancy.Components(g, redundancy.WithContext(ctx))
	if err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	if len(groups) == 0 {
		return nil, multiresErrorf(opUnify, ErrEmptyResult)
	}

	support := pruned.Support
	if len(support) != pruned.Len() {
		if support, err = dominantCounts(pruned.H); err != nil {
			return nil, multiresErrorf(opUnify, err)
		}
	}

	n, _ := pruned.C.Dims()
	u := &Unified{
		C:               mat.NewDense(n, len(groups), nil),
		Groups:          groups,
		Members:         make([][]ArchetypeID, len(groups)),
		Representatives: make([]ArchetypeID, len(groups)),
	}
	for gi, members := range groups {
		u.C.SetCol(gi, consensus(pruned.C, members, support))
		u.Representatives[gi] = pruned.IDs[representative(members, support)]
		for _, m := range members {
			u.Members[gi] = append(u.Members[gi], pruned.IDs[m])
		}
	}
	matrix.RepairSimplexColumns(u.C)

	Wu, err := matrix.Mul(S, u.C)
	if err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	reg, err := solver.NewRegressor(Wu)
	if err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	if u.H, err = reg.SolveBlocks(ctx, S, o.Threads); err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	matrix.RepairSimplexColumns(u.H)

	if u.Assignment, err = assign(u.H); err != nil {
		return nil, multiresErrorf(opUnify, err)
	}
	o.Logger.Debug("unified archetypes",
		zap.Int("pruned", pruned.Len()),
		zap.Int("unified", len(groups)),
		zap.Float64("unification_th", o.UnificationThreshold),
		zap.Int("edges", g.EdgeCount()))

	return u, nil
}

// consensus returns the support-weighted mean of the member columns of C.
func consensus(C *mat.Dense, members, support []int) []float64 {
	n, _ := C.Dims()
	out := make([]float64, n)
	col := make([]float64, n)

	var total float64
	for _, i := range members {
		total += float64(support[i])
	}
	for _, i := range members {
		w := 1 / float64(len(members))
		if total > 0 {
			w = float64(support[i]) / total
		}
		if w == 0 {
			continue
		}
		mat.Col(col, i, C)
		floats.AddScaled(out, w, col)
	}

	return out
}

// representative picks the member with the largest support, lowest index on ties.
func representative(members, support []int) int {
	best := members[0]
	for _, i := range members[1:] {
		if support[i] > support[best] || (support[i] == support[best] && i < best) {
			best = i
		}
	}

	return best
}

// assign derives the ordered categorical hard assignment from H's columns.
func assign(H *mat.Dense) (Assignment, error) {
	labels, err := matrix.ColumnArgMax(H)
	if err != nil {
		return Assignment{}, err
	}

	return Assignment{Labels: labels, Categories: specificity.Categories(labels)}, nil
}
