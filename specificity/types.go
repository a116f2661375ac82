// SPDX-License-Identifier: MIT

package specificity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sentinel errors for specificity scoring.
var (
	// ErrEmptyMembership is returned when an archetype or cluster has zero total weight.
	ErrEmptyMembership = errors.New("specificity: membership with zero total weight")

	// ErrNegativeWeight is returned when a membership matrix has a negative entry.
	ErrNegativeWeight = errors.New("specificity: negative membership weight")

	// ErrDimensionMismatch is returned when memberships do not cover every sample.
	ErrDimensionMismatch = errors.New("specificity: membership/sample count mismatch")
)

// Scorer computes feature specificity for soft memberships (archetypes) or
// hard labels (clusters) over one fixed data matrix.
type Scorer interface {
	// Archetypes scores every row of H (k × samples) as a membership vector.
	Archetypes(H mat.Matrix) (*Result, error)

	// Clusters scores every distinct label; result columns follow Categories.
	Clusters(labels []int) (*Result, error)
}

// Result holds per-feature scores, features × groups.
type Result struct {
	Profile *mat.Dense
	Upper   *mat.Dense
	Lower   *mat.Dense

	// Categories lists the label of every column when scored from clusters;
	// nil for archetype scoring.
	Categories []int
}

// MaxUpper returns, for every group, the maximum Upper score over features.
func (r *Result) MaxUpper() []float64 {
	d, k := r.Upper.Dims()
	out := make([]float64, k)
	for a := 0; a < k; a++ {
		best := math.Inf(-1)
		for f := 0; f < d; f++ {
			best = math.Max(best, r.Upper.At(f, a))
		}
		out[a] = best
	}

	return out
}

// UpperPValues returns one-sided p-values P(Z ≥ Upper) under the standard normal.
func (r *Result) UpperPValues() *mat.Dense {
	d, k := r.Upper.Dims()
	out := mat.NewDense(d, k, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return distuv.UnitNormal.Survival(r.Upper.At(i, j))
	}, out)

	return out
}

// specErrorf wraps err with an operation tag, preserving it for errors.Is.
func specErrorf(tag string, err error) error {
	return fmt.Errorf("specificity: %s: %w", tag, err)
}
