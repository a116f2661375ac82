// SPDX-License-Identifier: MIT

package multires

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/specificity"
)

// ArchetypeID records where a stacked archetype came from.
type ArchetypeID struct {
	K     int // resolution
	Index int // column within that resolution's C
}

// String renders "k<K>:<Index>".
func (id ArchetypeID) String() string { return fmt.Sprintf("k%d:%d", id.K, id.Index) }

// Resolution summarizes one solver run.
type Resolution struct {
	K          int
	Iterations int
	Converged  bool
	Delta      float64
	Loss       float64
}

// Stack is a set of archetypes with matching coefficient and loading matrices.
//   - C: samples × m, simplex columns.
//   - H: m × samples, the per-resolution H blocks stacked by row. In a full
//     stack each block's columns are simplex, so a column of H sums to the
//     number of resolutions. A pruned stack keeps a subset of each block's rows.
//   - IDs: provenance of each of the m archetypes.
type Stack struct {
	C   *mat.Dense
	H   *mat.Dense
	IDs []ArchetypeID

	// Resolutions lists every solved k in ascending order.
	Resolutions []Resolution

	// Support and Specificity are filled by Prune for the kept archetypes:
	// dominated-sample counts in the full stack and best feature z-score.
	Support     []int
	Specificity []float64
}

// Len returns the number of archetypes.
func (s *Stack) Len() int { return len(s.IDs) }

// Block returns the positions of the archetypes solved at resolution k,
// ascending. They are the rows of k's block in H.
func (s *Stack) Block(k int) []int {
	var out []int
	for i, id := range s.IDs {
		if id.K == k {
			out = append(out, i)
		}
	}

	return out
}

// BestLoss returns the smallest reconstruction error over the solved resolutions,
// or +Inf when none are recorded.
func (s *Stack) BestLoss() float64 {
	best := math.Inf(1)
	for _, r := range s.Resolutions {
		best = math.Min(best, r.Loss)
	}

	return best
}

// Assignment is an ordered categorical hard label per sample.
type Assignment struct {
	// Labels holds one unified archetype index per sample.
	Labels []int

	// Categories lists the labels present, ascending numerically.
	Categories []int
}

// Code returns the position of sample i's label in Categories.
func (a Assignment) Code(i int) int {
	lo, hi := 0, len(a.Categories)
	for lo < hi {
		mid := (lo + hi) / 2
		if a.Categories[mid] < a.Labels[i] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}

// Counts returns the number of samples per category, aligned with Categories.
func (a Assignment) Counts() []int {
	out := make([]int, len(a.Categories))
	for i := range a.Labels {
		out[a.Code(i)]++
	}

	return out
}

// Unified is the consensus decomposition.
type Unified struct {
	C *mat.Dense // samples × g
	H *mat.Dense // g × samples

	// Groups lists, per unified archetype, the merged indices of the pruned stack.
	Groups [][]int

	// Members maps each unified archetype to the resolution-level archetypes
	// it merged, in Groups order.
	Members [][]ArchetypeID

	// Representatives holds, per group, the member with the largest support.
	Representatives []ArchetypeID

	Assignment Assignment
}

// Len returns the number of unified archetypes.
func (u *Unified) Len() int { return len(u.Groups) }

// Levels returns the distinct resolutions that contributed to unified
// archetype g, ascending.
func (u *Unified) Levels(g int) []int {
	var ks []int
	for _, id := range u.Members[g] {
		if i, found := slices.BinarySearch(ks, id.K); !found {
			ks = slices.Insert(ks, i, id.K)
		}
	}

	return ks
}

// Result bundles every level of a run.
type Result struct {
	Stacked Stack
	Pruned  Stack
	Unified Unified

	// WStacked = S·Stacked.C and WUnified = S·Unified.C, only when requested.
	WStacked *mat.Dense
	WUnified *mat.Dense

	Warnings []Warning

	// Markers scores every feature for every assigned category of the unified
	// model; columns follow Unified.Assignment.Categories.
	Markers *specificity.Result

	// ReconstructionError is ‖S − S·C_unified·H_unified‖_F.
	ReconstructionError float64
}
