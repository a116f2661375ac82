// SPDX-License-Identifier: MIT

package specificity

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

// varianceFloor is the relative variance below which a feature counts as constant.
const varianceFloor = 1e-12

// Compile-time assertions.
var (
	_ Scorer = (*Dense)(nil)
	_ Scorer = (*Sparse)(nil)
)

// For returns the Scorer matching the concrete type of S: *matrix.Sparse gets
// Sparse, everything else is densified and gets Dense.
func For(S mat.Matrix) (Scorer, error) {
	if sp, ok := S.(*matrix.Sparse); ok {
		return NewSparse(sp)
	}
	d, err := matrix.Densify(S)
	if err != nil {
		return nil, specErrorf("For", err)
	}

	return NewDense(d)
}

// moments holds the per-feature null statistics shared by both scorers.
type moments struct {
	d, n     int
	shift    float64
	mean     []float64
	variance []float64
}

func newMoments(S mat.Matrix, minValue float64) (moments, error) {
	mean, variance, err := matrix.RowMeanVariance(S)
	if err != nil {
		return moments{}, err
	}
	d, n := S.Dims()
	m := moments{d: d, n: n, mean: mean, variance: variance}
	if minValue < 0 {
		m.shift = -minValue
		floats.AddConst(m.shift, m.mean)
	}

	return m, nil
}

// weights validates H (k × n) and returns its rows normalized to sum 1
// together with Σ_j w_j² per row.
func (m *moments) weights(H mat.Matrix) (*mat.Dense, []float64, error) {
	if err := matrix.ValidateNonEmpty(H); err != nil {
		return nil, nil, err
	}
	if err := matrix.ValidateFinite(H); err != nil {
		return nil, nil, err
	}
	k, n := H.Dims()
	if n != m.n {
		return nil, nil, fmt.Errorf("%d membership columns for %d samples: %w", n, m.n, ErrDimensionMismatch)
	}

	w := mat.DenseCopyOf(H)
	sq := make([]float64, k)
	row := make([]float64, n)
	for a := 0; a < k; a++ {
		mat.Row(row, a, w)
		if floats.Min(row) < 0 {
			return nil, nil, fmt.Errorf("row %d: %w", a, ErrNegativeWeight)
		}
		total := floats.Sum(row)
		if total <= 0 {
			return nil, nil, fmt.Errorf("row %d: %w", a, ErrEmptyMembership)
		}
		floats.Scale(1/total, row)
		sq[a] = floats.Dot(row, row)
		w.SetRow(a, row)
	}

	return w, sq, nil
}

// finish turns a raw weighted profile (unshifted) into a Result.
func (m *moments) finish(profile *mat.Dense, sq []float64) *Result {
	_, k := profile.Dims()
	upper := mat.NewDense(m.d, k, nil)
	lower := mat.NewDense(m.d, k, nil)

	var f, a int
	var z, sd float64
	for f = 0; f < m.d; f++ {
		constant := m.variance[f] <= varianceFloor*(1+m.mean[f]*m.mean[f])
		for a = 0; a < k; a++ {
			profile.Set(f, a, profile.At(f, a)+m.shift)
			if constant {
				continue
			}
			sd = math.Sqrt(m.variance[f] * sq[a])
			z = (profile.At(f, a) - m.mean[f]) / sd
			upper.Set(f, a, z)
			lower.Set(f, a, -z)
		}
	}

	return &Result{Profile: profile, Upper: upper, Lower: lower}
}

// clusters scores hard labels through the archetype path with a one-hot membership.
func clusters(s Scorer, n int, labels []int) (*Result, error) {
	if len(labels) != n {
		return nil, specErrorf("Clusters", fmt.Errorf("%d labels for %d samples: %w", len(labels), n, ErrDimensionMismatch))
	}
	if n == 0 {
		return nil, specErrorf("Clusters", ErrEmptyMembership)
	}
	cats := Categories(labels)
	pos := make(map[int]int, len(cats))
	for i, c := range cats {
		pos[c] = i
	}
	onehot := mat.NewDense(len(cats), n, nil)
	for j, l := range labels {
		onehot.Set(pos[l], j, 1)
	}

	res, err := s.Archetypes(onehot)
	if err != nil {
		return nil, err
	}
	res.Categories = cats

	return res, nil
}

// Categories returns the distinct labels in ascending numeric order.
func Categories(labels []int) []int {
	seen := make(map[int]struct{}, len(labels))
	out := make([]int, 0)
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Ints(out)

	return out
}

// Dense scores a dense data matrix.
type Dense struct {
	s *mat.Dense
	moments
}

// NewDense prepares a scorer over S (features × samples). S is not copied and
// must not be mutated while the scorer is in use.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrEmpty, matrix.ErrNaNInf.
func NewDense(S *mat.Dense) (*Dense, error) {
	if err := matrix.ValidateNonEmpty(S); err != nil {
		return nil, specErrorf("NewDense", err)
	}
	if err := matrix.ValidateFinite(S); err != nil {
		return nil, specErrorf("NewDense", err)
	}
	m, err := newMoments(S, mat.Min(S))
	if err != nil {
		return nil, specErrorf("NewDense", err)
	}

	return &Dense{s: S, moments: m}, nil
}

// Archetypes implements Scorer. Profile = S·wᵀ via gonum Mul.
func (sc *Dense) Archetypes(H mat.Matrix) (*Result, error) {
	w, sq, err := sc.weights(H)
	if err != nil {
		return nil, specErrorf("Archetypes", err)
	}
	k, _ := w.Dims()
	profile := mat.NewDense(sc.d, k, nil)
	profile.Mul(sc.s, w.T())

	return sc.finish(profile, sq), nil
}

// Clusters implements Scorer.
func (sc *Dense) Clusters(labels []int) (*Result, error) { return clusters(sc, sc.n, labels) }

// Sparse scores a compressed-sparse-column data matrix without densifying it.
type Sparse struct {
	s *matrix.Sparse
	moments
}

// NewSparse prepares a scorer over S (features × samples).
//
// Errors: matrix.ErrNilMatrix, matrix.ErrEmpty, matrix.ErrNaNInf.
func NewSparse(S *matrix.Sparse) (*Sparse, error) {
	if err := matrix.ValidateNonEmpty(S); err != nil {
		return nil, specErrorf("NewSparse", err)
	}
	if err := matrix.ValidateFinite(S); err != nil {
		return nil, specErrorf("NewSparse", err)
	}
	d, n := S.Dims()
	minValue := math.Inf(1)
	S.DoNonZero(func(_, _ int, v float64) { minValue = math.Min(minValue, v) })
	if S.NNZ() < d*n {
		minValue = math.Min(minValue, 0)
	}
	m, err := newMoments(S, minValue)
	if err != nil {
		return nil, specErrorf("NewSparse", err)
	}

	return &Sparse{s: S, moments: m}, nil
}

// Archetypes implements Scorer. Profile columns accumulate stored entries only.
func (sc *Sparse) Archetypes(H mat.Matrix) (*Result, error) {
	w, sq, err := sc.weights(H)
	if err != nil {
		return nil, specErrorf("Archetypes", err)
	}
	k, _ := w.Dims()
	profile := mat.NewDense(sc.d, k, nil)
	raw := profile.RawMatrix()
	wj := make([]float64, k)
	for j := 0; j < sc.n; j++ {
		mat.Col(wj, j, w)
		sc.s.DoColNonZero(j, func(i int, v float64) {
			floats.AddScaled(raw.Data[i*raw.Stride:i*raw.Stride+k], v, wj)
		})
	}

	return sc.finish(profile, sq), nil
}

// Clusters implements Scorer.
func (sc *Sparse) Clusters(labels []int) (*Result, error) { return clusters(sc, sc.n, labels) }
