// SPDX-License-Identifier: MIT

package multires_test

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/multires"
	"github.com/katalvlaran/actionet/solver"
)

// mixture returns S = A·M (d × n): k separated archetypes, simplex mixing
// columns, and the first k samples pure.
func mixture(d, k, n int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	A := mat.NewDense(d, k, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < k; j++ {
			v := rng.Float64() * 0.3
			if i%k == j {
				v += 2
			}
			A.Set(i, j, v)
		}
	}
	M := mat.NewDense(k, n, nil)
	for s := 0; s < n; s++ {
		if s < k {
			M.Set(s, s, 1)
			continue
		}
		w := make([]float64, k)
		var sum float64
		for j := range w {
			w[j] = rng.Float64() + 0.05
			sum += w[j]
		}
		for j := range w {
			M.Set(j, s, w[j]/sum)
		}
	}
	S := mat.NewDense(d, n, nil)
	S.Mul(A, M)

	return S
}

// uniformRandom returns a d × n matrix with entries in [0,1).
func uniformRandom(d, n int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	S := mat.NewDense(d, n, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < n; j++ {
			S.Set(i, j, rng.Float64())
		}
	}

	return S
}

// fastSolver keeps test runtimes small.
func fastSolver() solver.Solver {
	return solver.NewArchetypal(solver.WithMaxIter(3), solver.WithRegressionIter(150))
}

// countingSolver counts Solve calls and records the requested ranks.
type countingSolver struct {
	inner solver.Solver
	calls atomic.Int32
	mu    sync.Mutex
	ks    []int
}

func (c *countingSolver) Solve(ctx context.Context, S mat.Matrix, k int) (*solver.Result, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.ks = append(c.ks, k)
	c.mu.Unlock()

	return c.inner.Solve(ctx, S, k)
}

// twoBlocks: feature 0 marks samples 0..2, feature 1 marks samples 3..5,
// feature 2 is constant.
func twoBlocks() *mat.Dense {
	return mat.NewDense(3, 6, []float64{
		1, 1, 1, 0, 0, 0,
		0, 0, 0, 2, 2, 2,
		4, 4, 4, 4, 4, 4,
	})
}

// handStack builds a stack over twoBlocks:
//
//	0: block A centroid     support 3
//	1: block B centroid     support 3
//	2: copy of 0 (other k)  support 0
//	3: uniform mix          support 0
func handStack() *multires.Stack {
	third := 1.0 / 3
	C := mat.NewDense(6, 4, []float64{
		third, 0, third, 1.0 / 6,
		third, 0, third, 1.0 / 6,
		third, 0, third, 1.0 / 6,
		0, third, 0, 1.0 / 6,
		0, third, 0, 1.0 / 6,
		0, third, 0, 1.0 / 6,
	})
	H := mat.NewDense(4, 6, []float64{
		0.7, 0.7, 0.7, 0, 0, 0,
		0, 0, 0, 0.8, 0.8, 0.8,
		0.3, 0.3, 0.3, 0, 0, 0,
		0, 0, 0, 0.2, 0.2, 0.2,
	})

	return &multires.Stack{
		C:   C,
		H:   H,
		IDs: []multires.ArchetypeID{{K: 2, Index: 0}, {K: 2, Index: 1}, {K: 3, Index: 0}, {K: 3, Index: 1}},
	}
}

// duplicateStack keeps archetypes 0, 1 and 2 of handStack with renormalized H.
func duplicateStack() *multires.Stack {
	hs := handStack()
	C := mat.DenseCopyOf(hs.C.Slice(0, 6, 0, 3))
	H := mat.NewDense(3, 6, []float64{
		0.7, 0.7, 0.7, 0, 0, 0,
		0, 0, 0, 1, 1, 1,
		0.3, 0.3, 0.3, 0, 0, 0,
	})

	return &multires.Stack{C: C, H: H, IDs: hs.IDs[:3]}
}
