// SPDX-License-Identifier: MIT

package solver_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

// mixture returns S = A·M (d × n) where A holds k well-separated non-negative
// archetypes and M has simplex columns; the first k samples are the pure archetypes.
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
		var sum float64
		w := make([]float64, k)
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

// requireSimplex asserts every column of m lies in the simplex.
func requireSimplex(t testing.TB, m mat.Matrix) {
	t.Helper()
	require.NoError(t, matrix.ValidateSimplexColumns(m, 1e-9))
}
