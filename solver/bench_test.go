// SPDX-License-Identifier: MIT

package solver_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/katalvlaran/actionet/matrix"
	"github.com/katalvlaran/actionet/solver"
)

var sinkLoss float64

func BenchmarkArchetypal(b *testing.B) {
	b.ReportAllocs()
	for _, n := range []int{50, 100} {
		S := mixture(20, 5, n, 7)
		aa := solver.NewArchetypal(solver.WithMaxIter(5))
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				res, err := aa.Solve(context.Background(), S, 5)
				if err != nil {
					b.Fatal(err)
				}
				sinkLoss = res.Loss
			}
		})
	}
}

func BenchmarkSolveBlocks(b *testing.B) {
	S := mixture(20, 8, 400, 3)
	W, err := matrix.SelectColumns(S, []int{0, 1, 2, 3, 4, 5, 6, 7})
	if err != nil {
		b.Fatal(err)
	}
	reg, err := solver.NewRegressor(W)
	if err != nil {
		b.Fatal(err)
	}
	for _, threads := range []int{1, 4} {
		b.Run(fmt.Sprintf("threads=%d", threads), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				X, err := reg.SolveBlocks(context.Background(), S, threads)
				if err != nil {
					b.Fatal(err)
				}
				sinkLoss = X.At(0, 0)
			}
		})
	}
}

// BenchmarkArchetypal_WideData runs the default solver on 100 features ×
// 1000 samples, where the sample-space regression dominates.
func BenchmarkArchetypal_WideData(b *testing.B) {
	S := mixture(100, 5, 1000, 11)
	aa := solver.NewArchetypal()
	for _, k := range []int{2, 5} {
		b.Run(fmt.Sprintf("k=%d", k), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				res, err := aa.Solve(context.Background(), S, k)
				if err != nil {
					b.Fatal(err)
				}
				sinkLoss = res.Loss
			}
		})
	}
}
