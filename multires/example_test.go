// SPDX-License-Identifier: MIT

package multires_test

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/multires"
)

// ExampleUnify merges two archetypes found at different resolutions that share
// one profile.
func ExampleUnify() {
	S := mat.NewDense(3, 4, []float64{
		1, 1, 0, 0,
		0, 0, 2, 2,
		4, 4, 4, 4,
	})
	pruned := &multires.Stack{
		C: mat.NewDense(4, 3, []float64{
			0.5, 0, 0.5,
			0.5, 0, 0.5,
			0, 0.5, 0,
			0, 0.5, 0,
		}),
		H: mat.NewDense(3, 4, []float64{
			0.6, 0.6, 0, 0,
			0, 0, 1, 1,
			0.4, 0.4, 0, 0,
		}),
		IDs: []multires.ArchetypeID{{K: 2, Index: 0}, {K: 2, Index: 1}, {K: 3, Index: 2}},
	}

	u, err := multires.Unify(context.Background(), S, pruned, multires.WithUnificationThreshold(0.05))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(u.Groups)
	fmt.Println(u.Representatives)
	fmt.Println(u.Assignment.Labels)
	// Output:
	// [[0 2] [1]]
	// [k2:0 k2:1]
	// [0 0 1 1]
}

// ExampleRun decomposes a small dataset with two clear populations.
func ExampleRun() {
	S := mat.NewDense(2, 6, []float64{
		5, 4.8, 5.1, 0.1, 0, 0.2,
		0, 0.2, 0.1, 5, 4.9, 5.2,
	})
	res, err := multires.Run(context.Background(), S,
		multires.WithKRange(2, 2),
		multires.WithMinCellsPerArchetype(1),
		multires.WithThreads(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Unified.Len(), res.Unified.Assignment.Counts())
	// Output: 2 [3 3]
}
