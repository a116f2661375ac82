// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/matrix"
)

// ExampleSparse shows a CSC matrix flowing through the dense helpers unchanged.
func ExampleSparse() {
	// 3 features × 2 samples; column 0 = [1,0,2], column 1 = [0,3,0]
	S, err := matrix.NewSparse(3, 2, []int{0, 2, 3}, []int{0, 2, 1}, []float64{1, 2, 3})
	if err != nil {
		fmt.Println(err)
		return
	}
	C := mat.NewDense(2, 1, []float64{0.5, 0.5})
	W, _ := matrix.Mul(S, C)

	fmt.Println("nnz:", S.NNZ())
	fmt.Println("W:", mat.Col(nil, 0, W))
	// Output:
	// nnz: 3
	// W: [0.5 1.5 1]
}

// ExampleColumnArgMax shows the lowest-index tie rule.
func ExampleColumnArgMax() {
	H := mat.NewDense(2, 3, []float64{
		0.5, 0.9, 0.3,
		0.5, 0.1, 0.7,
	})
	idx, _ := matrix.ColumnArgMax(H)
	fmt.Println(idx)
	// Output: [0 0 1]
}
