// SPDX-License-Identifier: MIT

package redundancy

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Graph is an undirected simple graph on vertices 0..n-1.
type Graph struct {
	adj   [][]int // sorted, no duplicates, no self-loops
	edges int
}

// NewGraph returns an edgeless graph on n vertices (n ≥ 0).
func NewGraph(n int) *Graph {
	if n < 0 {
		n = 0
	}

	return &Graph{adj: make([][]int, n)}
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return len(g.adj) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.edges }

// AddEdge connects u and v. Self-loops and repeated edges are ignored.
func (g *Graph) AddEdge(u, v int) error {
	if err := g.check(u); err != nil {
		return err
	}
	if err := g.check(v); err != nil {
		return err
	}
	g.addEdge(u, v)

	return nil
}

// addEdge is AddEdge for vertices already known to be in range.
func (g *Graph) addEdge(u, v int) {
	if u == v || g.HasEdge(u, v) {
		return
	}
	g.adj[u] = insertSorted(g.adj[u], v)
	g.adj[v] = insertSorted(g.adj[v], u)
	g.edges++
}

// HasEdge reports whether u and v are adjacent. Out-of-range vertices report false.
func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || u >= len(g.adj) || v < 0 || v >= len(g.adj) {
		return false
	}
	nb := g.adj[u]
	i := sort.SearchInts(nb, v)

	return i < len(nb) && nb[i] == v
}

// Neighbors returns a copy of u's neighbors in ascending order.
func (g *Graph) Neighbors(u int) ([]int, error) {
	if err := g.check(u); err != nil {
		return nil, err
	}

	return append([]int(nil), g.adj[u]...), nil
}

func (g *Graph) check(v int) error {
	if v < 0 || v >= len(g.adj) {
		return fmt.Errorf("vertex %d of %d: %w", v, len(g.adj), ErrVertexOutOfRange)
	}

	return nil
}

func insertSorted(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v

	return s
}

// BuildGraph connects i < j whenever threshold > 0 and
// min(sim[i,j], sim[j,i]) ≥ 1 − threshold.
//
// Errors:
//   - ErrNotSquare for a non-square sim.
//   - ErrOptionViolation for threshold outside [0,1] or NaN.
//
// Complexity: O(n²).
func BuildGraph(sim mat.Matrix, threshold float64) (*Graph, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %g outside [0,1]", ErrOptionViolation, threshold)
	}
	if sim == nil {
		return nil, ErrNotSquare
	}
	r, c := sim.Dims()
	if r != c {
		return nil, fmt.Errorf("%dx%d: %w", r, c, ErrNotSquare)
	}

	g := NewGraph(r)
	if threshold == 0 {
		return g, nil
	}
	cut := 1 - threshold
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			if math.Min(sim.At(i, j), sim.At(j, i)) >= cut {
				g.addEdge(i, j)
			}
		}
	}

	return g, nil
}
