// SPDX-License-Identifier: MIT

// Package redundancy groups near-duplicate archetypes.
//
// What
//
//   - Graph: a small undirected graph on vertices 0..n-1 with sorted adjacency.
//   - BuildGraph: connects i and j when their similarity reaches 1 − threshold.
//   - Components: breadth-first connected components with hooks.
//
// Threshold semantics
//
//	threshold = 0 never adds an edge, so every vertex is its own component.
//	Raising the threshold lowers the similarity cut 1 − threshold, which can
//	only add edges; components therefore only merge and their count is
//	non-increasing in the threshold.
//
// Determinism
//
//	Components are returned in ascending order of their smallest vertex, with
//	members sorted ascending. Neighbors are visited in ascending order.
//
// Complexity
//
//   - BuildGraph: O(n²)
//   - Components: O(V + E)
package redundancy
