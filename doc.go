// SPDX-License-Identifier: MIT

// Package actionet decomposes a features × samples matrix into archetypes at
// many resolutions at once and distills them into one consensus set.
//
// 🚀 What does actionet do?
//
//	For every k in [k_min, k_max] it finds k archetypes (convex mixtures of
//	samples) and the simplex weights that rebuild every sample from them, then:
//		• Prune: drop archetypes with no specific feature or too few samples
//		• Unify: merge archetypes whose profiles are near-identical
//		• Assign: give every sample one hard label over the unified set
//
// ✨ Why actionet?
//
//   - Deterministic: the same input gives the same labels for any thread count
//   - Parallel: resolutions and regression blocks run on a bounded errgroup pool
//   - Sparse-aware: CSC input is scored for specificity without densification
//   - Observable: zap logging, per-resolution hooks, non-convergence warnings
//
// Packages:
//
//	matrix/       gonum-backed plumbing: CSC Sparse, validation, stacking, moments, similarity
//	solver/       SPA, simplex regression and the archetypal-analysis solver
//	specificity/  per-feature z-scores of archetype or cluster profiles
//	redundancy/   similarity graph and connected components (BFS)
//	multires/     RunRange → Prune → Unify → Aggregate, Run and Project
//	config/       YAML run configuration
//	cmd/actionet  command-line front end
//
// Quick start:
//
//	res, err := multires.Run(ctx, S,
//		multires.WithKRange(2, 20),
//		multires.WithUnificationThreshold(0.1))
//	if err != nil { ... }
//	labels := res.Unified.Assignment.Labels
//
//	go get github.com/katalvlaran/actionet
package actionet
