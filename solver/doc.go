// SPDX-License-Identifier: MIT

// Package solver implements the per-resolution archetypal decomposition used by
// the multi-resolution pipeline, together with its two building blocks.
//
// What
//
//   - SPA: Successive Projection Algorithm. Picks k columns of S that span its
//     convex hull greedily; deterministic and used as the initial archetypes.
//   - SimplexRegression / Regressor: min ‖A·X − B‖_F subject to every column of X
//     lying in the probability simplex. Accelerated projected gradient (FISTA)
//     with Euclidean projection onto the simplex (ProjectSimplex).
//   - Archetypal: a Solver that factors S (d×n) into C (n×k) and H (k×n) with
//     simplex columns, alternating H-updates and per-archetype C-updates until the
//     relative change of W = S·C drops below MinDelta or MaxIter is reached.
//
// Orientation
//
//	S is features × samples. Column j of C writes archetype j as a convex
//	combination of samples; column i of H writes sample i as a convex
//	combination of archetypes. W = S·C holds the archetype profiles.
//
// Convergence
//
//	Non-convergence is not an error: Result.Converged is false and Result.Delta
//	carries the last relative change so callers can warn.
//
// Determinism
//
//	No randomness anywhere. Each column of a regression is solved independently,
//	so SolveBlocks returns bit-identical results for any thread count.
//
// Complexity (d features, n samples, k archetypes, T outer iterations, I inner)
//
//   - SPA:          O(k·d·n)
//   - Regression:   O(k²·d + k·d·n + n·I·k²)
//   - Archetypal:   O(n²·d) once for the sample Gram, then O(T·k·(n·I·n + d·n))
//
// Usage
//
//	aa := solver.NewArchetypal(solver.WithMaxIter(50))
//	res, err := aa.Solve(ctx, S, 5)
//	if err != nil { /* ErrInvalidRank, ErrOptionViolation, matrix sentinels, ctx errors */ }
//	if !res.Converged { /* advisory only */ }
package solver
