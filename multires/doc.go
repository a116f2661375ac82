// SPDX-License-Identifier: MIT

// Package multires runs archetypal decomposition over a range of resolutions and
// consolidates the results into one consensus decomposition with a hard
// per-sample assignment.
//
// Pipeline
//
//	S ─RunRange─▶ stacked (C, H) ─Prune─▶ pruned ─Unify─▶ unified + assignment ─Aggregate─▶ Result
//
//   - RunRange solves every k in [kMin, kMax] on a bounded worker pool. Each k
//     writes only its own slot; the stack is concatenated in ascending k after
//     all workers finish, so output never depends on scheduling.
//   - Prune keeps archetype i iff its best feature specificity reaches the
//     threshold and it dominates at least MinCellsPerArchetype samples.
//   - Unify links archetypes whose profiles W = S·C correlate at or above
//     1 − UnificationThreshold, merges every connected group into a
//     support-weighted consensus column of C (support as counted by Prune),
//     re-fits H against the consensus profiles, and assigns each sample to its
//     largest weight (lowest index on ties).
//   - Aggregate packages everything, scores feature markers for every assigned
//     category and optionally reconstructs W for the stacked and unified levels.
//   - Project places new samples on a finished unified model.
//
// Orientation
//
//	S is features × samples, C is samples × archetypes, H is archetypes × samples.
//	Every column of C lies in the probability simplex (within 1e-9). A stacked H
//	holds one simplex block per resolution (Stack.Block); unified H is simplex.
//
// Errors
//
//	All failures wrap one of ErrInvalidRange, ErrInvalidInput,
//	ErrInvalidParameter or ErrEmptyResult (errors.Is). Validation happens before
//	any goroutine starts. Solver non-convergence is reported as a Warning
//	(errors.Is(w, ErrNotConverged)) and never aborts a run.
//
// Concurrency
//
//	The thread budget is resolved once per call (0 means NumCPU − 2, at least 1)
//	and passed down explicitly; there is no package-level state.
package multires
