// SPDX-License-Identifier: MIT

// Package matrix is the numeric plumbing shared by the decomposition packages.
//
// The matrix package provides:
//
//   - Sparse, a compressed-sparse-column matrix that satisfies gonum's
//     mat.Matrix, so a features × samples input can stay sparse end to end.
//   - Shape helpers (Densify, SelectColumns, SelectRows, HStack, VStack) that
//     always return independent *mat.Dense copies.
//   - Column statistics (L1 normalization, argmax with lowest-index ties,
//     Pearson/cosine similarity between columns) and row moments.
//   - Validators for the numeric policy: finite values and simplex columns.
//
// Every helper validates before it calls into gonum, so user errors surface as
// sentinel errors (errors.Is) instead of gonum panics.
package matrix
