// SPDX-License-Identifier: MIT

// Package specificity scores how specifically each feature marks each archetype
// (or each hard cluster) of a features × samples matrix.
//
// For membership weights w over samples (one archetype's row of H, normalized
// to sum 1) the weighted profile of feature f is Σ_j S[f,j]·w_j. Under the null
// hypothesis that the weights are unrelated to S, the profile has mean μ_f (the
// row mean of S) and variance σ²_f·Σ_j w_j², where σ²_f is the population
// variance of row f. The upper score is the z-score
//
//	Upper[f,a] = (Profile[f,a] − μ_f) / sqrt(σ²_f · Σ_j w_j²)
//
// and Lower = −Upper. Rows with zero variance score 0 on both sides.
//
// Two Scorer implementations share this contract: Dense walks a *mat.Dense with
// BLAS products, Sparse walks the stored entries of a *matrix.Sparse column by
// column. For picks the one matching the concrete input type, so callers never
// branch on representation.
//
// Inputs with negative entries are shifted by their global minimum first; the
// shift moves Profile but leaves the z-scores unchanged.
package specificity
