// SPDX-License-Identifier: MIT

package multires

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every message is prefixed with "multires: ..." and call sites
// wrap them so errors.Is keeps working.
var (
	// ErrInvalidRange indicates kMax < kMin, kMin < 2, or kMax above the sample count.
	ErrInvalidRange = errors.New("multires: invalid resolution range")

	// ErrInvalidInput indicates an empty or non-finite data matrix, or a stack
	// whose shape does not match it.
	ErrInvalidInput = errors.New("multires: invalid input")

	// ErrInvalidParameter indicates an option outside its domain.
	ErrInvalidParameter = errors.New("multires: invalid parameter")

	// ErrEmptyResult indicates that no archetype survived pruning or unification.
	ErrEmptyResult = errors.New("multires: no archetypes left")

	// ErrNotConverged is the advisory condition carried by a Warning.
	ErrNotConverged = errors.New("multires: solver did not converge")
)

// Operation tags.
const (
	opRunRange  = "RunRange"
	opPrune     = "Prune"
	opUnify     = "Unify"
	opAggregate = "Aggregate"
	opRun       = "Run"
	opProject   = "Project"
)

// multiresErrorf wraps err with an operation tag.
func multiresErrorf(tag string, err error) error {
	return fmt.Errorf("multires: %s: %w", tag, err)
}

// Warning reports one resolution that hit its iteration cap before MinDelta.
type Warning struct {
	K          int
	Iterations int
	Delta      float64
}

// Error implements error.
func (w Warning) Error() string {
	return fmt.Sprintf("multires: k=%d did not converge after %d iterations (delta %g)", w.K, w.Iterations, w.Delta)
}

// Unwrap lets errors.Is(w, ErrNotConverged) match.
func (w Warning) Unwrap() error { return ErrNotConverged }
