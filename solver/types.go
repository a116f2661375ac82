// SPDX-License-Identifier: MIT

// Package solver provides tunable options and error definitions for
// archetypal decomposition and simplex regression.
package solver

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for solver execution.
var (
	// ErrInvalidRank is returned when k < 1 or k exceeds the number of samples.
	ErrInvalidRank = errors.New("solver: invalid rank")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("solver: invalid option supplied")
)

// Defaults for the outer and inner loops.
const (
	DefaultMaxIter        = 100
	DefaultMinDelta       = 1e-100
	DefaultRegressionIter = 500
	DefaultRegressionTol  = 1e-10
)

// Solver factors S (features × samples) at a single resolution k.
// Implementations must be safe for concurrent use by distinct goroutines on
// distinct k values and must not retain S.
type Solver interface {
	Solve(ctx context.Context, S mat.Matrix, k int) (*Result, error)
}

// Result holds the outcome of one resolution.
//   - C: samples × k, simplex columns (archetype = convex mix of samples).
//   - H: k × samples, simplex columns (sample = convex mix of archetypes).
//   - Iterations: outer iterations performed.
//   - Converged: relative change fell below MinDelta before MaxIter.
//   - Delta: last relative change of W = S·C.
//   - Loss: ‖S − S·C·H‖_F at exit.
type Result struct {
	C          *mat.Dense
	H          *mat.Dense
	Iterations int
	Converged  bool
	Delta      float64
	Loss       float64
}

// Option configures solver behavior via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation when the
// solver (or regression) is invoked.
type Option func(*Options)

// Options holds the iteration budget of the outer and inner loops.
type Options struct {
	// MaxIter bounds the outer alternating iterations.
	MaxIter int

	// MinDelta stops the outer loop once ‖W_t − W_{t−1}‖_F / ‖W_{t−1}‖_F < MinDelta.
	MinDelta float64

	// RegressionIter bounds FISTA iterations per regressed column.
	RegressionIter int

	// RegressionTol stops a column once its step is below tol·max(1, ‖x‖).
	RegressionTol float64

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with the package defaults.
func DefaultOptions() Options {
	return Options{
		MaxIter:        DefaultMaxIter,
		MinDelta:       DefaultMinDelta,
		RegressionIter: DefaultRegressionIter,
		RegressionTol:  DefaultRegressionTol,
	}
}

// WithMaxIter sets the outer iteration budget (must be ≥ 1).
func WithMaxIter(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: MaxIter must be >= 1 (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIter = n
	}
}

// WithMinDelta sets the outer convergence threshold (must be ≥ 0).
func WithMinDelta(d float64) Option {
	return func(o *Options) {
		if d < 0 || d != d {
			o.err = fmt.Errorf("%w: MinDelta must be >= 0 (%g)", ErrOptionViolation, d)
			return
		}
		o.MinDelta = d
	}
}

// WithRegressionIter sets the inner FISTA budget (must be ≥ 1).
func WithRegressionIter(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: RegressionIter must be >= 1 (%d)", ErrOptionViolation, n)
			return
		}
		o.RegressionIter = n
	}
}

// WithRegressionTol sets the inner stopping tolerance (must be > 0).
func WithRegressionTol(tol float64) Option {
	return func(o *Options) {
		if !(tol > 0) {
			o.err = fmt.Errorf("%w: RegressionTol must be > 0 (%g)", ErrOptionViolation, tol)
			return
		}
		o.RegressionTol = tol
	}
}

// buildOptions applies opts over the defaults and returns the first violation.
func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o, o.err
}

// solverErrorf wraps err with an operation tag, preserving it for errors.Is.
func solverErrorf(tag string, err error) error {
	return fmt.Errorf("solver: %s: %w", tag, err)
}
