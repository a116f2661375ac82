// SPDX-License-Identifier: MIT

package redundancy

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for graph construction and traversal.
var (
	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("redundancy: graph is nil")

	// ErrVertexOutOfRange is returned for a vertex outside 0..n-1.
	ErrVertexOutOfRange = errors.New("redundancy: vertex out of range")

	// ErrNotSquare is returned when the similarity matrix is not n×n.
	ErrNotSquare = errors.New("redundancy: similarity matrix must be square")

	// ErrOptionViolation is returned when an invalid Option or threshold is supplied.
	ErrOptionViolation = errors.New("redundancy: invalid option supplied")
)

// Option configures Components via functional arguments.
type Option func(*Options)

// Options holds the traversal context and hooks.
type Options struct {
	// Ctx allows cancellation between vertices.
	Ctx context.Context

	// OnVisit is called for every vertex with the index of its component.
	// Returning an error aborts the traversal.
	OnVisit func(v, comp int) error

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns background context and a no-op hook.
func DefaultOptions() Options {
	return Options{
		Ctx:     context.Background(),
		OnVisit: func(int, int) error { return nil },
	}
}

// WithContext sets a custom context for cancellation; nil is rejected.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx == nil {
			o.err = fmt.Errorf("%w: nil context", ErrOptionViolation)
			return
		}
		o.Ctx = ctx
	}
}

// WithOnVisit registers a visit hook.
func WithOnVisit(fn func(v, comp int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}
