// SPDX-License-Identifier: MIT

package multires

import (
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"

	"github.com/katalvlaran/actionet/solver"
)

// Defaults for a full run.
const (
	DefaultKMin                 = 2
	DefaultKMax                 = 30
	DefaultMaxIter              = 100
	DefaultMinDelta             = 1e-100
	DefaultSpecificityThreshold = -3.0
	DefaultMinCellsPerArchetype = 2
	DefaultUnificationThreshold = 0.0

	// threadReserve is kept free when the budget is derived from NumCPU.
	threadReserve = 2
)

// Option configures a call via functional arguments.
// Invalid values are recorded and surfaced when the call runs.
type Option func(*Options)

// Options holds every knob of the pipeline. Obtain defaults with DefaultOptions.
type Options struct {
	// KMin, KMax bound the resolution range used by Run.
	KMin, KMax int

	// MaxIter and MinDelta control the default solver.
	MaxIter  int
	MinDelta float64

	// SpecificityThreshold is the minimum best-feature upper z-score an
	// archetype needs to survive pruning.
	SpecificityThreshold float64

	// MinCellsPerArchetype is the minimum number of samples an archetype must
	// dominate to survive pruning.
	MinCellsPerArchetype int

	// UnificationThreshold in [0,1]; 0 disables merging.
	UnificationThreshold float64

	// Threads is the worker budget; 0 selects NumCPU − 2 (at least 1).
	Threads int

	// ReturnW makes Aggregate reconstruct W = S·C for both levels.
	ReturnW bool

	// Solver overrides the per-resolution solver. Nil builds a
	// solver.Archetypal from MaxIter and MinDelta.
	Solver solver.Solver

	// Logger receives progress at Debug/Info and non-convergence at Warn.
	Logger *zap.Logger

	// OnResolution is called once per k, in ascending k, after all resolutions finish.
	OnResolution func(k int, r *solver.Result)

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns the package defaults with a no-op logger.
func DefaultOptions() Options {
	return Options{
		KMin:                 DefaultKMin,
		KMax:                 DefaultKMax,
		MaxIter:              DefaultMaxIter,
		MinDelta:             DefaultMinDelta,
		SpecificityThreshold: DefaultSpecificityThreshold,
		MinCellsPerArchetype: DefaultMinCellsPerArchetype,
		UnificationThreshold: DefaultUnificationThreshold,
		Logger:               zap.NewNop(),
		OnResolution:         func(int, *solver.Result) {},
	}
}

// fail records the first violation only.
func (o *Options) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}

// WithKRange sets the resolution range used by Run.
//
//	kMin < 2 or kMax < kMin → ErrInvalidRange
func WithKRange(kMin, kMax int) Option {
	return func(o *Options) {
		if err := checkRange(kMin, kMax); err != nil {
			o.fail(err)
			return
		}
		o.KMin, o.KMax = kMin, kMax
	}
}

// WithMaxIter sets the solver iteration cap (≥ 1).
func WithMaxIter(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.fail(fmt.Errorf("%w: max_iter must be >= 1 (%d)", ErrInvalidParameter, n))
			return
		}
		o.MaxIter = n
	}
}

// WithMinDelta sets the solver convergence threshold (≥ 0).
func WithMinDelta(d float64) Option {
	return func(o *Options) {
		if math.IsNaN(d) || d < 0 {
			o.fail(fmt.Errorf("%w: min_delta must be >= 0 (%g)", ErrInvalidParameter, d))
			return
		}
		o.MinDelta = d
	}
}

// WithSpecificityThreshold sets the pruning z-score threshold. Any non-NaN value
// is accepted; math.Inf(-1) disables the specificity test.
func WithSpecificityThreshold(th float64) Option {
	return func(o *Options) {
		if math.IsNaN(th) {
			o.fail(fmt.Errorf("%w: specificity_th is NaN", ErrInvalidParameter))
			return
		}
		o.SpecificityThreshold = th
	}
}

// WithMinCellsPerArchetype sets the minimum support (≥ 1).
func WithMinCellsPerArchetype(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.fail(fmt.Errorf("%w: min_cells_per_archetype must be >= 1 (%d)", ErrInvalidParameter, n))
			return
		}
		o.MinCellsPerArchetype = n
	}
}

// WithUnificationThreshold sets the merge threshold in [0,1].
func WithUnificationThreshold(th float64) Option {
	return func(o *Options) {
		if math.IsNaN(th) || th < 0 || th > 1 {
			o.fail(fmt.Errorf("%w: unification_th must be in [0,1] (%g)", ErrInvalidParameter, th))
			return
		}
		o.UnificationThreshold = th
	}
}

// WithThreads sets the worker budget (≥ 0; 0 selects the default policy).
func WithThreads(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.fail(fmt.Errorf("%w: thread_no must be >= 0 (%d)", ErrInvalidParameter, n))
			return
		}
		o.Threads = n
	}
}

// WithReturnW toggles reconstruction of W for both levels.
func WithReturnW(on bool) Option {
	return func(o *Options) { o.ReturnW = on }
}

// WithSolver replaces the per-resolution solver. Nil is ignored.
func WithSolver(s solver.Solver) Option {
	return func(o *Options) {
		if s != nil {
			o.Solver = s
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOnResolution registers a per-k hook.
func WithOnResolution(fn func(k int, r *solver.Result)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnResolution = fn
		}
	}
}

// buildOptions applies opts over the defaults and resolves derived values.
func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return o, o.err
	}
	o.Threads = resolveThreads(o.Threads)
	if o.Solver == nil {
		o.Solver = solver.NewArchetypal(solver.WithMaxIter(o.MaxIter), solver.WithMinDelta(o.MinDelta))
	}

	return o, nil
}

// resolveThreads maps 0 to max(1, NumCPU − threadReserve).
func resolveThreads(n int) int {
	if n > 0 {
		return n
	}

	return max(1, runtime.NumCPU()-threadReserve)
}

// checkRange validates a resolution range independent of the data.
func checkRange(kMin, kMax int) error {
	if kMax < kMin {
		return fmt.Errorf("%w: k_max %d < k_min %d", ErrInvalidRange, kMax, kMin)
	}
	if kMin < DefaultKMin {
		return fmt.Errorf("%w: k_min %d < %d", ErrInvalidRange, kMin, DefaultKMin)
	}

	return nil
}
