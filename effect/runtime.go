package effect

import (
	"context"
	"sort"

	"github.com/efflow/effect/cause"
	"github.com/efflow/effect/clock"
	"github.com/efflow/effect/di"
	"github.com/efflow/effect/internal/result"
	"github.com/efflow/effect/scope"
	"github.com/efflow/effect/strategy"
)

// Runtime is the external interface spec.md §6 describes: the facade that
// actually interprets Effect values, holding the clock.Clock,
// strategy.Strategy and base di.Context every run is interpreted against.
// Run* and Fork are free functions rather than Runtime methods because Go
// forbids a method from introducing its own type parameter beyond the
// receiver's.
type Runtime struct {
	clock    clock.Clock
	strategy strategy.Strategy
	env      di.Context
	exts     []Extension
}

// RuntimeOption configures a Runtime at construction time.
type RuntimeOption func(*Runtime)

// WithClock overrides the default clock.System.
func WithClock(c clock.Clock) RuntimeOption { return func(r *Runtime) { r.clock = c } }

// WithStrategy overrides the default strategy.Fiber{}.
func WithStrategy(s strategy.Strategy) RuntimeOption { return func(r *Runtime) { r.strategy = s } }

// WithBaseContext seeds the Runtime's di.Context, e.g. with services bound
// via a Layer built ahead of time.
func WithBaseContext(env di.Context) RuntimeOption { return func(r *Runtime) { r.env = env } }

// WithExtensions registers Extensions that wrap every dispatched node,
// ordered by Extension.Order (lower runs outermost).
func WithExtensions(exts ...Extension) RuntimeOption {
	return func(r *Runtime) { r.exts = append(r.exts, exts...) }
}

// WithPreset overrides tag's bound value in the Runtime's base di.Context,
// grounded on the teacher's WithPreset ScopeOption (scope.go): substitute a
// test double for a service ahead of any Layer wiring, without threading an
// extra Layer through ProvideTo.
func WithPreset[T any](tag di.Tag[T], value T) RuntimeOption {
	return func(r *Runtime) { r.env = di.Bind(r.env, tag, value) }
}

// NewRuntime builds a Runtime defaulting to the real system clock and a
// goroutine-backed Fiber strategy — the substrate capable of true
// concurrency for Timeout/Race/Parallel.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{clock: clock.System, strategy: strategy.Fiber{}, env: di.Empty}
	for _, opt := range opts {
		opt(r)
	}
	sort.SliceStable(r.exts, func(i, j int) bool { return r.exts[i].Order() < r.exts[j].Order() })
	r.env = di.Bind(r.env, ClockTag, r.clock)
	return r
}

func (r *Runtime) newRootKernel(ctx context.Context) (*kernel, *scope.Scope) {
	root := scope.New()
	k := newKernel(ctx, r.clock, r.strategy, di.Bind(r.env, ScopeTag, root), root)
	k.exts = r.exts
	return k, root
}

func notifyRunEnd(exts []Extension, value any, err error, closed cause.Cause) {
	for _, ext := range exts {
		ext.OnRunEnd(value, err)
		if err != nil {
			ext.OnRunFailure(closed)
		}
	}
}

// RunSync blocks the calling goroutine until e completes, returning its
// value or the terminal error of its failure Cause.
func RunSync[T any](ctx context.Context, rt *Runtime, e Effect[T]) (T, error) {
	k, root := rt.newRootKernel(ctx)
	v, err := k.run(e)
	closed := root.Close(unwrapCause(err))
	terminal := closed.TerminalError()
	defer notifyRunEnd(rt.exts, v, terminal, closed)
	if terminal != nil {
		var zero T
		return zero, terminal
	}
	return cast[T](v), nil
}

// RunResult behaves like RunSync but reports the outcome as a
// result.Result[T] instead of a (T, error) pair.
func RunResult[T any](ctx context.Context, rt *Runtime, e Effect[T]) result.Result[T] {
	v, err := RunSync(ctx, rt, e)
	if err != nil {
		return result.Err[T](err)
	}
	return result.Ok(v)
}

// RunPromise starts e on its own goroutine immediately and returns a channel
// that receives exactly one result.Result[T] once it completes.
func RunPromise[T any](ctx context.Context, rt *Runtime, e Effect[T]) <-chan result.Result[T] {
	out := make(chan result.Result[T], 1)
	go func() {
		out <- RunResult(ctx, rt, e)
	}()
	return out
}

// RunCallback starts e on its own goroutine and invokes cb with its
// result.Result[T] once it completes.
func RunCallback[T any](ctx context.Context, rt *Runtime, e Effect[T], cb func(result.Result[T])) {
	go func() {
		cb(RunResult(ctx, rt, e))
	}()
}

// Fork starts e on the Runtime's strategy.Strategy substrate from outside
// any already-running interpretation and returns a handle to it
// immediately, mirroring ForkEffect but as a top-level entry point.
func Fork[T any](ctx context.Context, rt *Runtime, e Effect[T]) Fiber[T] {
	childCtx, cancel := context.WithCancel(ctx)
	handle := rt.strategy.Fork(childCtx, func(ctx context.Context) (any, error) {
		k, root := rt.newRootKernel(ctx)
		v, err := k.run(e)
		root.Close(unwrapCause(err))
		return v, err
	})
	return Fiber[T]{inner: &anyFiber{handle: handle, cancel: cancel}}
}
