package effect

import (
	"time"

	"github.com/efflow/effect/di"
	"github.com/efflow/effect/schedule"
	"github.com/efflow/effect/scope"
)

// Map transforms a successful result, leaving failures untouched.
func Map[T, U any](e Effect[T], f func(T) U) Effect[U] {
	return wrap[U](mapNode{
		source: e,
		mapper: func(v any) any { return f(cast[T](v)) },
	})
}

// FlatMap sequences e into a continuation that produces the next Effect,
// the core monadic bind of the algebra (spec.md §3).
func FlatMap[T, U any](e Effect[T], f func(T) Effect[U]) Effect[U] {
	return wrap[U](flatMapNode{
		source: e,
		chain:  func(v any) AnyEffect { return f(cast[T](v)) },
	})
}

// Then sequences e1 then e2, discarding e1's result.
func Then[T, U any](e1 Effect[T], e2 Effect[U]) Effect[U] {
	return FlatMap(e1, func(T) Effect[U] { return e2 })
}

// CatchError recovers from a failure whose terminal error matches selector,
// replacing it with the Effect handler produces. Non-matching failures
// continue propagating past this frame untouched.
func CatchError[T any](e Effect[T], selector Selector, handler func(error) Effect[T]) Effect[T] {
	return wrap[T](catchNode{
		source:   e,
		selector: selector,
		handler:  func(err error) AnyEffect { return handler(err) },
	})
}

// OrElse is CatchError with a selector that always matches.
func OrElse[T any](e Effect[T], fallback Effect[T]) Effect[T] {
	return wrap[T](orElseNode{primary: e, fallback: fallback})
}

// Ensuring runs cleanup after e completes, whether e succeeded or failed. A
// cleanup failure composes as cause.Sequential alongside e's outcome rather
// than masking it (spec.md §5's resource-safety invariant).
func Ensuring[T any](e Effect[T], cleanup Effect[struct{}]) Effect[T] {
	return wrap[T](ensuringNode{source: e, cleanup: cleanup})
}

// TimeoutAfter races e against a timer; on expiry the Effect fails with
// cause.ErrTimeout. Under strategy.Synchronous this degrades to measuring
// elapsed time after e already ran to completion (spec.md §4.2/§5).
func TimeoutAfter[T any](e Effect[T], d time.Duration) Effect[T] {
	return wrap[T](timeoutNode{source: e, duration: d})
}

// RetryWith re-runs e on failure according to sch until sch reports no
// further attempt, surfacing the final failure if the schedule is
// exhausted.
func RetryWith[T any](e Effect[T], sch schedule.Schedule) Effect[T] {
	return wrap[T](retryNode{source: e, schedule: sch})
}

// Tap runs f for its side effect on success, preserving the original value.
func Tap[T any](e Effect[T], f func(T) Effect[struct{}]) Effect[T] {
	return FlatMap(e, func(v T) Effect[T] {
		return Then(f(v), Succeed(v))
	})
}

// WhenSucceeds runs then only if cond holds, otherwise short-circuits with
// the zero value of U.
func WhenSucceeds[T, U any](cond bool, then func() Effect[U]) Effect[U] {
	if cond {
		return then()
	}
	var zero U
	return Succeed(zero)
}

// ProvidedWith overlays ctx onto the di.Context visible while running e,
// restoring the previous Context once e (and any nested provide) completes.
func ProvidedWith[T any](e Effect[T], ctx di.Context) Effect[T] {
	return wrap[T](provideContextNode{source: e, overlay: ctx})
}

// ProvidedByLayer builds layer into a Context and provides it to e.
func ProvidedByLayer[T any](e Effect[T], layer Layer) Effect[T] {
	return wrap[T](provideLayerNode{source: e, layer: layer})
}

// WithinScope runs body with a fresh scope.Scope that is closed (running its
// finalizers LIFO) once body completes, whether it succeeded or failed.
func WithinScope[T any](body func(*scope.Scope) Effect[T]) Effect[T] {
	return wrap[T](scopedNode{body: func(s *scope.Scope) AnyEffect { return body(s) }})
}

// AcquireResource runs acquire, and once it succeeds registers release as a
// finalizer on the kernel's current Scope (typically established by an
// enclosing WithinScope). If the Scope is already closed, release runs
// immediately instead of being deferred — scope.Acquire's atomic
// acquire-or-release-immediately guarantee (spec.md §5).
func AcquireResource[T any](acquire Effect[T], release func(T) Effect[struct{}]) Effect[T] {
	return wrap[T](acquireNode{
		acquire: acquire,
		release: func(v any) AnyEffect { return release(cast[T](v)) },
	})
}

// ZipWithPar runs e1 and e2 concurrently (subject to the kernel's
// strategy.Strategy) and combines both results with f once both succeed. If
// either fails, the other is cancelled and the failures compose as
// cause.Parallel.
func ZipWithPar[A, B, C any](e1 Effect[A], e2 Effect[B], f func(A, B) C) Effect[C] {
	return Map(parallelPair[A, B](e1, e2), func(p pair[A, B]) C {
		return f(p.a, p.b)
	})
}

type pair[A, B any] struct {
	a A
	b B
}

// parallelPair runs e1 and e2 via the same Parallel node dispatchParallel
// handles, then reduces its type-erased []any result to a typed pair at
// this boundary — the node itself has no notion of A or B.
func parallelPair[A, B any](e1 Effect[A], e2 Effect[B]) Effect[pair[A, B]] {
	raw := wrap[[]any](parallelNode{effects: []AnyEffect{e1, e2}})
	return Map(raw, func(vs []any) pair[A, B] {
		return pair[A, B]{a: cast[A](vs[0]), b: cast[B](vs[1])}
	})
}

// RaceWith runs e1 and e2 concurrently and resolves to whichever finishes
// first (success or failure); the loser is cancelled.
func RaceWith[T any](e1, e2 Effect[T]) Effect[T] {
	return wrap[T](raceNode{effects: []AnyEffect{e1, e2}})
}

// ForkEffect starts e on a separate strategy.ExecutionControl and returns a
// Fiber[T] handle immediately without waiting for it to complete.
func ForkEffect[T any](e Effect[T]) Effect[Fiber[T]] {
	return Map(wrap[*anyFiber](forkNode{effect: e}), func(h *anyFiber) Fiber[T] {
		return Fiber[T]{inner: h}
	})
}
