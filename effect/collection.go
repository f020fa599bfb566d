package effect

import (
	"github.com/efflow/effect/internal/either"
	"github.com/efflow/effect/internal/option"
)

// AllInParallel runs every effect in effects concurrently and collects their
// results in input order. If any fail, the rest are cancelled and the
// failures compose as cause.Parallel.
//
// The interpreter's Parallel node always yields a type-erased []any (it
// holds heterogeneous children in general); Map recovers the static element
// type at this boundary rather than asserting the whole slice to []T, which
// would panic.
func AllInParallel[T any](effects []Effect[T]) Effect[[]T] {
	erased := make([]AnyEffect, len(effects))
	for i, e := range effects {
		erased[i] = e
	}
	raw := wrap[[]any](parallelNode{effects: erased})
	return Map(raw, func(vs []any) []T {
		out := make([]T, len(vs))
		for i, v := range vs {
			out[i] = cast[T](v)
		}
		return out
	})
}

// RaceAll runs every effect in effects concurrently and resolves to
// whichever finishes first; the rest are cancelled.
func RaceAll[T any](effects []Effect[T]) Effect[T] {
	erased := make([]AnyEffect, len(effects))
	for i, e := range effects {
		erased[i] = e
	}
	return wrap[T](raceNode{effects: erased})
}

// When runs then if cond holds, otherwise short-circuits with T's zero value
// as a success — a skipped When must not fail the enclosing computation,
// the same no-op-success semantics WhenSucceeds uses.
func When[T any](cond bool, then func() Effect[T]) Effect[T] {
	if cond {
		return then()
	}
	var zero T
	return Succeed(zero)
}

// FromOption lifts an internal/option.Option into an Effect, failing with
// onNone if the option is empty.
func FromOption[T any](o option.Option[T], onNone error) Effect[T] {
	if v, ok := o.Get(); ok {
		return Succeed(v)
	}
	return Fail[T](onNone)
}

// FromEither lifts an internal/either.Either into an Effect, treating Left
// as failure and Right as success.
func FromEither[L error, R any](e either.Either[L, R]) Effect[R] {
	if v, ok := e.Right(); ok {
		return Succeed(v)
	}
	l, _ := e.Left()
	return Fail[R](l)
}
