package effect

import (
	"time"

	"github.com/efflow/effect/cause"
	"github.com/efflow/effect/di"
)

// Succeed lifts a pure value into an already-successful Effect (spec.md §6).
func Succeed[T any](value T) Effect[T] {
	return wrap[T](successNode{value: value})
}

// Fail lifts an error into an already-failed Effect.
func Fail[T any](err error) Effect[T] {
	return wrap[T](failureNode{cause: cause.Fail(err)})
}

// FailCause lifts a prebuilt Cause (e.g. one assembled via cause.Seq or
// cause.Par) into a failed Effect.
func FailCause[T any](c cause.Cause) Effect[T] {
	return wrap[T](failureNode{cause: c})
}

// Sync wraps a side-effecting thunk that returns (T, error); it is not run
// until the Effect is interpreted.
func Sync[T any](thunk func() (T, error)) Effect[T] {
	return wrap[T](syncNode{thunk: func() (any, error) {
		v, err := thunk()
		return v, err
	}})
}

// Suspend defers construction of the next Effect until interpretation
// reaches this node, letting the thunk branch on state only visible at run
// time.
func Suspend[T any](thunk func() Effect[T]) Effect[T] {
	return wrap[T](suspendNode{thunk: func() AnyEffect { return thunk() }})
}

// Never is an Effect that never completes; the only way out is external
// cancellation of the host context.
func Never[T any]() Effect[T] {
	return wrap[T](neverNode{})
}

// SleepFor suspends for d, resolved against whichever clock.Clock and
// strategy.Strategy the kernel running this Effect was configured with.
func SleepFor(d time.Duration) Effect[struct{}] {
	return wrap[struct{}](sleepNode{duration: d})
}

// CurrentTimeMillis reads whichever clock.Clock the kernel running this
// Effect was configured with (registry.go binds this to clock.Clock.Now).
func CurrentTimeMillis() Effect[int64] {
	return wrap[int64](clockReadNode{})
}

// Service resolves tag against the kernel's current di.Context, failing with
// cause.ErrServiceNotFound if unbound.
func Service[T any](tag di.Tag[T]) Effect[T] {
	return wrap[T](serviceAccessNode{
		tagName: tag.Name(),
		lookup: func(c di.Context) (any, bool) {
			v, ok := di.Lookup(c, tag)
			return v, ok
		},
	})
}

// CurrentContext reads the kernel's whole current di.Context, used by
// LayerFromFactory to let a Layer depend on bindings contributed by Layers
// composed before it via AndThen.
func CurrentContext() Effect[di.Context] {
	return wrap[di.Context](currentContextNode{})
}
