// Package strategy implements the scheduling-strategy abstraction from
// spec.md §2 item 10 and §4.6: the minimal surface binding the interpreter
// to a concrete execution substrate (synchronous, goroutine-based
// "fibers", or an explicit event loop). The interpreter starts child
// executions only through this interface and waits on time only through a
// clock.Clock; its Race/Parallel/Timeout handlers still collect child
// results over channels, and Timeout runs its helper waits on goroutines
// of its own.
//
// The goroutine+channel+select pattern used by the Fiber strategy is
// grounded on the teacher's flow.go executeFlow: it races a factory
// goroutine against ctx.Done(), recovering panics on the worker goroutine
// and reporting them back over a buffered result channel.
package strategy

import (
	"context"
	"time"
)

// ExecutionControl is a handle to a forked child execution (spec.md §6).
type ExecutionControl interface {
	// Await blocks until the child completes, returning its result or
	// error. Awaiting a cancelled child yields the cancellation error.
	Await(ctx context.Context) (any, error)
	// Cancel requests cooperative interruption of the child.
	Cancel()
	IsRunning() bool
	IsCompleted() bool
	IsCancelled() bool
}

// Strategy is the execution substrate contract. Time-based waiting is
// deliberately not part of this interface: the interpreter sleeps through
// the active clock.Clock instead (so VirtualClock-driven tests control it
// without touching the concurrency substrate at all). Concrete strategies
// may still expose their own Sleep method for standalone use; the kernel
// never calls it.
type Strategy interface {
	// Suspend parks the current task and hands resume to register; the
	// call returns once resume is invoked (by a Fork child, a callback,
	// or a timer), yielding resume's arguments or propagating its error.
	Suspend(ctx context.Context, register func(resume func(any, error))) (any, error)

	// Fork starts run concurrently (logically — see spec.md §5, no
	// thread-level preemption is assumed) and returns a handle to it.
	// run must itself observe ctx cancellation cooperatively.
	Fork(ctx context.Context, run func(ctx context.Context) (any, error)) ExecutionControl

	// Defer schedules fn to run on the substrate's next turn.
	Defer(fn func())

	// Now reports the substrate's notion of wall time (normally
	// delegated straight to the active Clock by callers).
	Now() time.Time
}
