package effect

import (
	"context"

	"github.com/efflow/effect/strategy"
)

// anyFiber is the type-erased handle produced by the kernel's Fork
// dispatch; Fiber[T] wraps it to recover the static type at Join time,
// mirroring how every other node result flows through AnyEffect and is only
// cast back to T at the Effect[T] boundary.
type anyFiber struct {
	handle strategy.ExecutionControl
	cancel context.CancelFunc
}

// Fiber is a handle to a forked, independently-running Effect (spec.md §2
// item 3's "fork" operation). Join waits for it to complete; Interrupt
// cancels it.
type Fiber[T any] struct {
	inner *anyFiber
}

// Join waits for the fiber to complete and resolves to its result.
func (f Fiber[T]) Join() Effect[T] {
	return wrap[T](syncNode{thunk: func() (any, error) {
		v, err := f.inner.handle.Await(context.Background())
		if err != nil {
			return nil, err
		}
		return v, nil
	}})
}

// Interrupt cancels the fiber's underlying execution control.
func (f Fiber[T]) Interrupt() Effect[struct{}] {
	return Sync(func() (struct{}, error) {
		f.inner.cancel()
		f.inner.handle.Cancel()
		return struct{}{}, nil
	})
}

// IsCompleted reports whether the fiber has finished running.
func (f Fiber[T]) IsCompleted() bool { return f.inner.handle.IsCompleted() }
