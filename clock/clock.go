// Package clock implements the Clock abstraction from spec.md §2.3: wall
// time, monotonic time, and a cooperative sleep, with SystemClock and
// VirtualClock implementations. The VirtualClock is grounded on
// other_examples' uber-go-fx "fxclock" Mock — the waiter-list-plus-Add
// design is reused nearly verbatim, since it already solves exactly the
// "explicitly advanced time" requirement spec.md asks for.
package clock

import (
	"context"
	"time"
)

// Clock is the cooperative time source threaded through the interpreter.
// Sleep must be cancellable via ctx so the interpreter can observe
// interruption at a suspension point (spec.md §5).
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(ctx context.Context, d time.Duration) error
}

// There is no package-level default Clock; the effect runtime binds the
// active Clock in its Context under effect.ClockTag so code never observes a
// hidden singleton (spec.md §9: "global singletons... an interpreter
// instance injected by callers").
