package strategy

import (
	"context"
	"time"
)

// Synchronous is the no-true-concurrency substrate: Sleep blocks the
// calling goroutine, and Fork runs its child to completion immediately
// before returning a handle already in its terminal state. This is the
// substrate spec.md §4.2/§5 describes as unable to truly race a Timeout
// against its source — races there fall back to the documented degraded
// mode of measuring elapsed time after the fact.
type Synchronous struct{}

var _ Strategy = Synchronous{}

func (Synchronous) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Suspend on the synchronous strategy runs register inline with a resume
// closure that blocks the caller until invoked — there is no other task to
// yield to, so this still has to block on a channel, but it never spawns a
// goroutine of its own; register is expected to arrange for resume to be
// called from whatever already-running code can call it back
// synchronously or from a timer elsewhere.
func (Synchronous) Suspend(ctx context.Context, register func(resume func(any, error))) (any, error) {
	type outcome struct {
		val any
		err error
	}
	done := make(chan outcome, 1)
	register(func(v any, err error) {
		done <- outcome{v, err}
	})
	select {
	case o := <-done:
		return o.val, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Fork runs the child to completion synchronously before returning; the
// handle it returns already reports Completed (or Cancelled if ctx was
// already done).
func (Synchronous) Fork(ctx context.Context, run func(ctx context.Context) (any, error)) ExecutionControl {
	h := &syncHandle{}
	select {
	case <-ctx.Done():
		h.cancelled = true
		h.completed = true
		h.err = ctx.Err()
		return h
	default:
	}
	h.value, h.err = run(ctx)
	h.completed = true
	return h
}

func (Synchronous) Defer(fn func()) { fn() }

func (Synchronous) Now() time.Time { return time.Now() }

type syncHandle struct {
	value     any
	err       error
	completed bool
	cancelled bool
}

func (h *syncHandle) Await(ctx context.Context) (any, error) { return h.value, h.err }
func (h *syncHandle) Cancel()                                {}
func (h *syncHandle) IsRunning() bool                        { return false }
func (h *syncHandle) IsCompleted() bool                      { return h.completed }
func (h *syncHandle) IsCancelled() bool                      { return h.cancelled }
