package effect

import (
	"context"

	"github.com/efflow/effect/cause"
	"github.com/efflow/effect/clock"
	"github.com/efflow/effect/di"
	"github.com/efflow/effect/scope"
	"github.com/efflow/effect/strategy"
)

// successFrame runs when the interpreter is carrying a successful value
// past this point in the continuation stack. A nil successFrame is
// transparent to success: the frame is simply discarded and the search for
// the next handler continues (this is how Catch/OrElse behave on success).
type successFrame func(value any) AnyEffect

// errorFrame runs when the interpreter is carrying a failure past this
// point. It reports whether it claims the failure (handled=true, in which
// case the returned Effect becomes the new current node) or lets it keep
// propagating to the next frame below (handled=false).
type errorFrame func(c cause.Cause) (next AnyEffect, handled bool)

type frame struct {
	onSuccess successFrame
	onError   errorFrame
}

type mode int

const (
	modeDispatch mode = iota
	modeSuccess
	modeFailure
)

// kernel holds all per-run interpreter state: the continuation stack, the
// current di.Context and scope.Scope visible to Service/WithinScope nodes,
// the clock.Clock used for Sleep/Retry/Timeout waits, and the
// strategy.Strategy substrate used to Fork children (Fork/Race/Parallel/
// Timeout).
// kernel.go's trampoline is the direct generalization of the teacher's
// stack-safe iterative traversal in graph.go's FindDependents: an explicit
// stack replaces host-stack recursion so effect trees of arbitrary depth
// never grow the goroutine's call stack.
type kernel struct {
	hostCtx  context.Context
	clock    clock.Clock
	strategy strategy.Strategy
	env      di.Context
	scope    *scope.Scope
	exts     []Extension

	stack   []frame
	current AnyEffect
	mode    mode
	value   any
	cause   cause.Cause
}

func newKernel(hostCtx context.Context, cl clock.Clock, strat strategy.Strategy, env di.Context, sc *scope.Scope) *kernel {
	return &kernel{hostCtx: hostCtx, clock: cl, strategy: strat, env: env, scope: sc}
}

// child builds a fresh kernel for interpreting a nested Effect (under
// Timeout, Retry, Race, Parallel, Fork or Acquire) on ctx, inheriting this
// kernel's clock, strategy, current Context, current Scope and extensions.
func (k *kernel) child(ctx context.Context) *kernel {
	c := newKernel(ctx, k.clock, k.strategy, k.env, k.scope)
	c.exts = k.exts
	return c
}

func (k *kernel) push(f frame) { k.stack = append(k.stack, f) }

func (k *kernel) pop() (frame, bool) {
	n := len(k.stack)
	if n == 0 {
		return frame{}, false
	}
	f := k.stack[n-1]
	k.stack = k.stack[:n-1]
	return f, true
}

func (k *kernel) succeed(v any) {
	k.value = v
	k.mode = modeSuccess
}

func (k *kernel) fail(c cause.Cause) {
	k.cause = c
	k.mode = modeFailure
}

func (k *kernel) goTo(next AnyEffect) {
	k.current = next
	k.mode = modeDispatch
}

// causeError carries a full Cause tree through Go's (any, error) idiom (the
// shape strategy.Strategy.Fork's run callback requires) without collapsing
// it to a string first; unwrapCause recovers the tree on the other end.
type causeError struct{ c cause.Cause }

func (e *causeError) Error() string { return e.c.Error() }
func (e *causeError) Unwrap() error { return e.c.Unwrap() }

func wrapCause(c cause.Cause) error {
	if c.Kind() == cause.KindFail && c.TerminalError() == nil {
		return nil
	}
	return &causeError{c: c}
}

func unwrapCause(err error) cause.Cause {
	if err == nil {
		return cause.Cause{}
	}
	if ce, ok := err.(*causeError); ok {
		return ce.c
	}
	return cause.Fail(err)
}

// run drains the trampoline until the continuation stack is exhausted in
// either direction, returning the terminal value or a wrapped Cause
// (spec.md §4.1). Callers that need the structured Cause back (rather than
// a flattened error) should pass the returned error to unwrapCause.
func (k *kernel) run(root AnyEffect) (any, error) {
	k.goTo(root)
	for {
		select {
		case <-k.hostCtx.Done():
			return nil, wrapCause(cause.Interrupt())
		default:
		}

		switch k.mode {
		case modeDispatch:
			dispatch(k, k.current.effectNode())
		case modeSuccess:
			if done, v, _ := k.advanceSuccess(); done {
				return v, nil
			}
		case modeFailure:
			if done, _, c := k.advanceFailure(); done {
				return nil, wrapCause(c)
			}
		}
	}
}

// advanceSuccess pops frames until one claims the success value (producing
// the next node to dispatch) or the stack empties, in which case the run is
// complete.
func (k *kernel) advanceSuccess() (done bool, value any, _ cause.Cause) {
	for {
		f, ok := k.pop()
		if !ok {
			return true, k.value, cause.Cause{}
		}
		if f.onSuccess != nil {
			k.goTo(f.onSuccess(k.value))
			return false, nil, cause.Cause{}
		}
	}
}

// advanceFailure pops frames until one claims the failure or the stack
// empties, in which case the run terminates with that Cause.
func (k *kernel) advanceFailure() (done bool, _ any, c cause.Cause) {
	for {
		f, ok := k.pop()
		if !ok {
			return true, nil, k.cause
		}
		if f.onError != nil {
			if next, handled := f.onError(k.cause); handled {
				k.goTo(next)
				return false, nil, cause.Cause{}
			}
		}
	}
}
