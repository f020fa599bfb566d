package effect

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/efflow/effect/cause"
	"github.com/efflow/effect/di"
	"github.com/efflow/effect/scope"
	"github.com/efflow/effect/strategy"
)

func succeedAny(v any) AnyEffect      { return Effect[any]{n: successNode{value: v}} }
func failAny(c cause.Cause) AnyEffect { return Effect[any]{n: failureNode{cause: c}} }

func dispatchSync(k *kernel, n syncNode) {
	value, err := func() (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in Sync: %v\n%s", r, debug.Stack())
			}
		}()
		return n.thunk()
	}()
	if err != nil {
		k.fail(cause.Fail(err))
		return
	}
	k.succeed(value)
}

func dispatchMap(k *kernel, n mapNode) {
	k.push(frame{onSuccess: func(val any) AnyEffect { return succeedAny(n.mapper(val)) }})
	k.goTo(n.source)
}

func dispatchFlatMap(k *kernel, n flatMapNode) {
	k.push(frame{onSuccess: n.chain})
	k.goTo(n.source)
}

func dispatchCatch(k *kernel, n catchNode) {
	k.push(frame{onError: func(c cause.Cause) (AnyEffect, bool) {
		err := c.TerminalError()
		if err == nil || !n.selector(err) {
			return nil, false
		}
		return n.handler(err), true
	}})
	k.goTo(n.source)
}

func dispatchOrElse(k *kernel, n orElseNode) {
	k.push(frame{onError: func(cause.Cause) (AnyEffect, bool) {
		return n.fallback, true
	}})
	k.goTo(n.primary)
}

func dispatchEnsuring(k *kernel, n ensuringNode) {
	k.push(frame{
		onSuccess: func(val any) AnyEffect { return ensuringAfterCleanup(n.cleanup, val, nil) },
		onError: func(c cause.Cause) (AnyEffect, bool) {
			return ensuringAfterCleanup(n.cleanup, nil, &c), true
		},
	})
	k.goTo(n.source)
}

// ensuringAfterCleanup runs cleanup and then reproduces the primary outcome
// (primaryValue on success, *primaryCause on failure) — unless cleanup
// itself fails, in which case the two compose as cause.Sequential rather
// than the cleanup failure masking the primary one (spec.md §5).
func ensuringAfterCleanup(cleanup AnyEffect, primaryValue any, primaryCause *cause.Cause) AnyEffect {
	guarded := wrap[any](catchNode{
		source:   cleanup,
		selector: func(error) bool { return true },
		handler: func(cleanupErr error) AnyEffect {
			cleanupCause := cause.Fail(cleanupErr)
			if primaryCause != nil {
				return failAny(cause.Seq(*primaryCause, cleanupCause))
			}
			return failAny(cleanupCause)
		},
	})
	return wrap[any](flatMapNode{
		source: guarded,
		chain: func(any) AnyEffect {
			if primaryCause != nil {
				return failAny(*primaryCause)
			}
			return succeedAny(primaryValue)
		},
	})
}

func dispatchSleep(k *kernel, n sleepNode) {
	if err := k.clock.Sleep(k.hostCtx, n.duration); err != nil {
		k.fail(cause.Interrupt())
		return
	}
	k.succeed(struct{}{})
}

// dispatchTimeout races n.source against a timer. Under a substrate with no
// true concurrency (strategy.Synchronous), Fork already runs source to
// completion before returning — there is no timer goroutine left to race
// against — so this degrades to the documented fallback of measuring
// elapsed wall time after the fact and failing if it exceeded duration
// (spec.md §4.2/§5). A Fork that returns with its handle already completed
// is the generic signal for that degraded substrate; strategy.Fiber and
// strategy.EventLoop both run Fork asynchronously, so they always reach the
// real race below.
func dispatchTimeout(k *kernel, n timeoutNode) {
	start := k.clock.Now()
	childCtx, cancel := context.WithCancel(k.hostCtx)
	defer cancel()

	handle := k.strategy.Fork(childCtx, func(ctx context.Context) (any, error) {
		child := k.child(ctx)
		return child.run(n.source)
	})

	if handle.IsCompleted() {
		v, err := handle.Await(childCtx)
		if err != nil {
			k.fail(unwrapCause(err))
			return
		}
		if k.clock.Since(start) > n.duration {
			k.fail(cause.Fail(cause.ErrTimeout))
			return
		}
		k.succeed(v)
		return
	}

	type outcome struct {
		value    any
		err      error
		timedOut bool
	}
	results := make(chan outcome, 2)

	go func() {
		v, err := handle.Await(childCtx)
		results <- outcome{value: v, err: err}
	}()
	go func() {
		if err := k.clock.Sleep(childCtx, n.duration); err == nil {
			results <- outcome{timedOut: true}
		}
	}()

	o := <-results
	cancel()
	handle.Cancel()
	if o.timedOut {
		k.fail(cause.Fail(cause.ErrTimeout))
		return
	}
	if o.err != nil {
		k.fail(unwrapCause(o.err))
		return
	}
	k.succeed(o.value)
}

func dispatchRetry(k *kernel, n retryNode) {
	start := k.clock.Now()
	attempt := 0
	for {
		child := k.child(k.hostCtx)
		v, err := child.run(n.source)
		if err == nil {
			k.succeed(v)
			return
		}
		elapsed := k.clock.Since(start)
		delay, ok := n.schedule(attempt, elapsed)
		if !ok {
			k.fail(unwrapCause(err))
			return
		}
		if sleepErr := k.clock.Sleep(k.hostCtx, delay); sleepErr != nil {
			k.fail(cause.Interrupt())
			return
		}
		attempt++
	}
}

func dispatchRace(k *kernel, n raceNode) {
	type outcome struct {
		value any
		err   error
	}
	results := make(chan outcome, len(n.effects))
	childCtx, cancel := context.WithCancel(k.hostCtx)
	handles := make([]strategy.ExecutionControl, 0, len(n.effects))

	for _, eff := range n.effects {
		eff := eff
		h := k.strategy.Fork(childCtx, func(ctx context.Context) (any, error) {
			child := k.child(ctx)
			v, err := child.run(eff)
			select {
			case results <- outcome{v, err}:
			default:
			}
			return v, err
		})
		handles = append(handles, h)
	}

	select {
	case o := <-results:
		cancel()
		for _, h := range handles {
			h.Cancel()
		}
		if o.err != nil {
			k.fail(unwrapCause(o.err))
			return
		}
		k.succeed(o.value)
	case <-k.hostCtx.Done():
		cancel()
		k.fail(cause.Interrupt())
	}
}

func dispatchParallel(k *kernel, n parallelNode) {
	type outcome struct {
		idx   int
		value any
		err   error
	}
	results := make(chan outcome, len(n.effects))
	childCtx, cancel := context.WithCancel(k.hostCtx)
	defer cancel()

	for i, eff := range n.effects {
		i, eff := i, eff
		k.strategy.Fork(childCtx, func(ctx context.Context) (any, error) {
			child := k.child(ctx)
			v, err := child.run(eff)
			results <- outcome{idx: i, value: v, err: err}
			return v, err
		})
	}

	values := make([]any, len(n.effects))
	var causes []cause.Cause
	for range n.effects {
		o := <-results
		if o.err != nil {
			cancel()
			causes = append(causes, unwrapCause(o.err))
			continue
		}
		values[o.idx] = o.value
	}

	if len(causes) > 0 {
		k.fail(cause.Par(causes...))
		return
	}
	k.succeed(values)
}

func dispatchFork(k *kernel, n forkNode) {
	childCtx, cancel := context.WithCancel(k.hostCtx)
	handle := k.strategy.Fork(childCtx, func(ctx context.Context) (any, error) {
		child := k.child(ctx)
		return child.run(n.effect)
	})
	k.succeed(&anyFiber{handle: handle, cancel: cancel})
}

func dispatchServiceAccess(k *kernel, n serviceAccessNode) {
	v, ok := n.lookup(k.env)
	if !ok {
		k.fail(cause.Fail(fmt.Errorf("%w: %s", cause.ErrServiceNotFound, n.tagName)))
		return
	}
	k.succeed(v)
}

func dispatchProvideContext(k *kernel, n provideContextNode) {
	prev := k.env
	k.env = di.Merge(k.env, n.overlay)
	k.push(frame{
		onSuccess: func(val any) AnyEffect {
			k.env = prev
			return succeedAny(val)
		},
		onError: func(c cause.Cause) (AnyEffect, bool) {
			k.env = prev
			return failAny(c), true
		},
	})
	k.goTo(n.source)
}

func dispatchProvideLayer(k *kernel, n provideLayerNode) {
	k.goTo(wrap[any](flatMapNode{
		source: n.layer.build,
		chain: func(ctxVal any) AnyEffect {
			built := ctxVal.(di.Context)
			return wrap[any](provideContextNode{source: n.source, overlay: built})
		},
	}))
}

func dispatchAcquire(k *kernel, n acquireNode) {
	value, err := scope.Acquire(k.scope,
		func() (any, error) {
			child := k.child(k.hostCtx)
			return child.run(n.acquire)
		},
		func(v any) error {
			child := k.child(k.hostCtx)
			_, err := child.run(n.release(v))
			return err
		},
	)
	if err != nil {
		k.fail(unwrapCause(err))
		return
	}
	k.succeed(value)
}

func dispatchScoped(k *kernel, n scopedNode) {
	child := scope.New()
	prevScope := k.scope
	k.scope = child
	body := n.body(child)
	k.push(frame{
		onSuccess: func(val any) AnyEffect {
			k.scope = prevScope
			closed := child.Close(cause.Cause{})
			if closed.TerminalError() != nil {
				return failAny(closed)
			}
			return succeedAny(val)
		},
		onError: func(c cause.Cause) (AnyEffect, bool) {
			k.scope = prevScope
			return failAny(child.Close(c)), true
		},
	})
	k.goTo(body)
}
