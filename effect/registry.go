package effect

import (
	"fmt"
	"sync"

	"github.com/efflow/effect/cause"
)

// handlerFunc is the shape every node Kind's interpreter entry takes: given
// the kernel and the concrete (already Kind-matched) node, advance the
// kernel by exactly one step.
type handlerFunc func(k *kernel, n node)

// registry maps each Kind to its handlerFunc (spec.md §4.2's "one handler
// per effect variant"). It is a sync.Map rather than a plain map protected
// by a mutex because it is populated once at init and read from every
// kernel on every goroutine thereafter — the concurrent-map-safety the
// teacher reaches for with sync.Map in its own dependency graph caches.
var registry sync.Map // Kind -> handlerFunc

func register(kind Kind, h handlerFunc) { registry.Store(kind, h) }

func init() {
	register(KindSuccess, func(k *kernel, n node) { k.succeed(n.(successNode).value) })
	register(KindFailure, func(k *kernel, n node) { k.fail(n.(failureNode).cause) })
	register(KindClockRead, func(k *kernel, n node) { k.succeed(k.clock.Now().UnixMilli()) })
	register(KindCurrentContext, func(k *kernel, n node) { k.succeed(k.env) })
	register(KindSync, func(k *kernel, n node) { dispatchSync(k, n.(syncNode)) })
	register(KindSuspend, func(k *kernel, n node) { k.goTo(n.(suspendNode).thunk()) })
	register(KindNever, func(k *kernel, n node) {
		<-k.hostCtx.Done()
		k.fail(cause.Interrupt())
	})
	register(KindMap, func(k *kernel, n node) { dispatchMap(k, n.(mapNode)) })
	register(KindFlatMap, func(k *kernel, n node) { dispatchFlatMap(k, n.(flatMapNode)) })
	register(KindCatch, func(k *kernel, n node) { dispatchCatch(k, n.(catchNode)) })
	register(KindOrElse, func(k *kernel, n node) { dispatchOrElse(k, n.(orElseNode)) })
	register(KindEnsuring, func(k *kernel, n node) { dispatchEnsuring(k, n.(ensuringNode)) })
	register(KindSleep, func(k *kernel, n node) { dispatchSleep(k, n.(sleepNode)) })
	register(KindTimeout, func(k *kernel, n node) { dispatchTimeout(k, n.(timeoutNode)) })
	register(KindRetry, func(k *kernel, n node) { dispatchRetry(k, n.(retryNode)) })
	register(KindRace, func(k *kernel, n node) { dispatchRace(k, n.(raceNode)) })
	register(KindParallel, func(k *kernel, n node) { dispatchParallel(k, n.(parallelNode)) })
	register(KindFork, func(k *kernel, n node) { dispatchFork(k, n.(forkNode)) })
	register(KindServiceAccess, func(k *kernel, n node) { dispatchServiceAccess(k, n.(serviceAccessNode)) })
	register(KindProvideContext, func(k *kernel, n node) { dispatchProvideContext(k, n.(provideContextNode)) })
	register(KindProvideLayer, func(k *kernel, n node) { dispatchProvideLayer(k, n.(provideLayerNode)) })
	register(KindScoped, func(k *kernel, n node) { dispatchScoped(k, n.(scopedNode)) })
	register(KindAcquire, func(k *kernel, n node) { dispatchAcquire(k, n.(acquireNode)) })
}

// dispatch advances the kernel by one node, looking up the node's Kind in
// the handler registry (spec.md §4.2) and running it through any
// registered Extensions, outermost first.
func dispatch(k *kernel, n node) {
	h, ok := registry.Load(n.Kind())
	if !ok {
		k.fail(cause.Fail(fmt.Errorf("effect: unhandled node kind %v", n.Kind())))
		return
	}
	kind := n.Kind()
	run := func() { h.(handlerFunc)(k, n) }
	for i := len(k.exts) - 1; i >= 0; i-- {
		ext := k.exts[i]
		inner := run
		run = func() { ext.Wrap(kind, inner) }
	}
	run()
}
