package effect

import (
	"time"

	"github.com/efflow/effect/di"
	"github.com/efflow/effect/schedule"
	"github.com/efflow/effect/scope"
)

type sleepNode struct{ duration time.Duration }

func (sleepNode) Kind() Kind { return KindSleep }

type clockReadNode struct{}

func (clockReadNode) Kind() Kind { return KindClockRead }

type currentContextNode struct{}

func (currentContextNode) Kind() Kind { return KindCurrentContext }

type timeoutNode struct {
	source   AnyEffect
	duration time.Duration
}

func (timeoutNode) Kind() Kind { return KindTimeout }

type retryNode struct {
	source   AnyEffect
	schedule schedule.Schedule
}

func (retryNode) Kind() Kind { return KindRetry }

type raceNode struct{ effects []AnyEffect }

func (raceNode) Kind() Kind { return KindRace }

type parallelNode struct{ effects []AnyEffect }

func (parallelNode) Kind() Kind { return KindParallel }

type forkNode struct{ effect AnyEffect }

func (forkNode) Kind() Kind { return KindFork }

// serviceAccessNode resolves a Tag[T] against the kernel's current di
// Context. lookup is closed over the concrete T at the call site of
// Service[T], so the node itself stays untyped.
type serviceAccessNode struct {
	tagName string
	lookup  func(di.Context) (any, bool)
}

func (serviceAccessNode) Kind() Kind { return KindServiceAccess }

type provideContextNode struct {
	source  AnyEffect
	overlay di.Context
}

func (provideContextNode) Kind() Kind { return KindProvideContext }

type provideLayerNode struct {
	source AnyEffect
	layer  Layer
}

func (provideLayerNode) Kind() Kind { return KindProvideLayer }

type scopedNode struct {
	body func(*scope.Scope) AnyEffect
}

func (scopedNode) Kind() Kind { return KindScoped }

// acquireNode ties an acquire/release pair to the kernel's current Scope via
// scope.Acquire's atomic acquire-or-release-immediately semantics.
type acquireNode struct {
	acquire AnyEffect
	release func(any) AnyEffect
}

func (acquireNode) Kind() Kind { return KindAcquire }
