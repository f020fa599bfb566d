// Package effect implements the effect algebra, interpreter, handler
// registry, and runtime facade from spec.md §3, §4.1–§4.2 and §6. An
// Effect[T] is an immutable description of a computation; running it is a
// separate, repeatable act performed by the trampoline in kernel.go.
//
// Effect trees are heterogeneous in T at every node (a FlatMap's source may
// produce an int while its continuation produces a string), so internally
// every node is type-erased to AnyEffect/node, exactly the way the teacher's
// root package erases Executor[T] behind AnyExecutor (scope.go's
// `dep.GetExecutor().ResolveAny(s)` then asserts back to T). Effect[T]
// itself is the single point where the erased result is cast back to T.
package effect

import (
	"github.com/efflow/effect/cause"
)

// Kind identifies which effect variant a node represents (spec.md §3).
type Kind int

const (
	KindSuccess Kind = iota
	KindFailure
	KindSync
	KindSuspend
	KindMap
	KindFlatMap
	KindCatch
	KindOrElse
	KindEnsuring
	KindTimeout
	KindRetry
	KindSleep
	KindRace
	KindParallel
	KindFork
	KindServiceAccess
	KindProvideContext
	KindProvideLayer
	KindScoped
	KindNever
	KindClockRead
	KindCurrentContext
	KindAcquire
)

// node is the type-erased internal representation of one effect tree node.
type node interface {
	Kind() Kind
}

// AnyEffect is the type-erased view of an Effect[T] used internally by
// combinators and the interpreter to hold heterogeneous children.
type AnyEffect interface {
	effectNode() node
}

// Effect is an immutable description of a computation yielding a T.
type Effect[T any] struct {
	n node
}

func (e Effect[T]) effectNode() node { return e.n }

func wrap[T any](n node) Effect[T] { return Effect[T]{n: n} }

// cast converts an erased result produced by the interpreter back to T. nil
// is accepted for any T and yields T's zero value.
func cast[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// --- node variants -----------------------------------------------------

type successNode struct{ value any }

func (successNode) Kind() Kind { return KindSuccess }

type failureNode struct{ cause cause.Cause }

func (failureNode) Kind() Kind { return KindFailure }

type syncNode struct{ thunk func() (any, error) }

func (syncNode) Kind() Kind { return KindSync }

type suspendNode struct{ thunk func() AnyEffect }

func (suspendNode) Kind() Kind { return KindSuspend }

type mapNode struct {
	source AnyEffect
	mapper func(any) any
}

func (mapNode) Kind() Kind { return KindMap }

type flatMapNode struct {
	source AnyEffect
	chain  func(any) AnyEffect
}

func (flatMapNode) Kind() Kind { return KindFlatMap }

// Selector decides whether Catch should handle a given terminal error.
type Selector func(err error) bool

type catchNode struct {
	source   AnyEffect
	selector Selector
	handler  func(error) AnyEffect
}

func (catchNode) Kind() Kind { return KindCatch }

type orElseNode struct {
	primary  AnyEffect
	fallback AnyEffect
}

func (orElseNode) Kind() Kind { return KindOrElse }

type ensuringNode struct {
	source  AnyEffect
	cleanup AnyEffect
}

func (ensuringNode) Kind() Kind { return KindEnsuring }

type neverNode struct{}

func (neverNode) Kind() Kind { return KindNever }
