package effect

import (
	"github.com/efflow/effect/di"
)

// Layer is a recipe for constructing a di.Context, composable horizontally
// (CombineWith) or sequentially (AndThen) before being provided to an
// Effect (spec.md §2 item 6, §4.4). It deliberately lives in the effect
// package rather than di: its build step is itself an Effect, and di must
// not import effect (see SPEC_FULL.md's import-cycle note).
type Layer struct {
	build Effect[di.Context]
}

// LayerFromValue builds a Layer that always binds tag to value.
func LayerFromValue[T any](tag di.Tag[T], value T) Layer {
	return Layer{build: Succeed(di.Bind(di.Empty, tag, value))}
}

// LayerFromEffect builds a Layer whose bound value is produced by running
// an Effect (e.g. opening a connection) at construction time.
func LayerFromEffect[T any](tag di.Tag[T], build Effect[T]) Layer {
	return Layer{build: Map(build, func(v T) di.Context {
		return di.Bind(di.Empty, tag, v)
	})}
}

// LayerFromFactory builds a Layer whose construction depends on services
// bound by Layers composed before it via AndThen: factory receives the
// whole Context visible at build time, including anything the upstream
// Layer already bound.
func LayerFromFactory[T any](tag di.Tag[T], factory func(di.Context) Effect[T]) Layer {
	return Layer{build: FlatMap(CurrentContext(), func(env di.Context) Effect[di.Context] {
		return Map(factory(env), func(v T) di.Context {
			return di.Bind(di.Empty, tag, v)
		})
	})}
}

// CombineWith merges two Layers horizontally: both are built concurrently
// and their Contexts merged (right-biased, other's bindings win on
// conflict).
func (l Layer) CombineWith(other Layer) Layer {
	return Layer{build: ZipWithPar(l.build, other.build, func(a, b di.Context) di.Context {
		return di.Merge(a, b)
	})}
}

// AndThen builds l first, then builds next with l's Context visible to it
// (via ProvidedWith), merging both into the final Context so later Layers
// can depend on earlier ones (spec.md §4.4's sequential composition).
func (l Layer) AndThen(next Layer) Layer {
	return Layer{build: FlatMap(l.build, func(upstream di.Context) Effect[di.Context] {
		return Map(ProvidedWith(next.build, upstream), func(downstream di.Context) di.Context {
			return di.Merge(upstream, downstream)
		})
	})}
}

// ProvideTo builds l and provides its Context to e.
func ProvideTo[T any](e Effect[T], l Layer) Effect[T] {
	return ProvidedByLayer(e, l)
}
