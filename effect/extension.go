package effect

import "github.com/efflow/effect/cause"

// Extension provides hooks into the interpreter's lifecycle, mirroring the
// teacher's own Extension interface (extension.go) but scaled down to the
// effect algebra's vocabulary: instead of resolve/update operations, hooks
// fire around each dispatched node and around a whole top-level run.
type Extension interface {
	// Name identifies the extension, used only for diagnostics.
	Name() string

	// Order determines execution order when multiple extensions are
	// registered (lower runs outermost).
	Order() int

	// Wrap intercepts a single node's dispatch; call next to proceed.
	Wrap(kind Kind, next func())

	// OnRunEnd fires once after a top-level Run* completes, successfully or
	// not.
	OnRunEnd(value any, err error)

	// OnRunFailure fires with the full Cause tree when a top-level Run*
	// fails, giving extensions access to the structured failure (e.g. to
	// render it with cause.Cause.PrettyPrint) rather than just its
	// flattened error.
	OnRunFailure(c cause.Cause)
}

// BaseExtension supplies no-op defaults so concrete extensions only
// override the hooks they care about, exactly like the teacher's
// BaseExtension.
type BaseExtension struct {
	ExtName string
}

func (b BaseExtension) Name() string           { return b.ExtName }
func (b BaseExtension) Order() int             { return 100 }
func (b BaseExtension) Wrap(Kind, func())      {}
func (b BaseExtension) OnRunEnd(any, error)    {}
func (b BaseExtension) OnRunFailure(cause.Cause) {}

// String renders a Kind as its handler name, used by extensions for
// diagnostics.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "Success"
	case KindFailure:
		return "Failure"
	case KindSync:
		return "Sync"
	case KindSuspend:
		return "Suspend"
	case KindMap:
		return "Map"
	case KindFlatMap:
		return "FlatMap"
	case KindCatch:
		return "Catch"
	case KindOrElse:
		return "OrElse"
	case KindEnsuring:
		return "Ensuring"
	case KindTimeout:
		return "Timeout"
	case KindRetry:
		return "Retry"
	case KindSleep:
		return "Sleep"
	case KindRace:
		return "Race"
	case KindParallel:
		return "Parallel"
	case KindFork:
		return "Fork"
	case KindServiceAccess:
		return "ServiceAccess"
	case KindProvideContext:
		return "ProvideContext"
	case KindProvideLayer:
		return "ProvideLayer"
	case KindScoped:
		return "Scoped"
	case KindNever:
		return "Never"
	case KindClockRead:
		return "ClockRead"
	case KindCurrentContext:
		return "CurrentContext"
	case KindAcquire:
		return "Acquire"
	default:
		return "Unknown"
	}
}
