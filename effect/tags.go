package effect

import (
	"github.com/efflow/effect/clock"
	"github.com/efflow/effect/di"
	"github.com/efflow/effect/scope"
)

// ClockTag and ScopeTag are built-in di.Tags so application code can reach
// the runtime's active clock.Clock or scope.Scope through Service(...) like
// any other dependency, instead of only through the dedicated
// SleepFor/CurrentTimeMillis/WithinScope constructs. NewRuntime binds
// ClockTag to the runtime's clock; each top-level run binds ScopeTag to that
// run's root scope. A WithinScope body receives its nested scope as its
// argument; ScopeTag is not rebound to it.
var (
	ClockTag = di.NewTag[clock.Clock]("effect.clock")
	ScopeTag = di.NewTag[*scope.Scope]("effect.scope")
)
