package effectx

import (
	"log/slog"

	"github.com/efflow/effect/cause"
	"github.com/efflow/effect/effect"
)

// CauseTraceExtension logs the full failure tree of a failed run through
// slog, rendered with cause.Cause.PrettyPrint — the structured-logging
// counterpart to the teacher's GraphDebugExtension (extensions/graph_debug.go),
// which logs a dependency-graph visualization through slog when a resolve
// or flow fails.
type CauseTraceExtension struct {
	effect.BaseExtension
	logger *slog.Logger
}

// NewCauseTraceExtension creates a CauseTraceExtension logging through the
// given handler (pass slog.NewJSONHandler(...) for machine-readable output,
// or slog.NewTextHandler(...) for human-readable).
func NewCauseTraceExtension(handler slog.Handler) *CauseTraceExtension {
	return &CauseTraceExtension{
		BaseExtension: effect.BaseExtension{ExtName: "cause-trace"},
		logger:        slog.New(handler),
	}
}

func (e *CauseTraceExtension) OnRunFailure(c cause.Cause) {
	e.logger.Error("effect run failed",
		slog.String("error", c.Error()),
		slog.Bool("interrupted", c.IsInterrupt()),
		slog.String("tree", c.PrettyPrint()),
	)
}
