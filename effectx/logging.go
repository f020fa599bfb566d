// Package effectx collects effect.Extension implementations that are useful
// across applications but don't belong in the core interpreter, the way the
// teacher's extensions package (extensions/logging.go) sits alongside its
// core package.
package effectx

import (
	"fmt"
	"time"

	"github.com/efflow/effect/effect"
)

// LoggingExtension prints a line for every dispatched node and for each
// top-level run's outcome, directly grounded on the teacher's
// LoggingExtension (extensions/logging.go) — same fmt.Printf-based
// approach, generalized from "operation kind" to effect.Kind.
type LoggingExtension struct {
	effect.BaseExtension
}

// NewLoggingExtension creates a LoggingExtension.
func NewLoggingExtension() *LoggingExtension {
	return &LoggingExtension{BaseExtension: effect.BaseExtension{ExtName: "logging"}}
}

func (e *LoggingExtension) Wrap(kind effect.Kind, next func()) {
	start := time.Now()
	fmt.Printf("[%s] %s starting\n", e.Name(), kind)
	next()
	fmt.Printf("[%s] %s finished in %v\n", e.Name(), kind, time.Since(start))
}

func (e *LoggingExtension) OnRunEnd(value any, err error) {
	if err != nil {
		fmt.Printf("[%s] run failed: %v\n", e.Name(), err)
		return
	}
	fmt.Printf("[%s] run completed: %v\n", e.Name(), value)
}
