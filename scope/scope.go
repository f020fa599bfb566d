// Package scope implements the Scope/Finalizer model from spec.md §2 item 9
// and §4.5: a dynamic bag of finalizers closed in LIFO order. The locking
// and ordered-cleanup shape is grounded in the teacher's scope.go
// (cleanupRegistry/runCleanups, closed LIFO on Dispose) and errors.go's
// stack-capturing error wrapper, adapted here so a finalizer failure never
// masks the primary outcome — it composes as a cause.Seq instead, per
// spec.md §4.5.
package scope

import (
	"sync"

	"github.com/efflow/effect/cause"
)

// Finalizer is a nullary cleanup action. It mirrors spec.md's "each a
// nullary Effect" description, but at this layer is kept effect-agnostic
// (a plain func) so this package has no dependency on the effect algebra;
// the effect package's Acquire handler adapts a release Effect into a
// Finalizer when it registers one.
type Finalizer func() error

// Scope is a LIFO bag of finalizers, closed exactly once.
type Scope struct {
	mu         sync.Mutex
	finalizers []Finalizer
	closed     bool
}

// New creates an empty, open Scope.
func New() *Scope {
	return &Scope{}
}

// AddFinalizer registers fn to run when the scope closes. Finalizers run in
// LIFO order: the most recently added runs first.
func (s *Scope) AddFinalizer(fn Finalizer) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		// Scope already closed: run immediately so a late-registered
		// finalizer is never silently dropped.
		_ = fn()
		return
	}
	s.finalizers = append(s.finalizers, fn)
	s.mu.Unlock()
}

// Acquire runs acquire, and — only if it succeeds — atomically registers
// release as a finalizer bound to the acquired value. If registering fails
// because the scope is already closed, the resource is released
// immediately rather than leaked (spec.md §4.5: "atomic — on failure of
// registering the release, the resource is released immediately").
func Acquire[T any](s *Scope, acquire func() (T, error), release func(T) error) (T, error) {
	value, err := acquire()
	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = release(value)
		return value, nil
	}
	s.finalizers = append(s.finalizers, func() error { return release(value) })
	s.mu.Unlock()

	return value, nil
}

// Close runs every registered finalizer in LIFO order exactly once,
// aggregating failures into a Sequential Cause alongside primary, which may
// be the zero Cause if the scoped body itself succeeded.
func (s *Scope) Close(primary cause.Cause) cause.Cause {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return primary
	}
	s.closed = true
	finalizers := s.finalizers
	s.finalizers = nil
	s.mu.Unlock()

	causes := []cause.Cause{}
	if primary.TerminalError() != nil {
		causes = append(causes, primary)
	}

	for i := len(finalizers) - 1; i >= 0; i-- {
		if err := finalizers[i](); err != nil {
			causes = append(causes, cause.Fail(err))
		}
	}

	if len(causes) == 0 {
		return cause.Cause{}
	}
	if len(causes) == 1 {
		return causes[0]
	}
	return cause.Seq(causes...)
}

// IsClosed reports whether Close has already run.
func (s *Scope) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
