package effect

import (
	"context"
	"errors"
	"testing"

	"github.com/efflow/effect/cause"
)

type recordingExtension struct {
	BaseExtension
	wrapped  []Kind
	endValue any
	endErr   error
	failure  *cause.Cause
}

func (r *recordingExtension) Wrap(kind Kind, next func()) {
	r.wrapped = append(r.wrapped, kind)
	next()
}

func (r *recordingExtension) OnRunEnd(value any, err error) {
	r.endValue, r.endErr = value, err
}

func (r *recordingExtension) OnRunFailure(c cause.Cause) {
	r.failure = &c
}

func TestExtensionWrapsEveryDispatchedNode(t *testing.T) {
	ext := &recordingExtension{BaseExtension: BaseExtension{ExtName: "recorder"}}
	rt := NewRuntime(WithExtensions(ext))

	got, err := RunSync(context.Background(), rt, Map(Succeed(1), func(v int) int { return v + 1 }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Fatalf("got %d", got)
	}
	if len(ext.wrapped) != 3 {
		t.Fatalf("expected Wrap to fire for Map, Success, and the Success node Map's frame produces, got %v", ext.wrapped)
	}
	if ext.endErr != nil {
		t.Fatalf("expected OnRunEnd to observe no error, got %v", ext.endErr)
	}
	if ext.endValue != 2 {
		t.Fatalf("expected OnRunEnd to observe 2, got %v", ext.endValue)
	}
}

func TestExtensionObservesRunFailure(t *testing.T) {
	ext := &recordingExtension{BaseExtension: BaseExtension{ExtName: "recorder"}}
	rt := NewRuntime(WithExtensions(ext))
	boom := errors.New("boom")

	_, err := RunSync(context.Background(), rt, Fail[int](boom))
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if ext.failure == nil {
		t.Fatal("expected OnRunFailure to fire")
	}
	if !errors.Is(ext.failure.TerminalError(), boom) {
		t.Fatalf("expected OnRunFailure's Cause to wrap %v, got %v", boom, ext.failure)
	}
}
