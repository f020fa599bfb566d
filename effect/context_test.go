package effect

import (
	"context"
	"testing"

	"github.com/efflow/effect/cause"
	"github.com/efflow/effect/di"
)

var keyTag = di.NewTag[string]("key")

func TestProvidedWithShadowsOuterBinding(t *testing.T) {
	rt := NewRuntime(WithBaseContext(di.Bind(di.Empty, keyTag, "v1")))

	inner := Map(Service(keyTag), func(v string) string { return v })
	program := FlatMap(Service(keyTag), func(outerBefore string) Effect[[3]string] {
		return Map(ProvidedWith(inner, di.Bind(di.Empty, keyTag, "v2")), func(shadowed string) [3]string {
			return [3]string{outerBefore, shadowed, ""}
		})
	})
	program = FlatMap(program, func(seen [3]string) Effect[[3]string] {
		return Map(Service(keyTag), func(outerAfter string) [3]string {
			return [3]string{seen[0], seen[1], outerAfter}
		})
	})

	got, err := RunSync(context.Background(), rt, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != "v1" {
		t.Fatalf("expected outer binding v1 before shadowing, got %q", got[0])
	}
	if got[1] != "v2" {
		t.Fatalf("expected shadowed binding v2 inside ProvidedWith, got %q", got[1])
	}
	if got[2] != "v1" {
		t.Fatalf("expected outer binding v1 restored after scope ends, got %q", got[2])
	}
}

func TestServiceFailsWhenTagUnbound(t *testing.T) {
	rt := NewRuntime()
	_, err := RunSync(context.Background(), rt, Service(keyTag))
	if err == nil {
		t.Fatal("expected error for unbound tag")
	}
	if !cause.Fail(err).Contains(cause.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestWithPresetOverridesBaseContextBinding(t *testing.T) {
	rt := NewRuntime(WithBaseContext(di.Bind(di.Empty, keyTag, "real")), WithPreset(keyTag, "test-double"))

	got, err := RunSync(context.Background(), rt, Service(keyTag))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "test-double" {
		t.Fatalf("expected preset to override base binding, got %q", got)
	}
}

func TestProvidedByLayerBindsServiceForDuration(t *testing.T) {
	rt := NewRuntime()
	layer := LayerFromValue(keyTag, "from-layer")
	got, err := RunSync(context.Background(), rt, ProvidedByLayer(Service(keyTag), layer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-layer" {
		t.Fatalf("got %q", got)
	}
}
