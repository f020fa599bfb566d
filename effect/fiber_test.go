package effect

import (
	"context"
	"testing"
	"time"
)

func TestForkEffectJoinReturnsResult(t *testing.T) {
	rt := NewRuntime()
	program := FlatMap(ForkEffect(Succeed(21)), func(f Fiber[int]) Effect[int] {
		return Map(f.Join(), func(v int) int { return v * 2 })
	})

	got, err := RunSync(context.Background(), rt, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestForkEffectInterruptStopsTheFiber(t *testing.T) {
	rt := NewRuntime()
	program := FlatMap(ForkEffect(Never[int]()), func(f Fiber[int]) Effect[struct{}] {
		return f.Interrupt()
	})

	if _, err := RunSync(context.Background(), rt, program); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestZipWithParCombinesBothResults(t *testing.T) {
	rt := NewRuntime()
	a := Then(SleepFor(time.Millisecond), Succeed(1))
	b := Then(SleepFor(time.Millisecond), Succeed(2))
	program := ZipWithPar(a, b, func(x, y int) int { return x + y })

	got, err := RunSync(context.Background(), rt, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
