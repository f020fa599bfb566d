package effect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/efflow/effect/cause"
	"github.com/efflow/effect/scope"
)

func TestWithinScopeRunsFinalizersExactlyOnceLIFO(t *testing.T) {
	rt := NewRuntime()
	var order []int

	program := WithinScope(func(s *scope.Scope) Effect[struct{}] {
		return FlatMap(AcquireResource(Succeed(0), func(int) Effect[struct{}] {
			order = append(order, 0)
			return Succeed(struct{}{})
		}), func(int) Effect[struct{}] {
			return Then(AcquireResource(Succeed(1), func(int) Effect[struct{}] {
				order = append(order, 1)
				return Succeed(struct{}{})
			}), Succeed(struct{}{}))
		})
	})
	program = Map(program, func(struct{}) struct{} { return struct{}{} })

	if _, err := RunSync(context.Background(), rt, program); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 0}
	if len(order) != len(want) || order[0] != want[0] || order[1] != want[1] {
		t.Fatalf("expected LIFO release order %v, got %v", want, order)
	}
}

func TestManagedResourceScenario(t *testing.T) {
	rt := NewRuntime()
	var log []string

	acquire := Sync(func() (string, error) {
		log = append(log, "acquired")
		return "resource", nil
	})
	release := func(string) Effect[struct{}] {
		return Sync(func() (struct{}, error) {
			log = append(log, "released")
			return struct{}{}, nil
		})
	}

	program := WithinScope(func(s *scope.Scope) Effect[string] {
		return Map(AcquireResource(acquire, release), strings.ToUpper)
	})

	got, err := RunSync(context.Background(), rt, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "RESOURCE" {
		t.Fatalf("expected RESOURCE, got %q", got)
	}
	want := []string{"acquired", "released"}
	if len(log) != 2 || log[0] != want[0] || log[1] != want[1] {
		t.Fatalf("expected log %v, got %v", want, log)
	}
}

func TestEnsuringOnFailureRunsCleanupThenPropagatesOriginal(t *testing.T) {
	rt := NewRuntime()
	primary := errors.New("primary")
	ran := false

	program := Ensuring(Fail[struct{}](primary), Sync(func() (struct{}, error) {
		ran = true
		return struct{}{}, nil
	}))

	_, err := RunSync(context.Background(), rt, program)
	if !ran {
		t.Fatal("expected cleanup to run")
	}
	if !errors.Is(err, primary) {
		t.Fatalf("expected primary error %v, got %v", primary, err)
	}
}

func TestEnsuringCleanupFailureComposesSequentialWithPrimary(t *testing.T) {
	rt := NewRuntime()
	primary := errors.New("primary")
	secondary := errors.New("secondary")

	k, root := rt.newRootKernel(context.Background())
	_, err := k.run(Ensuring(Fail[struct{}](primary), Fail[struct{}](secondary)))
	closed := root.Close(unwrapCause(err))
	c := closed

	leaves := c.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves in Sequential(primary, secondary), got %d: %v", len(leaves), c)
	}
	if !errors.Is(leaves[0].Unwrap(), primary) {
		t.Fatalf("expected first leaf to be primary, got %v", leaves[0])
	}
	if !errors.Is(leaves[1].Unwrap(), secondary) {
		t.Fatalf("expected second leaf to be secondary, got %v", leaves[1])
	}
	if c.Kind() != cause.KindSequential {
		t.Fatalf("expected Sequential composition, got %v", c.Kind())
	}
}
