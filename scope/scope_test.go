package scope

import (
	"errors"
	"testing"

	"github.com/efflow/effect/cause"
)

func TestFinalizersRunInLIFOOrder(t *testing.T) {
	s := New()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		s.AddFinalizer(func() error {
			order = append(order, i)
			return nil
		})
	}

	s.Close(cause.Cause{})

	want := []int{2, 1, 0}
	if len(order) != len(want) {
		t.Fatalf("expected %d finalizers to run, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected LIFO order %v, got %v", want, order)
		}
	}
}

func TestCloseRunsFinalizersExactlyOnce(t *testing.T) {
	s := New()
	count := 0
	s.AddFinalizer(func() error {
		count++
		return nil
	})

	s.Close(cause.Cause{})
	s.Close(cause.Cause{})

	if count != 1 {
		t.Fatalf("expected finalizer to run exactly once, got %d", count)
	}
}

func TestCleanupFailureComposesSequentialWithPrimary(t *testing.T) {
	s := New()
	cleanupErr := errors.New("cleanup failed")
	s.AddFinalizer(func() error { return cleanupErr })

	mainErr := errors.New("main failed")
	result := s.Close(cause.Fail(mainErr))

	if !result.Contains(mainErr) || !result.Contains(cleanupErr) {
		t.Fatalf("expected composed cause to contain both errors, got %v", result)
	}
}

func TestAcquireReleasesImmediatelyIfScopeAlreadyClosed(t *testing.T) {
	s := New()
	s.Close(cause.Cause{})

	released := false
	_, err := Acquire(s, func() (string, error) {
		return "resource", nil
	}, func(string) error {
		released = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected acquire error: %v", err)
	}
	if !released {
		t.Fatal("expected resource to be released immediately on a closed scope")
	}
}

func TestAcquireRegistersReleaseAsFinalizer(t *testing.T) {
	s := New()
	released := false
	val, err := Acquire(s, func() (string, error) {
		return "resource", nil
	}, func(v string) error {
		released = v == "resource"
		return nil
	})
	if err != nil || val != "resource" {
		t.Fatalf("unexpected acquire result: %v, %v", val, err)
	}
	if released {
		t.Fatal("release should not run before Close")
	}
	s.Close(cause.Cause{})
	if !released {
		t.Fatal("expected release to run on Close")
	}
}
