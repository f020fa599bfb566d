// Package schedule implements the Schedule policy described in spec.md §2.4
// and §4.3: a stateless description of a delay sequence and a stop
// condition. Constructors and decorators compose in the same functional-
// option spirit as the teacher's ScopeOption/ExecutorOption (scope.go,
// pumped-go/executor.go), and the attempt-counting/elapsed-duration
// bookkeeping mirrors the retry-policy composition shape in
// other_examples' gaby-failsafe-go executor.go ("policies are composed
// around an execution... applied in reverse").
package schedule

import (
	"math"
	"math/rand"
	"time"
)

// Schedule is a pure function from a zero-based attempt index and the time
// elapsed since the first attempt began (as the Retry handler measures it on
// its clock) to an optional next delay: (delay, true) to retry after delay,
// or (_, false) to stop. Elapsed is threaded through so
// UpToMaxDuration can cap cumulative time without any Schedule needing to be
// stateful.
type Schedule func(attempt int, elapsed time.Duration) (time.Duration, bool)

// Once allows exactly one attempt and then stops — the spec.md §9 Design
// Notes resolution of the "Once" ambiguity found in the source:
// shouldRetry(n) = n < 1.
func Once() Schedule {
	return func(attempt int, elapsed time.Duration) (time.Duration, bool) {
		return 0, attempt < 1
	}
}

// FixedDelay retries forever with a constant delay.
func FixedDelay(d time.Duration) Schedule {
	return func(attempt int, elapsed time.Duration) (time.Duration, bool) {
		return d, true
	}
}

// ExponentialBackoff retries forever with delay = base * factor^attempt.
func ExponentialBackoff(base time.Duration, factor float64) Schedule {
	return func(attempt int, elapsed time.Duration) (time.Duration, bool) {
		scaled := float64(base) * math.Pow(factor, float64(attempt))
		return time.Duration(scaled), true
	}
}

// FibonacciBackoff retries forever with delay = base * fib(attempt),
// fib(0)=0, fib(1)=1.
func FibonacciBackoff(base time.Duration) Schedule {
	return func(attempt int, elapsed time.Duration) (time.Duration, bool) {
		return base * time.Duration(fib(attempt)), true
	}
}

func fib(n int) int {
	if n <= 0 {
		return 0
	}
	a, b := 0, 1
	for i := 1; i < n; i++ {
		a, b = b, a+b
	}
	return b
}

// LinearBackoff retries forever with delay = base * (attempt+1).
func LinearBackoff(base time.Duration) Schedule {
	return func(attempt int, elapsed time.Duration) (time.Duration, bool) {
		return base * time.Duration(attempt+1), true
	}
}

// UpToMaxRetries caps the number of retries at n, wrapping the given
// schedule. Decorators apply last-in-first-out around the core policy
// (spec.md §4.3): the cap is checked before delegating to the wrapped
// schedule.
func UpToMaxRetries(s Schedule, n int) Schedule {
	return func(attempt int, elapsed time.Duration) (time.Duration, bool) {
		if attempt >= n {
			return 0, false
		}
		return s(attempt, elapsed)
	}
}

// UpToMaxDuration caps cumulative elapsed time at total: it stops once
// elapsed has reached total or once the next delay would carry it past total.
func UpToMaxDuration(s Schedule, total time.Duration) Schedule {
	return func(attempt int, elapsed time.Duration) (time.Duration, bool) {
		if elapsed >= total {
			return 0, false
		}
		delay, ok := s(attempt, elapsed)
		if !ok {
			return 0, false
		}
		if elapsed+delay > total {
			return 0, false
		}
		return delay, true
	}
}

// WithJitter multiplies each delay by a uniform factor in [1-f, 1+f].
// Jitter is applied last, after any retry/duration caps, per spec.md §4.3.
func WithJitter(s Schedule, f float64) Schedule {
	return func(attempt int, elapsed time.Duration) (time.Duration, bool) {
		delay, ok := s(attempt, elapsed)
		if !ok {
			return 0, false
		}
		jitter := 1 + (rand.Float64()*2-1)*f
		return time.Duration(float64(delay) * jitter), true
	}
}
