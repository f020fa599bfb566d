package effect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/efflow/effect/clock"
	"github.com/efflow/effect/internal/result"
	"github.com/efflow/effect/schedule"
	"github.com/efflow/effect/strategy"
)

func TestSleepAdvancesVirtualTimeWithoutOSSleep(t *testing.T) {
	start := time.Unix(0, 0)
	vc := clock.NewVirtual(start)
	rt := NewRuntime(WithClock(vc))

	realStart := time.Now()
	out := make(chan result.Result[struct{}], 1)
	go func() {
		out <- RunResult(context.Background(), rt, SleepFor(1000*time.Millisecond))
	}()

	waitForPendingWaiters(vc, 1)
	vc.Advance(1000 * time.Millisecond)
	res := <-out

	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Error())
	}
	if vc.Since(start) != 1000*time.Millisecond {
		t.Fatalf("expected virtual clock advanced by 1000ms, got %v", vc.Since(start))
	}
	if elapsed := time.Since(realStart); elapsed > 2*time.Second {
		t.Fatalf("Sleep appears to have used real wall time: %v", elapsed)
	}
}

func TestRaceUnderVirtualClockPicksFasterSleeper(t *testing.T) {
	start := time.Unix(0, 0)
	vc := clock.NewVirtual(start)
	rt := NewRuntime(WithClock(vc), WithStrategy(strategy.Fiber{}))

	fast := Then(SleepFor(10*time.Millisecond), Succeed(1))
	slow := Then(SleepFor(20*time.Millisecond), Succeed(2))

	out := make(chan result.Result[int], 1)
	go func() {
		out <- RunResult(context.Background(), rt, RaceWith(fast, slow))
	}()

	waitForPendingWaiters(vc, 2)
	vc.Advance(10 * time.Millisecond)
	res := <-out

	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Error())
	}
	v, _ := res.Value()
	if v != 1 {
		t.Fatalf("expected the 10ms sleeper to win with 1, got %d", v)
	}
	if vc.Since(start) != 10*time.Millisecond {
		t.Fatalf("expected virtual clock advanced by 10ms, got %v", vc.Since(start))
	}
}

func TestTimeoutUnderVirtualClockScenario(t *testing.T) {
	start := time.Unix(0, 0)
	vc := clock.NewVirtual(start)
	rt := NewRuntime(WithClock(vc), WithStrategy(strategy.Fiber{}))

	program := TimeoutAfter(Then(SleepFor(20*time.Millisecond), Succeed("done")), 10*time.Millisecond)

	out := make(chan result.Result[string], 1)
	go func() {
		out <- RunResult(context.Background(), rt, program)
	}()

	waitForPendingWaiters(vc, 2)
	vc.Advance(10 * time.Millisecond)
	res := <-out

	if res.IsOk() {
		t.Fatalf("expected timeout failure, got success")
	}
	if vc.Since(start) != 10*time.Millisecond {
		t.Fatalf("expected virtual clock advanced by 10ms, got %v", vc.Since(start))
	}
}

func TestRetryExhaustionMakesExactlyFourAttempts(t *testing.T) {
	start := time.Unix(0, 0)
	vc := clock.NewVirtual(start)
	rt := NewRuntime(WithClock(vc), WithStrategy(strategy.Fiber{}))

	attempts := 0
	boom := errors.New("always fails")
	eff := Sync(func() (struct{}, error) {
		attempts++
		return struct{}{}, boom
	})
	program := RetryWith(eff, schedule.UpToMaxRetries(schedule.FixedDelay(time.Millisecond), 3))

	out := make(chan result.Result[struct{}], 1)
	go func() {
		out <- RunResult(context.Background(), rt, program)
	}()

	for i := 0; i < 3; i++ {
		waitForPendingWaiters(vc, 1)
		vc.Advance(time.Millisecond)
	}
	res := <-out

	if res.IsOk() {
		t.Fatal("expected retry to exhaust and fail")
	}
	if attempts != 4 {
		t.Fatalf("expected exactly 4 attempts, got %d", attempts)
	}
	if vc.Since(start) != 3*time.Millisecond {
		t.Fatalf("expected virtual clock advanced by 3ms, got %v", vc.Since(start))
	}
}

func TestCancellingParallelPropagatesInterruptToChildren(t *testing.T) {
	rt := NewRuntime(WithStrategy(strategy.Fiber{}))
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{}, 3)
	blockers := make([]Effect[struct{}], 3)
	for i := range blockers {
		blockers[i] = FlatMap(Sync(func() (struct{}, error) {
			started <- struct{}{}
			return struct{}{}, nil
		}), func(struct{}) Effect[struct{}] { return Never[struct{}]() })
	}

	out := make(chan result.Result[[]struct{}], 1)
	go func() {
		out <- RunResult(ctx, rt, AllInParallel(blockers))
	}()

	for i := 0; i < 3; i++ {
		<-started
	}
	cancel()
	res := <-out

	if res.IsOk() {
		t.Fatal("expected interruption to fail the parallel run")
	}
}
