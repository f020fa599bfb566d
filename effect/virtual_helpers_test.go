package effect

import (
	"time"

	"github.com/efflow/effect/clock"
)

// waitForPendingWaiters busy-polls vc until at least n Sleep calls are
// parked, the same synchronization idiom clock_test.go uses to coordinate a
// test goroutine with a worker goroutine blocked in Virtual.Sleep.
func waitForPendingWaiters(vc *clock.Virtual, n int) {
	for vc.PendingWaiters() < n {
		time.Sleep(time.Millisecond)
	}
}
