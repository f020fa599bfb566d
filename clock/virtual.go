package clock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Virtual is a deterministic Clock whose time only moves when Advance is
// called, used for the VirtualClock test scenarios in spec.md §8 (tests 6,
// 8, 9, 10 and scenarios A, E, F). Its waiter-list design follows
// other_examples' fxclock.Mock: Sleep registers a waiter for now+d and
// blocks until Advance crosses it.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

var _ Clock = (*Virtual)(nil)

type waiter struct {
	until time.Time
	done  chan struct{}
}

// NewVirtual creates a VirtualClock starting at the given instant.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now reports the current virtual instant.
func (c *Virtual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Since reports the virtual duration elapsed since t.
func (c *Virtual) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Sleep blocks the calling goroutine until virtual time reaches now+d, or
// until ctx is cancelled — it never calls the OS sleep (spec.md §8 test 6).
func (c *Virtual) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	c.mu.Lock()
	w := waiter{until: c.now.Add(d), done: make(chan struct{})}
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Advance moves virtual time forward by d, releasing every waiter whose
// deadline falls at or before the new time, in deadline order.
func (c *Virtual) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: cannot advance by a negative duration")
	}

	c.mu.Lock()
	sort.Slice(c.waiters, func(i, j int) bool {
		return c.waiters[i].until.Before(c.waiters[j].until)
	})

	newTime := c.now.Add(d)
	var fired []waiter
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if w.until.After(newTime) {
			remaining = append(remaining, w)
			continue
		}
		fired = append(fired, w)
	}
	c.waiters = remaining
	c.now = newTime
	c.mu.Unlock()

	for _, w := range fired {
		close(w.done)
	}
}

// PendingWaiters reports how many Sleep calls are currently parked, useful
// for tests that need to wait until a concurrent goroutine has reached its
// Sleep call before advancing time.
func (c *Virtual) PendingWaiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
