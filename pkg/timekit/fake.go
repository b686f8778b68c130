package timekit

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock for tests. Timers scheduled with
// AfterFunc fire synchronously inside Advance, in deadline order, so tests
// observe a deterministic interleaving.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	fn       func()
	handle   *Handle
}

// NewFakeClock creates a fake clock starting at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, fn func()) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := &Handle{}
	t := &fakeTimer{
		deadline: c.now.Add(d),
		fn:       fn,
		handle:   h,
	}
	h.stop = func() bool {
		c.removeTimer(t)
		return true
	}
	c.timers = append(c.timers, t)
	return h
}

// Advance moves the clock forward by d, firing every timer whose deadline
// falls within the advanced window. Callbacks run without the clock lock
// held so they may schedule further timers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		next := c.nextDueLocked(target)
		if next == nil {
			break
		}
		c.now = next.deadline
		c.detachLocked(next)
		c.mu.Unlock()
		if next.handle.markFired() {
			next.fn()
		}
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// PendingTimers returns the number of timers that have not yet fired or
// been canceled.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.handle.Active() {
			n++
		}
	}
	return n
}

func (c *FakeClock) nextDueLocked(limit time.Time) *fakeTimer {
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.deadline.After(limit) && t.handle.Active() {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	return due[0]
}

func (c *FakeClock) detachLocked(target *fakeTimer) {
	for i, t := range c.timers {
		if t == target {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

func (c *FakeClock) removeTimer(target *fakeTimer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detachLocked(target)
}
