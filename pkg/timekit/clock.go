package timekit

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock reads and single-shot timer scheduling so that
// timing-sensitive components (camera auto-return, quality governor) can be
// driven deterministically in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules fn to run once after d and returns a Handle that
	// can cancel the pending execution.
	AfterFunc(d time.Duration, fn func()) *Handle
}

// Handle represents a single pending timer execution. Cancel is idempotent
// and reports whether it stopped the timer before it fired. Storing at most
// one Handle and calling Cancel before re-arming guarantees a component
// never leaks timers.
type Handle struct {
	mu       sync.Mutex
	stop     func() bool
	fired    bool
	canceled bool
}

// Cancel stops the pending execution. It returns true if the timer was
// stopped before firing, false if it already fired or was already canceled.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.canceled || h.fired {
		return false
	}
	h.canceled = true
	if h.stop != nil {
		return h.stop()
	}
	return true
}

// Active reports whether the timer is still pending.
func (h *Handle) Active() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.canceled && !h.fired
}

func (h *Handle) markFired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.canceled || h.fired {
		return false
	}
	h.fired = true
	return true
}

type realClock struct{}

// NewClock returns a Clock backed by the runtime timers.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	t := time.AfterFunc(d, func() {
		// The canceled check closes the race between Cancel and an
		// already-scheduled firing.
		if h.markFired() {
			fn()
		}
	})
	h.stop = t.Stop
	return h
}
