package camera

import (
	"sync"
	"time"

	"github.com/prietto/mugforge/pkg/timekit"
)

// Point is a 2D pointer position in viewport coordinates.
type Point struct {
	X float64
	Y float64
}

// InteractionTracker records whether the visitor is currently manipulating
// the viewport (drag-rotate, wheel-zoom) and when they last did. Both
// control loops read it: the auto-return controller to decide when to arm,
// the quality governor indirectly through the render loop.
type InteractionTracker struct {
	mu       sync.Mutex
	clock    timekit.Clock
	dragging bool
	zooming  bool
	pointer  Point
	lastAt   time.Time
}

// NewInteractionTracker creates a tracker on the given clock.
func NewInteractionTracker(clock timekit.Clock) *InteractionTracker {
	if clock == nil {
		clock = timekit.NewClock()
	}
	return &InteractionTracker{clock: clock}
}

// BeginDrag marks the start of a drag-rotate gesture.
func (t *InteractionTracker) BeginDrag() {
	t.mu.Lock()
	t.dragging = true
	t.lastAt = t.clock.Now()
	t.mu.Unlock()
}

// EndDrag marks the end of a drag-rotate gesture.
func (t *InteractionTracker) EndDrag() {
	t.mu.Lock()
	t.dragging = false
	t.lastAt = t.clock.Now()
	t.mu.Unlock()
}

// BeginZoom marks the start of a wheel-zoom gesture.
func (t *InteractionTracker) BeginZoom() {
	t.mu.Lock()
	t.zooming = true
	t.lastAt = t.clock.Now()
	t.mu.Unlock()
}

// EndZoom marks the end of a wheel-zoom gesture.
func (t *InteractionTracker) EndZoom() {
	t.mu.Lock()
	t.zooming = false
	t.lastAt = t.clock.Now()
	t.mu.Unlock()
}

// MovePointer records the pointer position and refreshes the
// last-interaction timestamp.
func (t *InteractionTracker) MovePointer(x, y float64) {
	t.mu.Lock()
	t.pointer = Point{X: x, Y: y}
	t.lastAt = t.clock.Now()
	t.mu.Unlock()
}

// Active reports whether a gesture is in progress.
func (t *InteractionTracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dragging || t.zooming
}

// Dragging reports whether a drag-rotate gesture is in progress.
func (t *InteractionTracker) Dragging() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dragging
}

// Zooming reports whether a wheel-zoom gesture is in progress.
func (t *InteractionTracker) Zooming() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.zooming
}

// Pointer returns the last recorded pointer position.
func (t *InteractionTracker) Pointer() Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pointer
}

// LastInteraction returns when the visitor last touched the viewport; the
// zero time means never.
func (t *InteractionTracker) LastInteraction() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastAt
}

// IdleFor returns how long the viewport has been untouched as of now.
func (t *InteractionTracker) IdleFor(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastAt.IsZero() {
		return 0
	}
	return now.Sub(t.lastAt)
}
