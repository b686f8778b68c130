package quality

import "time"

// FrameWindow is a fixed-capacity FIFO of recent frame times. Once full,
// recording a sample evicts the oldest one.
type FrameWindow struct {
	samples []time.Duration
	cap     int
	head    int
	size    int
}

// NewFrameWindow creates a window holding up to capacity samples.
func NewFrameWindow(capacity int) *FrameWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &FrameWindow{
		samples: make([]time.Duration, capacity),
		cap:     capacity,
	}
}

// Record appends a frame time, evicting the oldest sample when full.
func (w *FrameWindow) Record(frameTime time.Duration) {
	w.samples[(w.head+w.size)%w.cap] = frameTime
	if w.size < w.cap {
		w.size++
		return
	}
	w.head = (w.head + 1) % w.cap
}

// Len returns the number of recorded samples.
func (w *FrameWindow) Len() int {
	return w.size
}

// AverageFrameTime returns the mean frame time over the window, zero when
// empty.
func (w *FrameWindow) AverageFrameTime() time.Duration {
	if w.size == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < w.size; i++ {
		total += w.samples[(w.head+i)%w.cap]
	}
	return total / time.Duration(w.size)
}

// AverageFPS derives frames per second from the window average, zero when
// empty.
func (w *FrameWindow) AverageFPS() float64 {
	avg := w.AverageFrameTime()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// Reset drops all samples.
func (w *FrameWindow) Reset() {
	w.head = 0
	w.size = 0
}
