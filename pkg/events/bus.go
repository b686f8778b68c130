package events

import (
	"context"
	"sync"
)

// Subscriber receives events published on a Bus.
// Implementations are safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel events are delivered on. The channel is
	// closed when the subscriber is closed.
	Receive() <-chan T

	// Close releases the subscription. It is idempotent.
	Close() error
}

// Bus delivers events to any number of subscribers. Delivery is
// fire-and-forget: a slow subscriber has events dropped rather than ever
// blocking the publisher, so controllers and mutators never wait on the
// analytics sink.
type Bus[T any] interface {
	// Subscribe registers a subscriber. The subscription is torn down
	// automatically when ctx is cancelled.
	Subscribe(ctx context.Context) Subscriber[T]

	// Publish sends an event to all current subscribers without blocking.
	Publish(event T)

	// Close shuts the bus down and closes all subscribers.
	Close() error
}

type subscriber[T any] struct {
	ch     chan T
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](buffer int) *subscriber[T] {
	return &subscriber[T]{ch: make(chan T, buffer)}
}

func (s *subscriber[T]) Receive() <-chan T {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *subscriber[T]) send(event T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- event:
		return true
	default:
		return false
	}
}
