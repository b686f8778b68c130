package events

import (
	"context"
	"sync"
)

// MemoryBus is the in-process Bus implementation used by the session
// container. All methods are safe for concurrent use.
type MemoryBus[T any] struct {
	subscribers map[*subscriber[T]]struct{}
	buffer      int
	closed      bool
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

// NewMemoryBus creates an in-memory bus. buffer is the per-subscriber
// channel capacity; a minimum of 1 is enforced so sends are never
// unconditionally blocking.
func NewMemoryBus[T any](buffer int) *MemoryBus[T] {
	return &MemoryBus[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		buffer:      max(buffer, 1),
	}
}

// Subscribe registers a subscriber that receives all subsequent events.
// If the bus is already closed the returned subscriber is closed too.
func (b *MemoryBus[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber[T](b.buffer)
	if b.closed {
		_ = sub.Close()
		return sub
	}

	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			<-ctx.Done()
			b.unsubscribe(sub)
		}()
	}

	return sub
}

// Publish delivers event to every subscriber whose buffer has room.
// Subscribers with a full buffer miss the event and are detached; the
// publisher never blocks.
func (b *MemoryBus[T]) Publish(event T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for sub := range b.subscribers {
		if !sub.send(event) {
			// Detach asynchronously so the publish path holds only the
			// read lock.
			go b.unsubscribe(sub)
		}
	}
}

// Close shuts down the bus and closes all subscribers. Idempotent.
func (b *MemoryBus[T]) Close() error {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	for sub := range b.subscribers {
		_ = sub.Close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	b.cleanupWg.Wait()
	return nil
}

func (b *MemoryBus[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	_ = sub.Close()
}
