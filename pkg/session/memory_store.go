package session

import (
	"context"
	"sync"
	"time"

	"github.com/prietto/mugforge/pkg/timekit"
)

// MemoryStore implements Store with in-memory storage. Sessions here are
// live containers, not serialized records, so the store holds pointers
// and closes a session when it evicts it.
type MemoryStore struct {
	mu       sync.RWMutex
	clock    timekit.Clock
	sessions map[string]*Session
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithStoreClock injects the clock used for expiry checks.
func WithStoreClock(clock timekit.Clock) MemoryStoreOption {
	return func(m *MemoryStore) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMemoryStore creates an in-memory session store. A positive
// cleanupInterval starts a background sweep of expired sessions.
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	store := &MemoryStore{
		clock:    timekit.NewClock(),
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Create stores a new session.
func (m *MemoryStore) Create(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Token() == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.Token()] = sess
	return nil
}

// Get retrieves a session by token, evicting it if expired.
func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	sess, exists := m.sessions[token]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	if sess.Expired(m.clock.Now()) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		_ = sess.Close()
		return nil, ErrSessionExpired
	}

	return sess, nil
}

// Delete removes and closes a session by token.
func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	sess, exists := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if exists {
		_ = sess.Close()
	}
	return nil
}

// DeleteExpired removes and closes all expired sessions.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	now := m.clock.Now()

	m.mu.Lock()
	var evicted []*Session
	for token, sess := range m.sessions {
		if sess.Expired(now) {
			evicted = append(evicted, sess)
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()

	for _, sess := range evicted {
		_ = sess.Close()
	}
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine. Idempotent.
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
