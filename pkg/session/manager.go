package session

import (
	"context"
	"log/slog"

	"github.com/prietto/mugforge/pkg/generation"
	"github.com/prietto/mugforge/pkg/timekit"
)

// Manager creates and resolves sessions against a Store.
type Manager struct {
	store  Store
	cfg    Config
	clock  timekit.Clock
	log    *slog.Logger
	client generation.Client
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore replaces the default in-memory store.
func WithStore(store Store) ManagerOption {
	return func(m *Manager) {
		if store != nil {
			m.store = store
		}
	}
}

// WithManagerConfig replaces the default configuration, shared by every
// session the manager creates.
func WithManagerConfig(cfg Config) ManagerOption {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithManagerClock injects the clock passed to every session.
func WithManagerClock(clock timekit.Clock) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithManagerLogger sets the base logger passed to every session.
func WithManagerLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a manager issuing sessions backed by client.
func NewManager(client generation.Client, opts ...ManagerOption) (*Manager, error) {
	if client == nil {
		return nil, ErrNoClient
	}

	m := &Manager{
		cfg:    DefaultConfig(),
		clock:  timekit.NewClock(),
		log:    slog.Default(),
		client: client,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.cfg.CleanupInterval, WithStoreClock(m.clock))
	}

	return m, nil
}

// Start creates a fresh session and stores it under its token.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	sess, err := New(
		WithClient(m.client),
		WithClock(m.clock),
		WithLogger(m.log),
		WithConfig(m.cfg),
	)
	if err != nil {
		return nil, err
	}

	if err := m.store.Create(ctx, sess); err != nil {
		_ = sess.Close()
		return nil, err
	}
	return sess, nil
}

// Resolve looks a session up by token and refreshes its activity.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	sess.Touch()
	return sess, nil
}

// Destroy removes and closes the session for token.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// Close shuts down the store if it owns background work.
func (m *Manager) Close() error {
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
