package session

import "context"

// Store holds live sessions keyed by token.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, sess *Session) error

	// Get retrieves a session by token. Expired sessions are evicted and
	// reported as ErrSessionExpired.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes and closes a session by token.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes and closes all expired sessions.
	DeleteExpired(ctx context.Context) error
}
