package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session: session not found")
	ErrSessionExpired  = errors.New("session: session expired")
	ErrInvalidSession  = errors.New("session: invalid session")
	ErrTokenGeneration = errors.New("session: failed to generate token")
	ErrNoClient        = errors.New("session: a generation client is required")
)
