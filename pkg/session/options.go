package session

import (
	"log/slog"

	"github.com/prietto/mugforge/pkg/generation"
	"github.com/prietto/mugforge/pkg/timekit"
)

// Option configures a Session during construction.
type Option func(*Session)

// WithClient sets the generation endpoint client. Required.
func WithClient(client generation.Client) Option {
	return func(s *Session) {
		if client != nil {
			s.client = client
		}
	}
}

// WithClock injects the clock driving every timing-sensitive sub-state.
func WithClock(clock timekit.Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the base logger; the session id is attached to it.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithToken pins the lookup token instead of generating one.
func WithToken(token string) Option {
	return func(s *Session) {
		if token != "" {
			s.token = token
		}
	}
}
