package session

import (
	"time"

	"github.com/prietto/mugforge/pkg/camera"
	"github.com/prietto/mugforge/pkg/quality"
)

// Config holds session configuration.
type Config struct {
	// TTL is how long an untouched session survives in the store.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// CleanupInterval for expired sessions (0 to disable).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// GenerationLimit is the free in-session generation allowance.
	GenerationLimit int `env:"SESSION_GENERATION_LIMIT" envDefault:"5"`

	// EventBuffer is the per-subscriber event channel capacity.
	EventBuffer int `env:"SESSION_EVENT_BUFFER" envDefault:"64"`

	Camera  camera.Config
	Quality quality.Config
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		TTL:             2 * time.Hour,
		CleanupInterval: 5 * time.Minute,
		GenerationLimit: 5,
		EventBuffer:     64,
		Camera:          camera.DefaultConfig(),
		Quality:         quality.DefaultConfig(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.GenerationLimit <= 0 {
		c.GenerationLimit = d.GenerationLimit
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = d.EventBuffer
	}
	return c
}
