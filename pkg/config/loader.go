package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates cfg from environment variables according to its `env`
// struct tags. On first use it attempts to load a .env file; a missing file
// is not an error. Unlike a per-type cache, repeated loads re-read the
// environment — the session configs here are tiny and loaded once at
// construction.
//
// Example:
//
//	type CameraConfig struct {
//		IdleDelay      time.Duration `env:"CAMERA_IDLE_DELAY" envDefault:"5s"`
//		ReturnDuration time.Duration `env:"CAMERA_RETURN_DURATION" envDefault:"1200ms"`
//	}
//
//	var cfg CameraConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](cfg *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is a development convenience only.
		_ = godotenv.Load()
	})

	if cfg == nil {
		return ErrNilPointer
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load but panics on failure. Used for configuration the
// session cannot start without.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}
