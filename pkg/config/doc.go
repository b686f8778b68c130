// Package config loads typed configuration structs from environment
// variables using `env` struct tags, with optional .env bootstrap for
// development. Every tunable in the session core (idle delays, FPS
// targets, cooldowns, window sizes) is declared as an env-taggable struct
// field next to a DefaultConfig constructor in its owning package.
package config
