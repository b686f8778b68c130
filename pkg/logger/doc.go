// Package logger builds configured slog.Logger instances for the session
// core: a functional-options factory with development/production presets,
// a context decorator that injects session- and design-scoped attributes
// on every record, and typed attribute helpers for the domain's common
// keys.
package logger
