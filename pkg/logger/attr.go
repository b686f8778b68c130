package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// SessionID records the session identifier under the key "session_id".
func SessionID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("session_id", id)
}

// DesignID records the design identifier under the key "design_id".
func DesignID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("design_id", id)
}

// Mode records the active generation mode under the key "mode".
func Mode(mode string) slog.Attr {
	if mode == "" {
		return slog.Attr{}
	}
	return slog.String("mode", mode)
}

// QualityLevel records the rendering quality level under the key "quality".
func QualityLevel(level string) slog.Attr {
	if level == "" {
		return slog.Attr{}
	}
	return slog.String("quality", level)
}
