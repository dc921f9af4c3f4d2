// Package logging builds the shared slog loggers for both binaries. Output
// is always JSON on stdout; the level string comes from LOG_LEVEL.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger returns a JSON logger tagged with the binary name ("api" or
// "aggregator"). Debug level also switches on source locations, which are
// too noisy for steady-state but wanted when chasing a specific handler.
func NewJSONLogger(service, level string) *slog.Logger {
	parsed := ParseLevel(level)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     parsed,
		AddSource: parsed == slog.LevelDebug,
	})
	return slog.New(handler).With("service", service)
}

// NewNop returns a logger that discards everything. Handler and wiring tests
// use it so assertions never depend on log output.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config string onto a slog level. Unknown or empty input
// lands on info rather than failing startup over a typo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
