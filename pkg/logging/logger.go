// Package logging configures zerolog for the dispatchers and their callers.
// Every component logger carries a component field; the dispatcher adds a
// call_id so the attempts of one logical call can be correlated.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a textual minimum log level, as found in configuration.
type LogLevel string

// Recognized levels. Anything else falls back to info.
const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level to emit.
	Level LogLevel

	// Pretty switches from JSON lines to human-readable console output.
	Pretty bool

	// Output receives the log stream. Nil means os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the stock configuration: info-level JSON on stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Output: os.Stderr}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// parseLevel maps a LogLevel onto zerolog's levels. Unknown values degrade
// to info rather than erroring, the same posture the dispatcher takes with
// malformed server hints.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger derives a logger tagged with the component name from the global
// logger, so Setup's level and output apply.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Level usage across the module:
//
// Debug: throttle waits (method, server hint, computed wait) and per-page
// pagination progress.
//
// Info: calls that succeeded after throttle retries; aggregated pagination
// results (pages, items).
//
// Warn: throttle retry budget exhausted, non-ok Web API envelopes, SCIM
// envelope disagreements, context cancelled mid-wait.
//
// Error: reserved for callers. The dispatcher propagates errors instead of
// logging them at error level.
//
// Field names:
//   - method: logical operation name (e.g. users.info, scim.Users)
//   - call_id: correlation id for all attempts of one logical call
//   - attempt: retry attempt number
//   - server_hint: raw Retry-After value from the server
//   - wait: computed wait duration
//   - error_code: Slack error string from a non-ok envelope
//   - status_code: HTTP status code (SCIM)
