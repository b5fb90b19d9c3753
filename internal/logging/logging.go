package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level maps the CLI vocabulary to zerolog levels: "info", "verbose" (debug)
// or "debug" (trace). Unknown values fall back to info.
func Level(level string) zerolog.Level {
	switch level {
	case "verbose":
		return zerolog.DebugLevel
	case "debug":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds the application logger. Filtering goes through zerolog's global
// level rather than a per-logger level, so SetLevel can still take effect
// after the logger has been handed out to components (the --log-level flag
// is only parsed later by cobra).
func New(level string) zerolog.Logger {
	SetLevel(level)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// SetLevel adjusts the process-wide log level.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(Level(level))
}

// NewWithWriter builds a logger with an explicit output and a per-logger
// level, isolated from the global level, for tests.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(Level(level)).With().Timestamp().Logger()
}
