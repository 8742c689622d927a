// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// EnvLevel is the environment variable controlling the log level.
const EnvLevel = "TETHER_LOG"

// Setup initializes the global logger writing to stderr, so trigger loops and
// forwarded child processes keep stdout to themselves. Human-readable console
// output is used when stderr is a terminal.
func Setup() zerolog.Logger {
	return SetupWithWriter(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

// SetupWithWriter is Setup with an explicit writer and formatting choice.
func SetupWithWriter(w io.Writer, pretty bool) zerolog.Logger {
	level := ParseLevel(os.Getenv(EnvLevel))

	var out io.Writer = w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

// ParseLevel maps a level string to a zerolog level. Empty or unrecognized
// values default to warn so routine invocations stay quiet.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
