// Package logger builds the *slog.Logger used across the chatbot. Output goes
// through the charmbracelet/log handler so diagnostics match the rest of the
// terminal UI.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// DebugEnv enables debug logging when set to a true value ("1", "true", ...).
const DebugEnv = "HUMANIZER_DEBUG"

type config struct {
	level   slog.Level
	json    bool
	source  bool
	prefix  string
	writers []io.Writer
}

// New creates a logger writing to stderr at Info level unless options say
// otherwise.
func New(opts ...Option) *slog.Logger {
	cfg := config{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&cfg)
	}

	var w io.Writer = os.Stderr
	switch len(cfg.writers) {
	case 0:
	case 1:
		w = cfg.writers[0]
	default:
		w = io.MultiWriter(cfg.writers...)
	}

	level := charmlog.InfoLevel
	if cfg.level <= slog.LevelDebug {
		level = charmlog.DebugLevel
	}

	formatter := charmlog.TextFormatter
	if cfg.json {
		formatter = charmlog.JSONFormatter
	}

	h := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		Prefix:          cfg.prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		ReportCaller:    cfg.source,
		Formatter:       formatter,
	})

	return slog.New(h)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// DebugFromEnv reports whether DebugEnv asks for debug logging.
func DebugFromEnv() bool {
	v, err := strconv.ParseBool(os.Getenv(DebugEnv))
	return err == nil && v
}
