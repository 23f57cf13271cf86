// Package logging provides structured zerolog loggers with context
// propagation and per-run trace IDs. All components log through a logger
// obtained from the context so a single run carries one trace ID from the
// CLI entry point down to every external command invocation.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Unparseable values fall back to info.
	Level string

	// Format is "console" or "json". Console output is human-readable
	// with RFC3339 timestamps; json is raw zerolog.
	Format string

	// Output selects "stderr" or "file". When "file", File must be set.
	Output string

	// File is the log file path used when Output is "file".
	File string

	// Caller enables caller annotation on every event.
	Caller bool
}

// Result describes the constructed logger and where it writes.
type Result struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *Result) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New constructs a logger from cfg, writing to stderr.
// For file output with fallback reporting use NewWithPath.
func New(cfg Config) zerolog.Logger {
	return NewWithPath(cfg).Logger
}

// NewWithPath constructs a logger from cfg. When file output is requested
// but the file cannot be opened, it falls back to stderr and records the
// reason instead of failing: logging must never block the setup run.
func NewWithPath(cfg Config) Result {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	res := Result{}
	var out io.Writer = os.Stderr

	if cfg.Output == "file" && cfg.File != "" {
		if mkErr := os.MkdirAll(filepath.Dir(cfg.File), 0o700); mkErr != nil {
			res.FallbackUsed = true
			res.FallbackReason = fmt.Sprintf("creating log directory: %v", mkErr)
		} else if f, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); openErr != nil {
			res.FallbackUsed = true
			res.FallbackReason = fmt.Sprintf("opening log file: %v", openErr)
		} else {
			res.UsingFile = true
			res.FilePath = cfg.File
			res.file = f
			out = f
		}
	}

	if !res.UsingFile && cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logCtx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		logCtx = logCtx.Caller()
	}
	res.Logger = logCtx.Logger()
	return res
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
