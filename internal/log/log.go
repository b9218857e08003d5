// ABOUTME: Package-level logger backed by zerolog; SetOutput/SetLevel retarget it without touching call sites.
// ABOUTME: Writes structured events to stderr by default so they never interleave with the TUI's own stdout writes.

package log

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Level constants, kept as zerolog.Level so callers never need to import
// zerolog just to call SetLevel.
const (
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(LevelInfo)
	level  atomic.Int32
)

func init() {
	level.Store(int32(LevelInfo))
}

// SetLevel sets the global log level.
func SetLevel(l zerolog.Level) {
	level.Store(int32(l))
	mu.Lock()
	logger = logger.Level(l)
	mu.Unlock()
}

// GetLevel returns the current log level.
func GetLevel() zerolog.Level {
	return zerolog.Level(level.Load())
}

// SetOutput retargets the logger's destination, preserving its level.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = zerolog.New(w).With().Timestamp().Logger().Level(GetLevel())
	mu.Unlock()
}

// Logger returns the current package logger, for callers (like
// tui.NewZerologSink) that want to build a component-scoped sub-logger via
// .With().Str("component", ...).Logger().
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Debug().Msgf(format, args...)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Info().Msgf(format, args...)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Warn().Msgf(format, args...)
}

// Error logs an error message; always emitted regardless of level.
func Error(format string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Error().Msgf(format, args...)
}
