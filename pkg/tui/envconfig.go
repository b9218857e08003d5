// ABOUTME: EnvConfig captures the PI_* environment variables read once at runtime construction.
// ABOUTME: Unrecognized truthy/falsy values are a configuration error: logged via the sink, safe default kept.

package tui

import (
	"os"
	"strings"
)

// EnvConfig is the runtime's environment-derived configuration, read once
// by LoadEnvConfig at construction time.
type EnvConfig struct {
	// HardwareCursor enables hardware-cursor positioning when true; when
	// false the runtime hides the terminal cursor and never repositions
	// it, relying on components to draw their own cursor glyph.
	HardwareCursor bool

	// ClearOnShrink enables a full clear when the content area shrinks
	// and no surfaces are active, rather than leaving stale trailing rows
	// for the diff path to clear line-by-line.
	ClearOnShrink bool

	// WriteLogPath holds PI_TUI_WRITE_LOG. Nothing in this module reads it:
	// output-gate writes are not copied to a log file.
	WriteLogPath string

	// DebugLogPath and RedrawDebugLogPath hold PI_TUI_DEBUG and
	// PI_DEBUG_REDRAW. Nothing in this module reads them: internal/log keeps
	// writing to stderr unless a caller retargets it with log.SetOutput.
	DebugLogPath      string
	RedrawDebugLogPath string
}

const (
	envHardwareCursor  = "PI_HARDWARE_CURSOR"
	envClearOnShrink   = "PI_CLEAR_ON_SHRINK"
	envWriteLog        = "PI_TUI_WRITE_LOG"
	envDebug           = "PI_TUI_DEBUG"
	envDebugRedraw     = "PI_DEBUG_REDRAW"
)

// LoadEnvConfig reads the PI_* environment variables. Malformed truthy/
// falsy values are configuration errors: sink receives a Diagnostic and
// the field keeps its zero-value default rather than the runtime failing
// to start.
func LoadEnvConfig(sink Sink) EnvConfig {
	if sink == nil {
		sink = DiscardSink()
	}
	return EnvConfig{
		HardwareCursor:     boolEnv(sink, envHardwareCursor, false),
		ClearOnShrink:      boolEnv(sink, envClearOnShrink, false),
		WriteLogPath:       os.Getenv(envWriteLog),
		DebugLogPath:       os.Getenv(envDebug),
		RedrawDebugLogPath: os.Getenv(envDebugRedraw),
	}
}

// boolEnv parses a truthy/falsy environment variable, reporting unknown
// values as a configuration-error Diagnostic and falling back to def.
func boolEnv(sink Sink, name string, def bool) bool {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off", "":
		return false
	default:
		sink.Emit(Diagnostic{
			Code:     "config.env.invalid_bool",
			Severity: SeverityWarn,
			Message:  "unrecognized value for boolean environment variable, using default",
			Context: map[string]any{
				"variable": name,
				"value":    raw,
				"default":  def,
			},
		})
		return def
	}
}
