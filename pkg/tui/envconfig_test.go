// ABOUTME: Tests for LoadEnvConfig: truthy/falsy parsing, defaults, and the diagnostic emitted on bad values.

package tui

import (
	"os"
	"testing"
)

type recordingSink struct {
	diags []Diagnostic
}

func (r *recordingSink) Emit(d Diagnostic) { r.diags = append(r.diags, d) }

func TestLoadEnvConfig_Defaults(t *testing.T) {
	for _, k := range []string{envHardwareCursor, envClearOnShrink, envWriteLog, envDebug, envDebugRedraw} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := LoadEnvConfig(nil)
	if cfg.HardwareCursor || cfg.ClearOnShrink {
		t.Errorf("expected both bools false by default, got %+v", cfg)
	}
	if cfg.WriteLogPath != "" || cfg.DebugLogPath != "" || cfg.RedrawDebugLogPath != "" {
		t.Errorf("expected empty path defaults, got %+v", cfg)
	}
}

func TestLoadEnvConfig_TruthyValues(t *testing.T) {
	t.Setenv(envHardwareCursor, "true")
	t.Setenv(envClearOnShrink, "1")

	cfg := LoadEnvConfig(nil)
	if !cfg.HardwareCursor {
		t.Error("expected HardwareCursor true")
	}
	if !cfg.ClearOnShrink {
		t.Error("expected ClearOnShrink true")
	}
}

func TestLoadEnvConfig_InvalidValueEmitsDiagnosticAndKeepsDefault(t *testing.T) {
	t.Setenv(envHardwareCursor, "maybe")

	sink := &recordingSink{}
	cfg := LoadEnvConfig(sink)

	if cfg.HardwareCursor {
		t.Error("expected default false to be kept on invalid value")
	}
	if len(sink.diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(sink.diags))
	}
	if sink.diags[0].Code != "config.env.invalid_bool" {
		t.Errorf("unexpected diagnostic code: %s", sink.diags[0].Code)
	}
}

func TestLoadEnvConfig_PathVariables(t *testing.T) {
	t.Setenv(envWriteLog, "/tmp/tape-write.log")
	t.Setenv(envDebug, "/tmp/tape-debug.log")
	t.Setenv(envDebugRedraw, "/tmp/tape-redraw.log")

	cfg := LoadEnvConfig(nil)
	if cfg.WriteLogPath != "/tmp/tape-write.log" {
		t.Errorf("WriteLogPath = %q", cfg.WriteLogPath)
	}
	if cfg.DebugLogPath != "/tmp/tape-debug.log" {
		t.Errorf("DebugLogPath = %q", cfg.DebugLogPath)
	}
	if cfg.RedrawDebugLogPath != "/tmp/tape-redraw.log" {
		t.Errorf("RedrawDebugLogPath = %q", cfg.RedrawDebugLogPath)
	}
}
