package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestSetup(t *testing.T) {
	// Reset logger for testing
	logger = nil
	once = *new(sync.Once)

	Setup("DEBUG")
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"TRACE":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger = New(&buf, "INFO")

	l2 := WithComponent("shell")
	l2.Info("hello")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode JSON: %v", err)
	}

	if out["component"] != "shell" {
		t.Errorf("Expected component 'shell', got %v", out["component"])
	}
	if out["msg"] != "hello" {
		t.Errorf("Expected msg 'hello', got %v", out["msg"])
	}
}

func TestSubsystemFilterAppliesLevelToNamedComponents(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "DEBUG")

	l.With("component", "deployment").Debug("named debug")
	l.With("component", "third-party").Debug("unnamed debug")
	l.With("component", "third-party").Info("unnamed info")
	l.With("component", "third-party").Warn("unnamed warn")

	out := buf.String()
	if !strings.Contains(out, "named debug") {
		t.Errorf("expected debug record for named subsystem, got %q", out)
	}
	if strings.Contains(out, "unnamed debug") || strings.Contains(out, "unnamed info") {
		t.Errorf("expected unnamed subsystem held at WARN, got %q", out)
	}
	if !strings.Contains(out, "unnamed warn") {
		t.Errorf("expected warn record for unnamed subsystem, got %q", out)
	}
}

func TestSubsystemFilterRecordLevelComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "ERROR")

	l.Info("dropped", "component", "bridge")
	l.Error("kept", "component", "bridge")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("expected INFO dropped at ERROR verbosity, got %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("expected ERROR record, got %q", out)
	}
}
