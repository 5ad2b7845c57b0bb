package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Subsystems are the components that receive the configured verbosity. Any
// other component is held at WARN.
var Subsystems = []string{
	"main",
	"shell",
	"bridge",
	"deployment",
	"storage",
	"executions",
	"monitor",
	"analytics",
	"window",
}

const componentKey = "component"

var (
	once   sync.Once
	logger *slog.Logger
)

// Setup initializes the global logger.
// logic: default to INFO. If level is invalid, fallback to INFO.
func Setup(level string) {
	once.Do(func() {
		logger = New(os.Stdout, level)
		slog.SetDefault(logger)
	})
}

// New builds a JSON logger writing to w that applies level to every named
// subsystem and WARN to everything else.
func New(w io.Writer, level string) *slog.Logger {
	l := ParseLevel(level)
	// The inner handler must let DEBUG through; filtering happens per component.
	inner := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(newSubsystemHandler(inner, l, Subsystems))
}

// ParseLevel maps a verbosity string onto a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "TRACE":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the configured logger, or a default one if Setup hasn't been called.
func Get() *slog.Logger {
	if logger == nil {
		Setup("INFO")
	}
	return logger
}

// WithComponent returns a logger with the component field set.
func WithComponent(name string) *slog.Logger {
	return Get().With(slog.String(componentKey, name))
}

// subsystemHandler tracks the component attribute bound through WithAttrs and
// decides the effective minimum level from it.
type subsystemHandler struct {
	inner     slog.Handler
	level     slog.Level
	named     map[string]struct{}
	component string
}

func newSubsystemHandler(inner slog.Handler, level slog.Level, subsystems []string) *subsystemHandler {
	named := make(map[string]struct{}, len(subsystems))
	for _, s := range subsystems {
		named[s] = struct{}{}
	}
	return &subsystemHandler{inner: inner, level: level, named: named}
}

func (h *subsystemHandler) minLevel(component string) slog.Level {
	if component == "" {
		return h.level
	}
	if _, ok := h.named[component]; ok {
		return h.level
	}
	return slog.LevelWarn
}

func (h *subsystemHandler) Enabled(_ context.Context, l slog.Level) bool {
	if h.component != "" {
		return l >= h.minLevel(h.component)
	}
	// Unbound records may still carry a component attr; Handle decides.
	return l >= min(h.level, slog.LevelWarn)
}

func (h *subsystemHandler) Handle(ctx context.Context, r slog.Record) error {
	component := h.component
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == componentKey {
			component = a.Value.String()
			return false
		}
		return true
	})
	if r.Level < h.minLevel(component) {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *subsystemHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	for _, a := range attrs {
		if a.Key == componentKey {
			next.component = a.Value.String()
		}
	}
	next.inner = h.inner.WithAttrs(attrs)
	return &next
}

func (h *subsystemHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.inner = h.inner.WithGroup(name)
	return &next
}
