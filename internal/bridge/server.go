// Package bridge exposes the shell's commands to the window over a loopback
// HTTP server.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mattjoyce/taskdesk/internal/events"
)

// Invoker runs named commands. *shell.App satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, name string, params json.RawMessage) (any, error)
	Commands() []string
}

// EventSource feeds the SSE stream.
type EventSource interface {
	SnapshotSince(lastID int64) []events.Event
	SubscribePrefix(prefix string) (<-chan events.Event, func())
}

// Config holds bridge server configuration
type Config struct {
	Listen string
	// Token is the bearer token required on protected routes. Empty disables auth.
	Token          string
	AllowedOrigins []string
	// MaxBodyBytes caps request bodies; defaults to 16 MiB.
	MaxBodyBytes int64
}

// Server is the command bridge.
type Server struct {
	config    Config
	invoker   Invoker
	events    EventSource
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
}

func New(config Config, invoker Invoker, source EventSource, logger *slog.Logger) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = 16 << 20
	}
	return &Server{
		config:    config,
		invoker:   invoker,
		events:    source,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Handler returns the routed handler without binding a socket.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Listen binds the configured address. The caller passes the listener to Serve.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return nil, fmt.Errorf("bridge listen %s: %w", s.config.Listen, err)
	}
	return ln, nil
}

// Serve serves on ln until ctx is cancelled or the server fails (blocking).
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.setupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("bridge server starting", "listen", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("bridge server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// setupRoutes configures the HTTP router
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Last-Event-ID"},
	}).Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.limitBody)

		r.Get("/commands", s.handleCommands)
		r.Post("/invoke/{command}", s.handleInvoke)
		r.Get("/events", s.handleEvents)

		r.Route("/api", func(r chi.Router) {
			r.Get("/projects", s.rest("get_projects"))
			r.Post("/projects", s.rest("create_project"))
			r.Get("/projects/{id}", s.rest("get_project", "id"))
			r.Put("/projects/{id}", s.rest("update_project", "id"))
			r.Delete("/projects/{id}", s.rest("delete_project", "id"))
			r.Get("/projects/{id}/tasks", s.restAs("get_tasks", "id", "project_id"))

			r.Post("/tasks", s.rest("create_task"))
			r.Get("/tasks/{id}", s.rest("get_task", "id"))
			r.Put("/tasks/{id}", s.rest("update_task", "id"))
			r.Delete("/tasks/{id}", s.rest("delete_task", "id"))

			r.Get("/executors", s.rest("get_executors"))
		})
	})

	return r
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
