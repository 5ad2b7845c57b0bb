package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/go-chi/chi/v5"

	"github.com/mattjoyce/taskdesk/internal/shell"
)

// kindUnauthorized only exists at the HTTP edge; commands never return it.
const kindUnauthorized shell.ErrorKind = "unauthorized"

// InvokeResponse wraps a successful /invoke result.
type InvokeResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is returned on errors
type ErrorResponse struct {
	Error *shell.CommandError `json:"error"`
}

// HealthzResponse is returned by GET /healthz
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Commands      int    `json:"commands"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Commands:      len(s.invoker.Commands()),
	})
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"commands": s.invoker.Commands()})
}

// handleInvoke runs POST /invoke/{command}. The body is the argument object.
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "command")

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, shell.InvalidRequest("%v", err))
		return
	}

	out, err := s.invoker.Invoke(r.Context(), name, body)
	if err != nil {
		s.writeInvokeError(w, name, err)
		return
	}
	respondJSON(w, http.StatusOK, InvokeResponse{Data: out})
}

// rest adapts a REST route onto a command. Each named URL parameter is copied
// into the argument object under the same key.
func (s *Server) rest(command string, urlParams ...string) http.HandlerFunc {
	keys := make(map[string]string, len(urlParams))
	for _, p := range urlParams {
		keys[p] = p
	}
	return s.restRoute(command, keys)
}

// restAs is rest with a single URL parameter stored under a different key.
func (s *Server) restAs(command, urlParam, key string) http.HandlerFunc {
	return s.restRoute(command, map[string]string{urlParam: key})
}

func (s *Server) restRoute(command string, keys map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, shell.InvalidRequest("%v", err))
			return
		}

		extra := make(map[string]string, len(keys))
		for param, key := range keys {
			extra[key] = chi.URLParam(r, param)
		}
		params, err := mergeParams(body, extra)
		if err != nil {
			writeError(w, http.StatusBadRequest, shell.InvalidRequest("%v", err))
			return
		}

		out, err := s.invoker.Invoke(r.Context(), command, params)
		if err != nil {
			s.writeInvokeError(w, command, err)
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

func (s *Server) writeInvokeError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, shell.ErrUnknownCommand) {
		msg := fmt.Sprintf("unknown command %q", name)
		if suggestion := closestCommand(name, s.invoker.Commands()); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		writeError(w, http.StatusNotFound, shell.NotFound("%s", msg))
		return
	}

	var ce *shell.CommandError
	if !errors.As(err, &ce) {
		ce = shell.DeploymentError(err)
	}
	if ce.Kind == shell.KindDatabase || ce.Kind == shell.KindDeployment || ce.Kind == shell.KindIO {
		s.logger.Warn("command failed", "command", name, "kind", ce.Kind, "error", ce.Message)
	}
	writeError(w, statusFor(ce.Kind), ce)
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(kind shell.ErrorKind) int {
	switch kind {
	case shell.KindNotInitialized:
		return http.StatusServiceUnavailable
	case shell.KindNotFound:
		return http.StatusNotFound
	case shell.KindInvalidRequest:
		return http.StatusBadRequest
	case kindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// closestCommand returns the nearest registered name within a small edit
// distance, or "" when nothing is close.
func closestCommand(name string, commands []string) string {
	best, bestDist := "", -1
	for _, c := range commands {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

func readBody(r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return b, nil
}

// mergeParams overlays extra string fields onto a JSON object body.
func mergeParams(body json.RawMessage, extra map[string]string) (json.RawMessage, error) {
	if len(extra) == 0 {
		return body, nil
	}
	obj := map[string]json.RawMessage{}
	if len(body) > 0 && string(body) != "null" {
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("body must be a JSON object: %w", err)
		}
	}
	for k, v := range extra {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		obj[k] = b
	}
	return json.Marshal(obj)
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, err *shell.CommandError) {
	respondJSON(w, statusCode, ErrorResponse{Error: err})
}
