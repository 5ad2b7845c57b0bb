package bridge

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/mattjoyce/taskdesk/internal/shell"
)

// ValidateToken returns true if provided matches expected.
func ValidateToken(provided, expected string) bool {
	if expected == "" || provided == "" {
		return false
	}
	if len(provided) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// ExtractToken extracts a token from an Authorization: Bearer <token> header.
func ExtractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing Authorization header")
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errors.New("invalid Authorization header format")
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

// authMiddleware enforces the bearer token when one is configured.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.Token == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := ExtractToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, &shell.CommandError{Kind: kindUnauthorized, Message: err.Error()})
			return
		}
		if !ValidateToken(token, s.config.Token) {
			writeError(w, http.StatusUnauthorized, &shell.CommandError{Kind: kindUnauthorized, Message: "invalid token"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
