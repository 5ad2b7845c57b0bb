package shell

import (
	"errors"
	"fmt"

	"github.com/mattjoyce/taskdesk/internal/deployment"
)

// ErrorKind classifies failures returned across the command boundary.
type ErrorKind string

const (
	KindNotInitialized ErrorKind = "not_initialized"
	KindNotFound       ErrorKind = "not_found"
	KindDatabase       ErrorKind = "database"
	KindDeployment     ErrorKind = "deployment"
	KindIO             ErrorKind = "io"
	// KindInvalidRequest covers malformed command parameters.
	KindInvalidRequest ErrorKind = "invalid_request"
)

// CommandError is the only error type commands return to the window.
type CommandError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on kind so callers can write errors.Is(err, &CommandError{Kind: KindNotFound}).
func (e *CommandError) Is(target error) bool {
	t, ok := target.(*CommandError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func NotInitialized() *CommandError {
	return &CommandError{Kind: KindNotInitialized, Message: "Deployment not initialized"}
}

func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func DatabaseError(err error) *CommandError {
	return &CommandError{Kind: KindDatabase, Message: err.Error()}
}

func DeploymentError(err error) *CommandError {
	return &CommandError{Kind: KindDeployment, Message: err.Error()}
}

func IOError(err error) *CommandError {
	return &CommandError{Kind: KindIO, Message: err.Error()}
}

func InvalidRequest(format string, args ...any) *CommandError {
	return &CommandError{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of a command error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// storeError converts a persistence failure. Missing records surface as
// NotFound and rejected field values as Deployment errors; the rest keep the
// Database kind with the original message.
func storeError(err error) *CommandError {
	switch {
	case errors.Is(err, deployment.ErrProjectNotFound), errors.Is(err, deployment.ErrTaskNotFound):
		return &CommandError{Kind: KindNotFound, Message: err.Error()}
	case errors.Is(err, deployment.ErrInvalidStatus):
		return DeploymentError(err)
	default:
		return DatabaseError(err)
	}
}

// engineError converts a failure from a deployment-level operation.
func engineError(err error) *CommandError {
	switch {
	case errors.Is(err, deployment.ErrProjectNotFound), errors.Is(err, deployment.ErrTaskNotFound):
		return &CommandError{Kind: KindNotFound, Message: err.Error()}
	default:
		return DeploymentError(err)
	}
}
