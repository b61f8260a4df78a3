package core

import (
	"errors"
	"fmt"
)

type (
	// ValidationError reports locally rejected input. It never corresponds
	// to a network call.
	ValidationError struct {
		Message string
	}

	// NotFoundError reports an operation against a session id that no
	// longer exists or belongs to someone else.
	NotFoundError struct {
		Message string
	}

	// ConflictError reports that the target resource already exists, such
	// as a duplicate session name for the same user.
	ConflictError struct {
		Message string
	}

	// UnauthorizedError reports a missing or expired authentication
	// context. It is propagated to the host shell, not shown as a modal.
	UnauthorizedError struct {
		Message string
	}

	// NetworkError wraps a transport-level failure or malformed response.
	NetworkError struct {
		Err error
	}

	// ServerError carries a structured error payload from the backend.
	ServerError struct {
		StatusCode int
		Message    string
	}
)

func (e *ValidationError) Error() string   { return e.Message }
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ConflictError) Error() string     { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// NewNotFound builds the conventional not-found error for a session id.
func NewNotFound(id string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("session %s not found", id)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsUnauthorized(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}
