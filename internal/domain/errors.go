package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals malformed client input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTerm signals a suggest term that is not a string.
	ErrInvalidTerm = fmt.Errorf("term has to be a string: %w", ErrValidation)
	// ErrNodeNotFound signals a content node that cannot be resolved for the requested dimensions.
	ErrNodeNotFound = errors.New("content node not found")
	// ErrBackend signals a search backend failure.
	ErrBackend = errors.New("search backend error")
	// ErrBackendUnavailable signals that no search backend is configured.
	ErrBackendUnavailable = errors.New("search backend unavailable")
)

// BackendError carries the HTTP status returned by the search backend.
type BackendError struct {
	Status int
	Reason string
}

func (e *BackendError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: status %d", ErrBackend.Error(), e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrBackend.Error(), e.Status, e.Reason)
}

func (e *BackendError) Unwrap() error { return ErrBackend }

// NewBackendError creates a backend error for a non-2xx response.
func NewBackendError(status int, reason string) error {
	return &BackendError{Status: status, Reason: reason}
}
