// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrCatalogLoadFailed is returned when the directory listing could not be fetched.
	ErrCatalogLoadFailed = errors.New("catalog load failed")

	// ErrStaleLoad is returned when a newer load started before this one finished.
	ErrStaleLoad = errors.New("catalog load superseded by a newer load")

	// ErrInvalidFilterMode is returned for an unknown filter mode value.
	ErrInvalidFilterMode = errors.New("invalid filter mode")

	// ErrInvalidDuration is returned when a sleep timer duration is not positive.
	ErrInvalidDuration = errors.New("invalid duration: must be positive")

	// ErrObjectNotFound is returned when the backing store has no such key.
	ErrObjectNotFound = errors.New("object not found")

	// ErrPlaybackFailed is returned when playback cannot be started.
	ErrPlaybackFailed = errors.New("playback failed")

	// ErrNoItemLoaded is returned when playback is requested with no current item.
	ErrNoItemLoaded = errors.New("no item loaded")

	// ErrServiceClosed is returned by a service after Shutdown.
	ErrServiceClosed = errors.New("service closed")

	// ErrOutputClosed is returned by an audio output after Close.
	ErrOutputClosed = errors.New("audio output closed")
)

// OutputError represents an error from the audio output.
// This wraps low-level audio library errors with additional context.
type OutputError struct {
	Op      string // Operation that failed (e.g., "play", "pause", "decode")
	Source  string // Source URL (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *OutputError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("audio output %s failed for '%s': %s", e.Op, e.Source, e.Message)
	}
	return fmt.Sprintf("audio output %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *OutputError) Unwrap() error {
	return e.Err
}

// NewOutputError creates a new OutputError.
func NewOutputError(op, source, message string, err error) *OutputError {
	return &OutputError{
		Op:      op,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// RepositoryError represents an error from a repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load", "delete")
	Type    string // Repository type (e.g., "preferences", "kv")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   any    // Value that failed validation
	Message string // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "CatalogService", "SleepTimerService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// HTTPStatusError is returned by HTTP collaborators for a non-success response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// NotFound reports whether the response was a 404.
func (e *HTTPStatusError) NotFound() bool {
	return e.StatusCode == 404
}
