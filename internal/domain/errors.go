package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// ValidationError indicates invalid input. Message is sent to the caller verbatim.
	ValidationError struct {
		Message string
	}

	// ProviderNotConfiguredError indicates a missing provider credential on the server.
	// This is a configuration error, not a request error.
	ProviderNotConfiguredError struct {
		Provider string // Display name, e.g. "OpenAI"
	}

	// QuotaExceededError indicates a free-tier user has used all free generations.
	QuotaExceededError struct {
		Message string
	}
)

func (e *ValidationError) Error() string { return e.Message }
func (e *ProviderNotConfiguredError) Error() string {
	return e.Provider + " API Key not configured"
}
func (e *QuotaExceededError) Error() string { return e.Message }

func (e *ValidationError) StatusCode() int            { return http.StatusBadRequest }
func (e *ProviderNotConfiguredError) StatusCode() int { return http.StatusInternalServerError }
func (e *QuotaExceededError) StatusCode() int         { return http.StatusForbidden }

// Is allows errors.Is() to match the typed errors against their sentinels
func (e *ValidationError) Is(target error) bool            { return target == ErrValidation }
func (e *ProviderNotConfiguredError) Is(target error) bool { return target == ErrProviderNotConfigured }
func (e *QuotaExceededError) Is(target error) bool         { return target == ErrFreeTrialExpired }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrFreeTrialExpired      = errors.New("free trial has expired")
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Fixed response bodies shared by every route.
const (
	MsgUnauthorized        = "Unauthorized"
	MsgInternalServerError = "Internal Server Error"
	MsgMessagesRequired    = "Messages are required"
	MsgInvalidRequestBody  = "Invalid request body"
	MsgFreeTrialExpired    = "Free trial has expired. Please upgrade to pro."
	MsgUserIDRequired      = "User id is required"
)

// NewValidationError returns a ValidationError carrying msg.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
