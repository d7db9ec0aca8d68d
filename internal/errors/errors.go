package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrSessionExpired = errors.New("session expired")
	ErrNotConnected   = errors.New("not connected")
	ErrStreamClosed   = errors.New("stream closed")
	ErrNoStreamBody   = errors.New("stream response has no body")
	ErrNetworkError   = errors.New("network error")
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// SyncError wraps an error with a user-friendly suggestion.
type SyncError struct {
	Err        error
	Suggestion string
}

func (e *SyncError) Error() string {
	return e.Err.Error()
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &SyncError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) && syncErr.Suggestion != "" {
		return syncErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Auth errors: the token is dead, retrying is pointless
	if errors.Is(err, ErrSessionExpired) || strings.Contains(errStr, "session expired") ||
		strings.Contains(errStr, "401") {
		return "Set DJSYNC_TOKEN to a fresh bearer token and reconnect"
	}

	if errors.Is(err, ErrNotConnected) {
		return "Call connect first, or check that the stream URL is configured"
	}

	// Network errors
	if errors.Is(err, ErrNetworkError) || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Create ~/.djsyncrc or set DJSYNC_STREAM_URL"
	}

	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "The stream server is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
