package errors

import (
	"errors"
	"fmt"
)

// Common error types for the audit relay
var (
	// Request errors
	ErrMissingParameter = errors.New("missing required parameter")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrAlreadyDispatched = errors.New("session already dispatched")

	// Lookup errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrScopeNotFound    = errors.New("scope not found")

	// Tenant errors
	ErrTenantNotFound = errors.New("tenant not found")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// TokenExchangeError reports a non-2xx response from a provider's token
// endpoint, carrying the provider's error body for diagnostics.
type TokenExchangeError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("%s token exchange failed: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// UpstreamError reports a non-2xx response from an authenticated upstream
// API call.
type UpstreamError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s failed: status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
