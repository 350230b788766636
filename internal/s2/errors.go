package s2

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors returned by the Semantic Scholar client.
var (
	// ErrNotFound indicates the paper or author does not exist.
	ErrNotFound = errors.New("not found in Semantic Scholar")

	// ErrAuthError indicates a missing or rejected API key.
	ErrAuthError = errors.New("Semantic Scholar authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Semantic Scholar rate limit exceeded")

	// ErrAPIError indicates a general API error.
	ErrAPIError = errors.New("Semantic Scholar API error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Semantic Scholar")

	// ErrInvalidResponse indicates a response body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from Semantic Scholar")
)

// APIError is an HTTP error status returned by the API.
type APIError struct {
	StatusCode int
	Message    string
	ID         string // paper or author id, for context
}

func (e *APIError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("Semantic Scholar API error (status %d): %s (id: %s)", e.StatusCode, e.Message, e.ID)
	}
	return fmt.Sprintf("Semantic Scholar API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrAPIError
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a rate-limit response.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

// IsTransient reports whether retrying err may succeed: network failures
// and server-side errors.
func IsTransient(err error) bool {
	if errors.Is(err, ErrNetworkError) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}
