package api

import (
	"errors"
	"fmt"
)

// ErrLoginRequired is returned whenever the backend rejects a call with
// 401/403. Callers treat it as "go back to login"; every other error is
// surfaced inline.
var ErrLoginRequired = errors.New("login required")

// APIError carries a structured backend error body ({"error": "..."})
// unchanged. Message may be empty when the backend returned no body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

// UserMessage converts any operation error into the single human-readable
// string shown to the user: the backend's error field verbatim when present,
// otherwise a generic per-operation fallback.
func UserMessage(err error, operation string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fmt.Sprintf("An error occurred during %s.", operation)
}
