package provider

import "fmt"

// KindAPIError tags every failure the adapter surfaces to callers.
const KindAPIError = "API_ERR"

// APIError describes a failed provider interaction. Status carries the
// HTTP status of the last response (0 when the request never completed),
// Raw the raw response body, and Cause the underlying error if any.
type APIError struct {
	Kind    string
	Status  int
	Message string
	Raw     string
	Cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewAPIError builds an APIError; other packages reporting provider-shaped
// failures (speech) use it so callers see one error shape everywhere.
func NewAPIError(status int, message, raw string, cause error) *APIError {
	return &APIError{
		Kind:    KindAPIError,
		Status:  status,
		Message: message,
		Raw:     raw,
		Cause:   cause,
	}
}
