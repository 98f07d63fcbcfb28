package skyapi

import (
	"fmt"
)

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return e.Operation + ": network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is an upstream response that was not a usable success: a non-2xx
// status, a status:false envelope, or a body missing the expected field.
type APIError struct {
	Operation string
	Status    int
	Message   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: upstream returned status %d: %s", e.Operation, e.Status, e.Message)
}

func missingField(op string, status int, field string) *APIError {
	return &APIError{
		Operation: op,
		Status:    status,
		Message:   "invalid response format: missing " + field,
	}
}
