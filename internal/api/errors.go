package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidPayload marks a request or response that does not match its schema.
var ErrInvalidPayload = errors.New("invalid payload")

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// TransportError means no usable HTTP answer arrived (network, breaker open, bad URL).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message picks the text to show for err: the backend message when there is
// one, fallback for transport failures (or when fallback is empty, the
// transport error itself), and err.Error() otherwise.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) && fallback != "" {
		return fallback
	}
	return err.Error()
}

// IsUnauthorized reports 401/403 answers.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
