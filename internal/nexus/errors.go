package nexus

import (
	"errors"
	"fmt"
)

// TransportError reports a request that failed to reach the server or was
// answered with a non-success status.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: %s - %s", e.Method, e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeserializationError reports a response body that could not be decoded.
type DeserializationError struct {
	URL string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not a
// status failure.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
