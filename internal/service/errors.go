package service

import (
	"fmt"
)

// ServiceError is returned when the service answers with a non-2xx status or
// with a body that cannot be decoded.
type ServiceError struct {
	Endpoint   string
	StatusCode int
	// Body holds at most the first 512 bytes of the response.
	Body string
	// Err is the decode error for a malformed 2xx body.
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bluebird %s: malformed response: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("bluebird %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NetworkError is returned when no HTTP response was received.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("bluebird %s: request failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
