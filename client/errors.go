package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by GetSession when the orchestrator reports that no
// session exists with the given ID. It is distinguished from the generic
// RequestFailedError because several scenarios assert on absence directly.
// Test with errors.Is.
var ErrNotFound = errors.New("session not found")

// TransportError indicates that the request never produced an HTTP response:
// connection refused, timeout, DNS failure, and so on.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestFailedError indicates that the orchestrator rejected the request with a
// non-success status code. Body carries whatever diagnostic text it returned.
type RequestFailedError struct {
	Op     string
	Status int
	Body   string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Op, e.Status, e.Body)
}

// DecodeError indicates that a successful response had a body that did not match
// the expected session shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: failed to parse response: %s", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
