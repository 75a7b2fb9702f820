package domain

import "errors"

// ValidationError reports that caller-supplied input violates an engine
// precondition. It maps to a 4xx response at the transport layer and is
// never retried internally.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ErrNotFound is returned by repositories when a requested record does not
// exist.
var ErrNotFound = errors.New("not found")
