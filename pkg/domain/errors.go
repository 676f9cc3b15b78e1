package domain

import (
	"errors"
	"fmt"
)

// ErrFlowNotFound is returned when a flow/session ID cannot be found in the store.
var ErrFlowNotFound = errors.New("flow not found")

// ErrNoResults is returned when results are requested before any page completed.
var ErrNoResults = errors.New("no results collected")

// ErrStopped is returned when an operation is attempted on a stopped scheduler or session.
var ErrStopped = errors.New("scheduler stopped")

// Error is a structured failure record carrying the origin component and the
// operation that failed. Device and adapter layers surface failures in this
// shape so hosts can report them uniformly.
type Error struct {
	// Origin names the component that produced the error (e.g. "scheduler", "flow").
	Origin string
	// Context describes the operation in progress (e.g. "when presenting page 3").
	Context string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Origin, e.Context, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a structured error.
func NewError(origin, context string, err error) *Error {
	return &Error{Origin: origin, Context: context, Err: err}
}
