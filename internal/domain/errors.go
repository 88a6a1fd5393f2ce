package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested route, stop or vehicle does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is the umbrella for rejected input.
	ErrValidation = errors.New("validation failed")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransitionError reports a stop status change the lifecycle does not allow.
type TransitionError struct {
	From StopStatus
	To   StopStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("stop status cannot change from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrValidation }
