package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned before any work starts when a thread
	// count, pipeline or config value cannot be used.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTransformFailure marks a step aborted by a failing worker. The partial
	// destination is discarded.
	ErrTransformFailure = errors.New("transform failure")
)

// TransformError records which stage failed on which range.
type TransformError struct {
	Stage string
	Range Range
	Cause any
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %q on %s: %v", e.Stage, e.Range, e.Cause)
}

// Unwrap lets errors.Is match ErrTransformFailure, and the cause when it is an
// error itself.
func (e *TransformError) Unwrap() []error {
	if err, ok := e.Cause.(error); ok {
		return []error{ErrTransformFailure, err}
	}
	return []error{ErrTransformFailure}
}
