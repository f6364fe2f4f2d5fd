package backup

import (
	"errors"
	"fmt"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ValidationError reports snapshot data that failed to decode or did not have
// the expected structure.
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrInvalidSnapshot, e.Source)
	}
	return fmt.Sprintf("%s: %s: %v", ErrInvalidSnapshot, e.Source, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidSnapshot}
	}
	return []error{ErrInvalidSnapshot, e.Err}
}
