package identity

import (
	"fmt"
)

// StoreError is returned when the user store fails during resolution.
// The login cannot proceed and the caller should respond with a server error.
type StoreError struct {
	// Op is the store operation that failed.
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error in %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when the external profile lacks data required for resolution.
// The login should be treated as declined.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid profile field %q: %s", e.Field, e.Reason)
}
