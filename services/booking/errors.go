package booking

import "fmt"

// ValidationError carries a stable code for the dialog to render inline.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code, msg string) error {
	return &ValidationError{
		Code:    code,
		Message: msg,
	}
}

// StateError marks an operation attempted from the wrong dialog state.
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

func NewStateError(msg string) error {
	return &StateError{Message: msg}
}
