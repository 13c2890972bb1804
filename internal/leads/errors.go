package leads

import (
	"errors"
	"fmt"
)

// User-facing validation messages.
const (
	MsgRequiredFields = "All fields are required"
	MsgInvalidEmail   = "Invalid email format"
	MsgInvalidStatus  = "Invalid status"
	MsgDuplicate      = "You have already submitted a request recently. Please wait 24 hours."
)

// ValidationError is returned for input the caller can fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

var (
	// ErrNotFound is returned when no lead has the requested id.
	ErrNotFound = errors.New("request not found")

	// ErrDuplicate is returned when the same email was submitted inside the duplicate window.
	ErrDuplicate = &ValidationError{Message: MsgDuplicate}
)

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
