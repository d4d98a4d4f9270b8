package bookings

import "errors"

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not allowed")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func validationError(msg string) error {
	return NewValidationError(msg)
}

// ConflictError rejects a request that collides with an existing booking or
// a holiday-blocked date. Date names the offending occurrence when known.
type ConflictError struct {
	Date string
	msg  string
}

func (e *ConflictError) Error() string {
	if e.Date != "" {
		return e.msg + " on " + e.Date
	}
	return e.msg
}

func NewConflictError(date, msg string) *ConflictError {
	return &ConflictError{Date: date, msg: msg}
}

func conflictError(date, msg string) error {
	return NewConflictError(date, msg)
}
