package service

import (
	"fmt"
	"strings"
)

// Kind classifies a service failure.  The API layer picks a status code and
// problem type from it.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindCapacityExceeded
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindCapacityExceeded:
		return "bad-reservation"
	case KindValidation:
		return "validation-error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Violation names one failed constraint on one input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error value returned by every BookingService operation that
// fails for a domain reason.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Is reports whether target is an *Error of the same kind, so the sentinels
// below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrCapacityExceeded = &Error{Kind: KindCapacityExceeded, Message: "not enough free seats"}
	ErrValidation       = &Error{Kind: KindValidation, Message: "validation failed"}
)

func notFound(id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Cannot find screening with this id: %d", id)}
}

func capacityExceeded() *Error {
	return &Error{Kind: KindCapacityExceeded, Message: "Not enough free seats"}
}

// NewValidationError wraps field violations into a KindValidation error.
func NewValidationError(violations ...Violation) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed for request", Violations: violations}
}

// Violation messages shared with the HTTP validator so both layers report
// the same wording.
const (
	MsgNotBlank = "must not be blank"
	MsgNotNull  = "must not be null"
)

// MsgMin renders the message for a violated lower bound.
func MsgMin(min int) string {
	return fmt.Sprintf("must be greater than or equal to %d", min)
}
