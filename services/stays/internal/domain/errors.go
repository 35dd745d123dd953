package domain

import "fmt"

type ErrorKind string

const (
	KindMissingField ErrorKind = "MISSING_FIELD"
	KindInvalidInput ErrorKind = "INVALID_INPUT"
	KindInvalidRange ErrorKind = "INVALID_RANGE"
	KindPastCheckIn  ErrorKind = "PAST_CHECK_IN"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindWrongRole    ErrorKind = "WRONG_ROLE"
	KindNotOwner     ErrorKind = "NOT_OWNER"
)

// Error is the validation/authorization outcome returned by the domain.
// Callers compare with errors.Is against the Err* sentinels; Field and
// Message never take part in matching.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	// A foreign accommodation is reported as missing so that its existence
	// does not leak to other hosts.
	return e.Kind == KindNotOwner && t.Kind == KindNotFound
}

var (
	ErrMissingField = &Error{Kind: KindMissingField, Message: "missing required fields"}
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrInvalidRange = &Error{Kind: KindInvalidRange, Message: "check-out must be after check-in"}
	ErrPastCheckIn  = &Error{Kind: KindPastCheckIn, Message: "check-in cannot be in the past"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrWrongRole    = &Error{Kind: KindWrongRole, Message: "role not permitted"}
	ErrNotOwner     = &Error{Kind: KindNotOwner, Message: "accommodation not found or not authorized"}
)

func missing(field string) error {
	return &Error{Kind: KindMissingField, Field: field, Message: "is required"}
}

func invalid(field, msg string) error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: msg}
}

func notFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func wrongRole(msg string) error {
	return &Error{Kind: KindWrongRole, Message: msg}
}
