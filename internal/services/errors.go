package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the transport layer can pick a status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is a caller-facing failure. Message is returned to the client verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func validationError(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func notFoundError(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func conflictError(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }
func forbiddenError(msg string) error  { return &Error{Kind: KindForbidden, Message: msg} }

// AsError unwraps err into a service Error if it carries one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a service Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}
