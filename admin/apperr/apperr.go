// Package apperr defines the closed set of error kinds the admin service
// reports. Every failure crossing a service boundary is one of these kinds;
// the HTTP layer switches on the kind to pick a status code.
package apperr

import "errors"

type Kind int

const (
	KindAuth       Kind = iota + 1 // bad credentials or registration failure
	KindFetch                      // collection read failure
	KindWrite                      // create/update/delete failure
	KindValidation                 // missing or invalid identifier/fields
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindFetch:
		return "fetch"
	case KindWrite:
		return "write"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a kind and the fixed user-facing
// message for its operation family. The message is what the dashboard shows;
// the cause only ever reaches the log.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with the given kind and user-facing message.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or zero if err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// UserMessage extracts the user-facing message from err, falling back to a
// generic one for unclassified errors.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Something went wrong. Please try again."
}
