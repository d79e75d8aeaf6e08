// Package apperr defines the application error taxonomy. Every service
// operation returns errors of these kinds so callers can map them to a
// user-facing outcome instead of relying on string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer and for callers that need to
// branch on failure mode.
type Kind int

const (
	// KindUnknown covers errors that did not originate in this package.
	KindUnknown Kind = iota
	// KindValidation: caller input failed a local constraint. The store was
	// never contacted.
	KindValidation
	// KindAuth: missing/invalid credentials, unverified email, or a banned
	// account attempting a gated action.
	KindAuth
	// KindForbidden: authenticated but lacking the required role or
	// ownership.
	KindForbidden
	// KindNotFound: the requested record is absent.
	KindNotFound
	// KindRateLimited: the local limiter rejected the call before it
	// reached the store.
	KindRateLimited
	// KindConflict: the record is already in a terminal state and the
	// transition would double-apply (e.g. resolving a resolved report).
	KindConflict
	// KindStore: the backing store call failed. Never retried
	// automatically; the user re-triggers the action.
	KindStore
)

// Error carries a kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an application error.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an application error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates an underlying error with a kind and message.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message of err, falling back to
// err.Error() for foreign errors.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
