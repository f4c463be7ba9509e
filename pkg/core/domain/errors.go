package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller. The transport layer maps kinds to
// status codes; clients use Retryable to tell transient store trouble apart
// from input errors.
type Kind string

const (
	KindValidation Kind = "validation"
	KindFetch      Kind = "fetch"
	KindPersist    Kind = "persist"
	KindNotFound   Kind = "not_found"
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// FetchErr wraps a failed durable read.
func FetchErr(msg string, err error) error {
	return &Error{Kind: KindFetch, Message: msg, Err: err}
}

// PersistErr wraps a failed durable write.
func PersistErr(msg string, err error) error {
	return &Error{Kind: KindPersist, Message: msg, Err: err}
}

// KindOf extracts the kind of err, or "" if err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the failure is transient from the caller's point
// of view. Validation and not-found require corrected input, not a retry.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindFetch, KindPersist:
		return true
	}
	return false
}
