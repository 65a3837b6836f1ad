// Package apperr defines the error taxonomy shared by all core operations.
//
// Services never leak store-specific error codes; every failure is one of
// the kinds below so that handlers (and other callers) can map them to a
// user-visible outcome. Only TransientIO is eligible for caller-initiated
// retry; the core never retries on its own.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind int

const (
	// KindNotFound means a referenced document is absent.
	KindNotFound Kind = iota + 1
	// KindConflict means a state-machine precondition was violated,
	// e.g. resolving an already-resolved registration request.
	KindConflict
	// KindAuthorization means the acting principal lacks the required role.
	KindAuthorization
	// KindValidation means malformed input, e.g. an unknown position enum.
	KindValidation
	// KindTransientIO means the document store call itself failed.
	KindTransientIO
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindTransientIO:
		return "transient_io"
	default:
		return "unknown"
	}
}

// Error is a classified operation error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Authorization builds a KindAuthorization error.
func Authorization(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

// Validation builds a KindValidation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// TransientIO wraps a store/network failure.
func TransientIO(cause error, format string, args ...any) error {
	return &Error{Kind: KindTransientIO, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of err, or 0 if err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is classified as k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
