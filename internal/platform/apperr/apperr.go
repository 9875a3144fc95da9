package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so handlers can map it to a status code and
// tests can assert on the failure class instead of message text.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: the resource id/name does not exist.
	KindNotFound
	// KindUnauthorized: the bearer credential is missing or invalid.
	KindUnauthorized
	// KindForbidden: the resource exists but the caller lacks the tier.
	KindForbidden
	// KindConflict: a name collision (e.g. table identifier already taken).
	KindConflict
	// KindValidation: malformed input, bad file type, reserved column name.
	KindValidation
	// KindBackend: the object-storage or relational-store call itself failed.
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Status follows the original API's convention: not-found is 404, auth
// failures are 403, permission/validation/conflict failures are all 400,
// backend failures are 500.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindForbidden, KindConflict, KindValidation:
		return http.StatusBadRequest
	case KindBackend:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		if e.Detail != "" {
			return fmt.Sprintf("%s: %v", e.Detail, e.Err)
		}
		return e.Err.Error()
	}
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two *Errors by kind, so sentinel-style checks
// like errors.Is(err, apperr.NotFound("")) work.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func NotFound(detail string) *Error     { return New(KindNotFound, detail) }
func Unauthorized(detail string) *Error { return New(KindUnauthorized, detail) }
func Forbidden(detail string) *Error    { return New(KindForbidden, detail) }
func Conflict(detail string) *Error     { return New(KindConflict, detail) }
func Validation(detail string) *Error   { return New(KindValidation, detail) }
func Backend(detail string, err error) *Error {
	return Wrap(KindBackend, detail, err)
}

// KindOf reports the kind carried by err, or KindUnknown when err was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf maps err to an HTTP status, defaulting to 500 for errors that
// escaped classification.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Status()
	}
	return http.StatusInternalServerError
}
