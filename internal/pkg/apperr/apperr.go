// Package apperr is the error taxonomy shared by every module: bad input,
// missing permission, state conflicts and missing entities.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
)

// Error carries a machine-readable code and, for field-level problems, the
// offending field name.
type Error struct {
	Kind  Kind
	Code  string
	Field string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Code, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Code)
}

// Is matches on kind and code only, so errors.Is(err, ErrMissingField) holds
// for every missing field.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithField returns a copy bound to field.
func (e *Error) WithField(field string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Field: field}
}

func Validation(code string) *Error    { return &Error{Kind: KindValidation, Code: code} }
func Authorization(code string) *Error { return &Error{Kind: KindAuthorization, Code: code} }
func Conflict(code string) *Error      { return &Error{Kind: KindConflict, Code: code} }
func NotFound(code string) *Error      { return &Error{Kind: KindNotFound, Code: code} }

// As unwraps err into an *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// Shared sentinels used across modules.
var (
	ErrNotPermitted    = Authorization("NotPermitted")
	ErrUnauthenticated = Authorization("Unauthenticated")
	ErrMissingField    = Validation("MissingField")
)
