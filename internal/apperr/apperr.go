// Package apperr carries the request-level error taxonomy shared by services and
// handlers. Anything that is not an *Error is treated as an internal failure.
package apperr

import (
	"errors"
	"net/http"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindAccessDenied
	KindNotFound
	KindConflict
)

type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
}

func (e *Error) Error() string { return e.Msg }

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// ValidationFields reports a validation failure with per-field messages.
func ValidationFields(msg string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func AccessDenied(msg string) error { return &Error{Kind: KindAccessDenied, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Msg: msg} }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, k Kind) bool { return err != nil && KindOf(err) == k }

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindAccessDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
