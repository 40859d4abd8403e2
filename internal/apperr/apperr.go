// Package apperr carries the error taxonomy shared by the ledgers and the
// HTTP layer: every failure a handler can see is one of these kinds, and the
// kind alone decides the response status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the transport layer.
type Kind string

const (
	KindValidation Kind = "validation"     // missing or malformed field
	KindNotFound   Kind = "not_found"      // unknown id/username/email
	KindConflict   Kind = "conflict"       // duplicate unique key
	KindCredential Kind = "credential"     // bad login
	KindExhausted  Kind = "exhausted"      // username generation gave up; retryable
	KindForbidden  Kind = "forbidden"      // authenticated but not allowed
	KindStorage    Kind = "storage"        // persistence failure
)

// Error is a kinded error with a user-presentable message.
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

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func Credential(msg string) *Error { return &Error{Kind: KindCredential, Message: msg} }
func Exhausted(msg string) *Error  { return &Error{Kind: KindExhausted, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }

// Storage wraps an unexpected persistence failure.
func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf extracts the kind of err; anything unclassified counts as storage.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// MessageOf returns the user-presentable message of err, or a generic one.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Unexpected server error"
}

// HTTPStatus maps an error kind to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindCredential:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindExhausted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
