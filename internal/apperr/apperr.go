// Package apperr classifies failures so the HTTP layer can decide between a
// business-level failure envelope, a 401 and a 500.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindBusinessRule Kind = "BUSINESS_RULE"
	KindNotFound     Kind = "NOT_FOUND"
	KindAuth         Kind = "AUTH"
	KindPersistence  Kind = "PERSISTENCE"
)

// Error carries a human message meant for the caller. Err, when set, is the
// underlying cause and is only ever logged.
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

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind and message so that a wrapped copy
// still satisfies errors.Is against the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func BusinessRule(msg string) *Error {
	return &Error{Kind: KindBusinessRule, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// Persistence wraps a store failure. The message is generic on purpose; the
// cause stays in Err.
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindPersistence for anything unclassified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindPersistence
}

// IsCallerFacing reports whether err is a recoverable failure whose message
// may be shown to the caller.
func IsCallerFacing(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindBusinessRule, KindNotFound:
		return true
	default:
		return false
	}
}
