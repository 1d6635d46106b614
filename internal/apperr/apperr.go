// Package apperr defines the error kinds shared by the account core.
//
// Packages declare their own sentinel errors with New and wrap lower level
// failures with Wrap. Callers at the edge (the HTTP layer) only look at the
// kind and the public message; the wrapped cause stays available to
// errors.Is / errors.As and to the logs.
package apperr

import "errors"

// Kind classifies an error for callers that must not depend on its details.
type Kind uint8

const (
	Unknown Kind = iota
	Validation
	Conflict
	NotFound
	Auth
	Limit
	Store
	Hash
	Config
)

var kindNames = [...]string{
	Unknown:    "unknown",
	Validation: "validation",
	Conflict:   "conflict",
	NotFound:   "not_found",
	Auth:       "auth",
	Limit:      "limit",
	Store:      "store",
	Hash:       "hash",
	Config:     "config",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Unknown]
}

// Error is a classified error with a public message and an optional cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New returns a sentinel error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap classifies cause under kind. The public message is msg; Error()
// appends the cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{kind: kind, msg: msg, err: cause}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind reports the classification of e.
func (e *Error) Kind() Kind { return e.kind }

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Unknown
}

// Message returns the public message of the first classified error in err's
// chain, never including wrapped causes. Unclassified errors yield a generic
// message.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return "internal error"
}
