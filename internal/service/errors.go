package service

import (
	"errors"
)

// Kind classifies a service failure; handlers map it to an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindUpstream
)

// Error is a classified failure. Message is safe to show to clients; Err
// carries the cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNoPreferences means a profile has no stored genre preferences for a kind.
var ErrNoPreferences = errors.New("no genre preferences")

func validationError(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

func unauthorizedError(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

func notFoundError(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

func conflictError(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

func upstreamError(msg string, err error) error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func internalError(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the client-safe message of err, or fallback when err
// is unclassified.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
