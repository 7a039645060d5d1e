// Package boterr defines the failure taxonomy shared by every stage of update
// handling. Each failure is terminal for the update being processed.
package boterr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the stage that produced it.
type Kind int

const (
	// KindEnvironment marks missing or invalid process configuration.
	KindEnvironment Kind = iota + 1
	// KindParsing marks an inbound payload that does not match the update shape.
	KindParsing
	// KindDelivery marks a failed outbound call to the messaging platform.
	KindDelivery
	// KindStore marks a failed conversation store call.
	KindStore
)

// String returns the short kind name used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindParsing:
		return "parsing"
	case KindDelivery:
		return "delivery"
	case KindStore:
		return "store"
	}
	return "unknown"
}

// Error is a classified failure. Msg is the human-readable detail that ends up
// in the webhook response; Err keeps the underlying cause for logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinels for errors.Is matching by kind.
var (
	ErrEnvironment = &Error{Kind: KindEnvironment}
	ErrParsing     = &Error{Kind: KindParsing}
	ErrDelivery    = &Error{Kind: KindDelivery}
	ErrStore       = &Error{Kind: KindStore}
)

// Error renders the description returned to the webhook caller.
func (e *Error) Error() string {
	switch e.Kind {
	case KindEnvironment:
		return fmt.Sprintf("Environment error occurred while executing function: '%s'.", e.Msg)
	case KindParsing:
		return fmt.Sprintf("Error while parsing structure: '%s'.", e.Msg)
	case KindDelivery:
		return fmt.Sprintf("Error while sending a network message: '%s'.", e.Msg)
	case KindStore:
		return fmt.Sprintf("Error while recording an application state: '%s'.", e.Msg)
	}
	return e.Msg
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Environment builds a configuration failure.
func Environment(msg string) *Error {
	return &Error{Kind: KindEnvironment, Msg: msg}
}

// Parsing builds a payload decoding failure.
func Parsing(msg string, cause error) *Error {
	return &Error{Kind: KindParsing, Msg: msg, Err: cause}
}

// Delivery builds an outbound delivery failure.
func Delivery(msg string, cause error) *Error {
	return &Error{Kind: KindDelivery, Msg: msg, Err: cause}
}

// Store builds a conversation store failure.
func Store(msg string, cause error) *Error {
	return &Error{Kind: KindStore, Msg: msg, Err: cause}
}

// KindOf extracts the kind of a classified error, or 0 when err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
