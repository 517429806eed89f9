package completion

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every failure returned by Client.Complete.
var ErrUnavailable = errors.New("completion unavailable")

// Kind classifies a completion failure.
type Kind string

const (
	KindNotConfigured Kind = "not_configured"
	KindProvider      Kind = "provider_error"
	KindTimeout       Kind = "timeout"
	KindEmpty         Kind = "empty"
)

// Error describes why a completion produced no text.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s completion %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s completion %s", e.Provider, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrUnavailable }

// Placeholder renders the user-facing stand-in text for a failed call.
func Placeholder(err error) string {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return "AI unavailable"
	}
	switch cerr.Kind {
	case KindNotConfigured:
		return "No AI provider configured"
	case KindProvider:
		if cerr.Err != nil {
			return "AI Error: " + cerr.Err.Error()
		}
	}
	return "AI unavailable"
}
