package format

import (
	"errors"
	"fmt"
)

// Fallback is the text shown in place of a template that failed to expand.
const Fallback = "Error"

var (
	// ErrFieldNotFound is returned when a placeholder names an unknown
	// token or a path that does not resolve against the data.
	ErrFieldNotFound = errors.New("field not found")
	// ErrTemplateSyntax is returned for malformed placeholders or format specs.
	ErrTemplateSyntax = errors.New("template syntax error")
	// ErrFormat is returned when a format spec does not apply to the
	// resolved value, such as a precision on an integer.
	ErrFormat = errors.New("format not applicable to value")
)

// Error describes a failed expansion. Kind is one of the sentinel errors
// above and is what errors.Is matches against.
type Error struct {
	Kind   error
	Token  string
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Token != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Token)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

func syntaxError(token, detail string) *Error {
	return &Error{Kind: ErrTemplateSyntax, Token: token, Detail: detail}
}

func formatError(token, detail string) *Error {
	return &Error{Kind: ErrFormat, Token: token, Detail: detail}
}
