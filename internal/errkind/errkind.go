// Package errkind classifies engine errors by taxonomy so callers can decide
// whether a failure is fatal for the whole run or should be skipped per file.
package errkind

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an engine error.
type Kind int

const (
	// Io covers filesystem read/write failures.
	Io Kind = iota
	// Git covers any git-layer failure (open, log, blame, parse).
	Git
	// Parse covers AST/query failure on a source file.
	Parse
	// Config covers invalid input configuration.
	Config
	// Remote covers clone/checkout failure.
	Remote
	// Analysis covers internal invariant violations.
	Analysis
)

// String returns the lowercase taxonomy name.
func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case Git:
		return "git"
	case Parse:
		return "parse"
	case Config:
		return "config"
	case Remote:
		return "remote"
	case Analysis:
		return "analysis"
	default:
		return "unknown"
	}
}

// Error wraps a cause with a Kind so callers can branch on taxonomy without
// string matching.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a Kind-tagged error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a Kind-tagged error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	return false
}

// ErrRequiresGitHistory is the exact message spec.md requires for history
// analyzers invoked without a git root bound in the Analysis Context.
var ErrRequiresGitHistory = New(Git, "requires git history")
