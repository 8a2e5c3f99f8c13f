package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrParse         = errors.New("parse error")
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidValue  = errors.New("invalid value")
)

// ParseError reports a whole-pass boundary violation in a dump file: a guard
// line that never appeared, or an entry cut off by the end of the input.
// Line is the last line read before the violation; zero when unknown.
type ParseError struct {
	Source   string
	Line     int
	Expected string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("cannot parse %s:%d: expected %s", e.Source, e.Line, e.Expected)
	}
	return fmt.Sprintf("cannot parse %s: expected %s", e.Source, e.Expected)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// NewParseError creates a ParseError for the given source.
func NewParseError(source, expected string) *ParseError {
	return &ParseError{Source: source, Expected: expected}
}

// NewParseErrorAt creates a ParseError positioned after the given line.
func NewParseErrorAt(source string, line int, expected string) *ParseError {
	return &ParseError{Source: source, Line: line, Expected: expected}
}

// SourceError reports that none of the candidate files of a logical source exist.
type SourceError struct {
	Source string
	Tried  []string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: not found (tried %s)", e.Source, strings.Join(e.Tried, ", "))
}

func (e *SourceError) Unwrap() error { return ErrNotFound }
