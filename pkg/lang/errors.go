package lang

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedHeader = errors.New("not a block header")
	ErrUnknownUsage     = errors.New("unknown usage tag")
	ErrShortForm        = errors.New("form has too few fields")
	ErrEmptyForm        = errors.New("form has no type tag")
	ErrMalformedLine    = errors.New("malformed line")
)

// ParseError records a recoverable anomaly found while parsing a source.
type ParseError struct {
	Source string // "words", "symbols" or "translations:<LANG>"
	Line   int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }
