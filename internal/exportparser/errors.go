package exportparser

import (
	"errors"
	"fmt"
)

const (
	errMessageSyntax = "export payload is not well-formed"
	errMessageFormat = "export payload shape is not recognized"
)

var (
	// ErrSyntax matches every *SyntaxError.
	ErrSyntax = errors.New(errMessageSyntax)
	// ErrFormat matches every *FormatError.
	ErrFormat = errors.New(errMessageFormat)
)

// SyntaxError reports a payload that could not be parsed as structured or markup data at all.
type SyntaxError struct {
	Format FormatKind
	Err    error
}

func (syntaxError *SyntaxError) Error() string {
	return fmt.Sprintf("%s (%s): %v", errMessageSyntax, syntaxError.Format, syntaxError.Err)
}

// Unwrap exposes the underlying decoder error.
func (syntaxError *SyntaxError) Unwrap() error {
	return syntaxError.Err
}

// Is makes errors.Is(err, ErrSyntax) succeed.
func (syntaxError *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// FormatError reports a payload that parsed but matched none of the recognized shapes.
type FormatError struct {
	Format FormatKind
	Reason string
}

func (formatError *FormatError) Error() string {
	return fmt.Sprintf("%s (%s): %s", errMessageFormat, formatError.Format, formatError.Reason)
}

// Is makes errors.Is(err, ErrFormat) succeed.
func (formatError *FormatError) Is(target error) bool {
	return target == ErrFormat
}
