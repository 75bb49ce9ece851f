package parser

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// ParseError represents a lexing or parsing failure with position
// information. It aborts linting of the document.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	errUnexpectedToken    = "unexpected %s, expected %s"
	errUnterminatedString = "unterminated string literal"
	errUnterminatedQuote  = "unterminated quoted identifier"
	errUnterminatedBlock  = "unterminated block comment"
	errIllegalChar        = "illegal character %q"
)
