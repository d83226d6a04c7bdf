package parser

import (
	"fmt"

	"github.com/corvid-db/corvid/pkg/lexer"
)

// ParseError reports an unexpected token, naming what was expected and
// what was actually found.
type ParseError struct {
	Expected string
	Got      lexer.Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: expected %s, got %q",
		e.Got.Line, e.Got.Column, e.Expected, e.Got.Literal)
}

func newParseError(expected string, got lexer.Token) error {
	return &ParseError{Expected: expected, Got: got}
}
