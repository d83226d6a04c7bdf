package lexer

import "fmt"

// LexError reports a malformed token: a number with a second decimal point
// or a string literal missing its closing quote.
type LexError struct {
	Message string
	Line    int
	Column  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
