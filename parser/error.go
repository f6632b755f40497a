// Package parser builds an AST from a Mandrill token stream using
// recursive descent.
package parser

import "fmt"

// SyntaxError reports a parse failure at a specific source position.
type SyntaxError struct {
	Line    int32
	Column  int
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 Mandrill syntax error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}

func newSyntaxError(line int32, column int, format string, args ...any) SyntaxError {
	return SyntaxError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
