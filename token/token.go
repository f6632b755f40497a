// Package token defines the lexical tokens produced by the Mandrill lexer
// and consumed by the parser.
package token

import "fmt"

// Kind classifies a Token into one of the four categories the Mandrill
// grammar distinguishes between.
type Kind int

const (
	// Keyword is one of the reserved words in Reserved.
	Keyword Kind = iota
	// Identifier is a run of lowercase ASCII letters that is not a keyword.
	Identifier
	// Literal is an integer or character literal. Its Payload is always the
	// lowercase hex string of the literal's value, e.g. "0x2a".
	Literal
	// Operator is a punctuation or operator symbol.
	Operator
	// EOF marks the end of the token stream.
	EOF
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case Literal:
		return "literal"
	case Operator:
		return "operator"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Reserved is the set of reserved words in Mandrill. An identifier-shaped
// lexeme that appears here is tokenized as a Keyword instead.
var Reserved = map[string]bool{
	"if":    true,
	"else":  true,
	"while": true,
	"read":  true,
	"put":   true,
	"write": true,
	"get":   true,
}

// Token is a single lexical unit. Lexeme carries the original source text;
// Payload carries the interpreted value for Literal tokens (a lowercase hex
// string) and is otherwise equal to Lexeme.
type Token struct {
	Kind    Kind
	Lexeme  string
	Payload string
	Line    int32
	Column  int
}

// New constructs a Token whose Payload equals its Lexeme, which is the
// common case for keywords, identifiers, and operators.
func New(kind Kind, lexeme string, line int32, column int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Payload: lexeme, Line: line, Column: column}
}

// NewLiteral constructs a Literal token with an explicit hex payload,
// distinct from the lexeme that produced it (e.g. lexeme "42", payload
// "0x2a", or lexeme "'a'", payload "0x61").
func NewLiteral(lexeme, payload string, line int32, column int) Token {
	return Token{Kind: Literal, Lexeme: lexeme, Payload: payload, Line: line, Column: column}
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s %q line:%d col:%d}", t.Kind, t.Payload, t.Line, t.Column)
}

// IsOperator reports whether the token is an Operator token with the given
// symbol, e.g. tok.IsOperator("+").
func (t Token) IsOperator(symbol string) bool {
	return t.Kind == Operator && t.Lexeme == symbol
}

// IsKeyword reports whether the token is a Keyword token with the given word.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == Keyword && t.Lexeme == word
}
