package lexer

import (
	"testing"

	"mandrill/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	tokens, err := New(src).Scan()
	if err != nil {
		t.Fatalf("Scan(%q) returned error: %v", src, err)
	}
	return tokens
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	tokens := scanAll(t, "if else while read put write get foo bar")
	wantKinds := []token.Kind{
		token.Keyword, token.Keyword, token.Keyword, token.Keyword,
		token.Keyword, token.Keyword, token.Keyword,
		token.Identifier, token.Identifier,
		token.EOF,
	}
	if len(tokens) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantKinds))
	}
	for i, want := range wantKinds {
		if tokens[i].Kind != want {
			t.Errorf("token %d: got kind %v, want %v", i, tokens[i].Kind, want)
		}
	}
}

func TestScanIntegerLiteralHexPayload(t *testing.T) {
	tokens := scanAll(t, "42")
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Kind != token.Literal {
		t.Fatalf("got kind %v, want Literal", tokens[0].Kind)
	}
	if tokens[0].Payload != "0x2a" {
		t.Errorf("got payload %q, want \"0x2a\"", tokens[0].Payload)
	}
}

func TestScanCharLiteral(t *testing.T) {
	cases := []struct {
		src     string
		payload string
	}{
		{"'a'", "0x61"},
		{`'\n'`, "0xa"},
		{`'\\'`, "0x5c"},
		{`'\''`, "0x27"},
	}
	for _, c := range cases {
		tokens := scanAll(t, c.src)
		if tokens[0].Payload != c.payload {
			t.Errorf("scan(%q): got payload %q, want %q", c.src, tokens[0].Payload, c.payload)
		}
	}
}

func TestScanOperators(t *testing.T) {
	tokens := scanAll(t, ">= <= == != + - * / % > < = ; ( ) { }")
	wantLexemes := []string{">=", "<=", "==", "!=", "+", "-", "*", "/", "%", ">", "<", "=", ";", "(", ")", "{", "}"}
	if len(tokens) != len(wantLexemes)+1 {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantLexemes)+1)
	}
	for i, want := range wantLexemes {
		if tokens[i].Lexeme != want {
			t.Errorf("token %d: got lexeme %q, want %q", i, tokens[i].Lexeme, want)
		}
	}
}

func TestScanRejectsIllegalCharacter(t *testing.T) {
	_, err := New("a $ b").Scan()
	if err == nil {
		t.Fatal("expected a lexical error, got nil")
	}
}

func TestScanUnterminatedCharLiteral(t *testing.T) {
	_, err := New("'a").Scan()
	if err == nil {
		t.Fatal("expected a lexical error for an unterminated character literal")
	}
}

func TestScanTracksLineAndColumn(t *testing.T) {
	tokens := scanAll(t, "a\nb")
	if tokens[0].Line != 1 {
		t.Errorf("got line %d, want 1", tokens[0].Line)
	}
	if tokens[1].Line != 2 {
		t.Errorf("got line %d, want 2", tokens[1].Line)
	}
	if tokens[0].Column != 1 {
		t.Errorf("got column %d, want 1", tokens[0].Column)
	}
	if tokens[1].Column != 1 {
		t.Errorf("got column %d, want 1", tokens[1].Column)
	}
}
