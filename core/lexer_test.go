package core

import (
	"testing"
)

func TestLexerTokens(t *testing.T) {
	input := "<< /Type /Page /Count 3 /Scale -1.5 >> [ (a\\(b\\)) <4142> ] 12 0 R % note\nendobj"
	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenDictStart, "<<"},
		{TokenName, "Type"},
		{TokenName, "Page"},
		{TokenName, "Count"},
		{TokenInteger, "3"},
		{TokenName, "Scale"},
		{TokenReal, "-1.5"},
		{TokenDictEnd, ">>"},
		{TokenArrayStart, "["},
		{TokenString, "a(b)"},
		{TokenHexString, "4142"},
		{TokenArrayEnd, "]"},
		{TokenInteger, "12"},
		{TokenInteger, "0"},
		{TokenIndirectRef, "R"},
		{TokenComment, "% note"},
		{TokenKeyword, "endobj"},
		{TokenEOF, ""},
	}

	l := NewLexer([]byte(input))
	for i, w := range want {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != w.typ || string(tok.Value) != w.value {
			t.Errorf("token %d: expected %v %q, got %v %q", i, w.typ, w.value, tok.Type, tok.Value)
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"newline", `(a\nb)`, "a\nb"},
		{"octal", `(\101\102)`, "AB"},
		{"short octal", `(\7x)`, "\x07x"},
		{"nested", `(a (b) c)`, "a (b) c"},
		{"continuation", "(ab\\\r\ncd)", "abcd"},
		{"unknown escape", `(\q)`, "q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewLexer([]byte(tt.input)).NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(tok.Value) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tok.Value)
			}
		})
	}
}

func TestLexerNameEscapes(t *testing.T) {
	tok, err := NewLexer([]byte("/A#20B#2f")).NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(tok.Value) != "A B/" {
		t.Errorf("expected %q, got %q", "A B/", tok.Value)
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{"(unterminated", "<41", "<4G>", ">", ")"} {
		if _, err := NewLexer([]byte(input)).NextToken(); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestLexerSkipStreamEOL(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"\nX", 1},
		{"\r\nX", 2},
		{"\rX", 1},
		{"  \nX", 3},
		{"X", 0},
	}
	for _, tt := range tests {
		l := NewLexer([]byte(tt.input))
		l.SkipStreamEOL()
		if l.Pos() != tt.want {
			t.Errorf("%q: expected position %d, got %d", tt.input, tt.want, l.Pos())
		}
	}
}
