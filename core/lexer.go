package core

import (
	"fmt"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, endstream, etc.
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R (after two numbers)
)

// Token represents a lexical token. Value holds decoded bytes for strings
// and names, and the raw text otherwise.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int
}

// Lexer tokenizes PDF syntax held in memory. Working on a byte slice lets
// the parser jump to xref offsets and scan past damaged stream lengths.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer positioned at the start of data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current byte offset
func (l *Lexer) Pos() int { return l.pos }

// SetPos moves the lexer to an absolute offset, clamped to the input
func (l *Lexer) SetPos(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.data) {
		pos = len(l.data)
	}
	l.pos = pos
}

// Data returns the underlying input
func (l *Lexer) Data() []byte { return l.data }

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.data) {
		return &Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	b := l.data[l.pos]
	switch b {
	case '%':
		return l.readComment(), nil
	case '[':
		l.pos++
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: start}, nil
	case ']':
		l.pos++
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.peekAt(1) == '<' {
			l.pos += 2
			return &Token{Type: TokenDictStart, Value: []byte("<<"), Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.peekAt(1) == '>' {
			l.pos += 2
			return &Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: start}, nil
		}
		return nil, fmt.Errorf("unexpected '>' at position %d", start)
	case '/':
		return l.readName()
	case ')', '{', '}':
		return nil, fmt.Errorf("unexpected character '%c' at position %d", b, start)
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber(), nil
	}
	return l.readKeyword(), nil
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off < len(l.data) {
		return l.data[l.pos+off]
	}
	return 0
}

// skipWhitespace skips PDF whitespace: space, tab, LF, CR, FF, NUL
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

// readComment reads from % to the end of the line
func (l *Lexer) readComment() *Token {
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
		l.pos++
	}
	return &Token{Type: TokenComment, Value: l.data[start:l.pos], Pos: start}
}

// readString reads a literal string with balanced parentheses and escapes
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.pos++ // (
	var buf []byte
	depth := 1

	for {
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated string starting at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '(':
			depth++
			buf = append(buf, b)
		case ')':
			depth--
			if depth == 0 {
				return &Token{Type: TokenString, Value: buf, Pos: start}, nil
			}
			buf = append(buf, b)
		case '\\':
			if l.pos >= len(l.data) {
				continue
			}
			next := l.data[l.pos]
			l.pos++
			switch next {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '\r':
				// line continuation
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := next - '0'
				for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
					val = val*8 + (l.data[l.pos] - '0')
					l.pos++
				}
				buf = append(buf, val)
			default:
				buf = append(buf, next)
			}
		default:
			buf = append(buf, b)
		}
	}
}

// readHexString reads <48656C6C6F> and returns the hex digits
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.pos++ // <
	var buf []byte

	for {
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated hex string starting at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			return &Token{Type: TokenHexString, Value: buf, Pos: start}, nil
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex digit '%c' at position %d", b, l.pos-1)
		}
		buf = append(buf, b)
	}
}

// readName reads /Name, resolving #xx escapes
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.pos++ // /
	var buf []byte

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
		if b == '#' && l.pos+1 < len(l.data) && isHexDigit(l.data[l.pos]) && isHexDigit(l.data[l.pos+1]) {
			buf = append(buf, hexValue(l.data[l.pos])<<4|hexValue(l.data[l.pos+1]))
			l.pos += 2
			continue
		}
		buf = append(buf, b)
	}
	return &Token{Type: TokenName, Value: buf, Pos: start}, nil
}

// readNumber reads an integer or real number
func (l *Lexer) readNumber() *Token {
	start := l.pos
	hasDecimal := false

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if b == '.' && !hasDecimal {
			hasDecimal = true
		} else if !isDigit(b) && !((b == '-' || b == '+') && l.pos == start) {
			break
		}
		l.pos++
	}

	typ := TokenInteger
	if hasDecimal {
		typ = TokenReal
	}
	return &Token{Type: typ, Value: l.data[start:l.pos], Pos: start}
}

// readKeyword reads a run of regular characters (true, obj, R, ...)
func (l *Lexer) readKeyword() *Token {
	start := l.pos
	for l.pos < len(l.data) && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	value := l.data[start:l.pos]
	if len(value) == 1 && value[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: value, Pos: start}
	}
	return &Token{Type: TokenKeyword, Value: value, Pos: start}
}

// SkipStreamEOL skips the end-of-line marker that follows the stream
// keyword: LF, CR LF, or a lone CR written by sloppy producers.
func (l *Lexer) SkipStreamEOL() {
	for l.pos < len(l.data) && (l.data[l.pos] == ' ' || l.data[l.pos] == '\t') {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
