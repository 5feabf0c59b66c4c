package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver resolves indirect references. The parser uses it for
// stream /Length values stored as separate objects.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects using a Lexer with two tokens of lookahead.
type Parser struct {
	lexer        *Lexer
	currentToken *Token
	peekToken    *Token
	resolver     ReferenceResolver
}

// NewParser creates a parser positioned at the start of data.
func NewParser(data []byte) *Parser {
	return NewParserAt(data, 0)
}

// NewParserAt creates a parser positioned at offset within data.
func NewParserAt(data []byte, offset int) *Parser {
	p := &Parser{lexer: NewLexer(data)}
	p.lexer.SetPos(offset)
	p.reset()
	return p
}

// SetReferenceResolver sets the resolver used for indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// reset reloads both lookahead tokens from the lexer's current position.
func (p *Parser) reset() {
	p.currentToken = nil
	p.peekToken = nil
	p.nextToken()
	p.nextToken()
}

// nextToken shifts the lookahead. Nothing is read past a "stream" keyword
// because binary data follows it.
func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	if p.currentToken != nil && p.currentToken.Type == TokenKeyword && string(p.currentToken.Value) == "stream" {
		p.peekToken = nil
		return
	}
	token, err := p.lexer.NextToken()
	if err != nil {
		// surface lexer errors as an unusable token so callers report position
		token = &Token{Type: TokenEOF, Value: []byte(err.Error()), Pos: p.lexer.Pos()}
	}
	p.peekToken = token
}

func (p *Parser) skipComments() {
	for p.currentToken != nil && p.currentToken.Type == TokenComment {
		p.nextToken()
	}
}

// ParseObject parses the next direct object or indirect reference.
func (p *Parser) ParseObject() (Object, error) {
	p.skipComments()
	if p.currentToken == nil {
		return nil, fmt.Errorf("unexpected end of input")
	}

	tok := p.currentToken
	switch tok.Type {
	case TokenEOF:
		if len(tok.Value) > 0 {
			return nil, fmt.Errorf("syntax error at position %d: %s", tok.Pos, tok.Value)
		}
		return nil, io.EOF

	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			p.nextToken()
			return Null{}, nil
		case "true":
			p.nextToken()
			return Bool(true), nil
		case "false":
			p.nextToken()
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)

	case TokenInteger:
		return p.parseNumber()

	case TokenReal:
		p.nextToken()
		return parseReal(tok.Value), nil

	case TokenString:
		p.nextToken()
		return String(tok.Value), nil

	case TokenHexString:
		p.nextToken()
		return String(decodeHex(tok.Value)), nil

	case TokenName:
		p.nextToken()
		return Name(tok.Value), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()
	}
	return nil, fmt.Errorf("unexpected token %q at position %d", tok.Value, tok.Pos)
}

// parseReal parses a real number, treating malformed values such as a lone
// "-" as zero.
func parseReal(b []byte) Real {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0
	}
	return Real(f)
}

// decodeHex converts hex digits to bytes, padding an odd final digit with 0.
func decodeHex(digits []byte) []byte {
	out := make([]byte, (len(digits)+1)/2)
	for i, d := range digits {
		v := hexValue(d)
		if i%2 == 0 {
			out[i/2] = v << 4
		} else {
			out[i/2] |= v
		}
	}
	return out
}

// parseNumber parses an integer, or an indirect reference when the
// lookahead shows "num gen R".
func (p *Parser) parseNumber() (Object, error) {
	first, err := strconv.ParseInt(string(p.currentToken.Value), 10, 64)
	if err != nil {
		v := parseReal(p.currentToken.Value)
		p.nextToken()
		return v, nil
	}

	if p.peekToken != nil && p.peekToken.Type == TokenInteger {
		second, err := strconv.ParseInt(string(p.peekToken.Value), 10, 64)
		if err == nil {
			// Advancing is safe: if no R follows, the second integer is
			// simply the next object.
			p.nextToken()
			if p.peekToken != nil && p.peekToken.Type == TokenIndirectRef {
				p.nextToken()
				p.nextToken()
				return IndirectRef{Number: int(first), Generation: int(second)}, nil
			}
			return Int(first), nil
		}
	}

	p.nextToken()
	return Int(first), nil
}

// parseArray parses "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	p.nextToken()
	arr := Array{}
	for {
		p.skipComments()
		if p.currentToken == nil || p.currentToken.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected EOF in array")
		}
		if p.currentToken.Type == TokenArrayEnd {
			p.nextToken()
			return arr, nil
		}
		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing array element: %w", err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses "<< /Key value ... >>".
func (p *Parser) parseDict() (Object, error) {
	p.nextToken()
	dict := make(Dict)
	for {
		p.skipComments()
		if p.currentToken == nil || p.currentToken.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected EOF in dictionary")
		}
		if p.currentToken.Type == TokenDictEnd {
			p.nextToken()
			return dict, nil
		}
		if p.currentToken.Type != TokenName {
			return nil, fmt.Errorf("expected name for dictionary key at position %d, got %q", p.currentToken.Pos, p.currentToken.Value)
		}
		key := string(p.currentToken.Value)
		p.nextToken()

		// A key directly followed by >> is malformed; treat the value as null.
		if p.currentToken != nil && p.currentToken.Type == TokenDictEnd {
			dict[key] = Null{}
			continue
		}

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}
		dict[key] = value
	}
}

// ParseIndirectObject parses "num gen obj <object> endobj", including a
// stream body when the object is a stream.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	p.skipComments()

	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("obj") {
		return nil, fmt.Errorf("expected 'obj' keyword for object %d", num)
	}
	p.nextToken()

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object value: %w", err)
	}

	if p.atKeyword("stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("stream must follow a dictionary")
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream: %w", err)
		}
		obj = stream
	}

	// Missing endobj is tolerated; many writers get it wrong and the object
	// itself is already complete.
	if p.atKeyword("endobj") {
		p.nextToken()
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

func (p *Parser) expectInt(what string) (int, error) {
	if p.currentToken == nil || p.currentToken.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s", what)
	}
	v, err := strconv.Atoi(string(p.currentToken.Value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", what, err)
	}
	p.nextToken()
	return v, nil
}

func (p *Parser) atKeyword(kw string) bool {
	return p.currentToken != nil && p.currentToken.Type == TokenKeyword && string(p.currentToken.Value) == kw
}

// parseStream reads stream data after the "stream" keyword. When /Length is
// missing or wrong the data is delimited by the next "endstream" instead.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	p.lexer.SkipStreamEOL()
	data := p.lexer.Data()
	start := p.lexer.Pos()

	length, ok := p.streamLength(dict)
	end := start + length
	if !ok || end > len(data) || !endstreamFollows(data, end) {
		idx := bytes.Index(data[start:], []byte("endstream"))
		if idx < 0 {
			return nil, fmt.Errorf("endstream not found for stream at position %d", start)
		}
		end = start + idx
		// drop the EOL that precedes endstream
		if end > start && data[end-1] == '\n' {
			end--
		}
		if end > start && data[end-1] == '\r' {
			end--
		}
	}

	raw := data[start:end]
	p.lexer.SetPos(end)
	tok, err := p.lexer.NextToken()
	if err != nil || tok.Type != TokenKeyword || string(tok.Value) != "endstream" {
		return nil, fmt.Errorf("expected 'endstream' keyword at position %d", end)
	}
	p.reset()

	return &Stream{Dict: dict, Data: raw}, nil
}

func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), v >= 0
	case IndirectRef:
		if p.resolver == nil {
			return 0, false
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, false
		}
		n, ok := resolved.(Int)
		return int(n), ok && n >= 0
	}
	return 0, false
}

// endstreamFollows reports whether "endstream" starts after optional
// whitespace at offset.
func endstreamFollows(data []byte, offset int) bool {
	for offset < len(data) && isWhitespace(data[offset]) {
		offset++
	}
	return bytes.HasPrefix(data[offset:], []byte("endstream"))
}
