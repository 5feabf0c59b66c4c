package contentstream

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tsawler/pdfsegment/core"
)

// Operation represents a single content stream operation consisting of an
// operator and the operands that preceded it.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser parses PDF content streams into a sequence of operations. The
// same syntax carries ToUnicode CMaps, which are parsed with it too.
type Parser struct {
	lexer    *core.Lexer
	operands []core.Object
	ops      []Operation
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{lexer: core.NewLexer(data)}
}

// Parse returns all operations in order. On a syntax error it returns the
// operations parsed so far together with the error, so callers can keep
// whatever text preceded the damage.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		tok, err := p.next()
		if err != nil {
			return p.ops, err
		}
		if tok.Type == core.TokenEOF {
			return p.ops, nil
		}

		if tok.Type == core.TokenKeyword {
			switch kw := string(tok.Value); kw {
			case "true", "false", "null":
				p.operands = append(p.operands, keywordValue(kw))
			case "BI":
				if err := p.skipInlineImage(); err != nil {
					return p.ops, err
				}
			default:
				p.emit(kw)
			}
			continue
		}

		obj, err := p.operand(tok)
		if err != nil {
			return p.ops, fmt.Errorf("at position %d: %w", tok.Pos, err)
		}
		if obj != nil {
			p.operands = append(p.operands, obj)
		}
	}
}

// next returns the next non-comment token, stepping over stray braces and
// parentheses that some producers leave behind.
func (p *Parser) next() (*core.Token, error) {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			pos := p.lexer.Pos()
			data := p.lexer.Data()
			if pos < len(data) && bytes.IndexByte([]byte("{})>"), data[pos]) >= 0 {
				p.lexer.SetPos(pos + 1)
				continue
			}
			return nil, err
		}
		if tok.Type != core.TokenComment {
			return tok, nil
		}
	}
}

func (p *Parser) emit(operator string) {
	p.ops = append(p.ops, Operation{Operator: operator, Operands: p.operands})
	p.operands = nil
}

func keywordValue(kw string) core.Object {
	switch kw {
	case "true":
		return core.Bool(true)
	case "false":
		return core.Bool(false)
	}
	return core.Null{}
}

// operand converts a token (and, for arrays and dictionaries, the tokens
// that follow it) into an object. A stray closing bracket yields nil.
func (p *Parser) operand(tok *core.Token) (core.Object, error) {
	switch tok.Type {
	case core.TokenInteger:
		if v, err := strconv.ParseInt(string(tok.Value), 10, 64); err == nil {
			return core.Int(v), nil
		}
		return parseReal(tok.Value), nil
	case core.TokenReal:
		return parseReal(tok.Value), nil
	case core.TokenString:
		return core.String(tok.Value), nil
	case core.TokenHexString:
		return core.String(decodeHex(tok.Value)), nil
	case core.TokenName:
		return core.Name(tok.Value), nil
	case core.TokenArrayStart:
		return p.array()
	case core.TokenDictStart:
		return p.dict()
	case core.TokenKeyword:
		return keywordValue(string(tok.Value)), nil
	case core.TokenArrayEnd, core.TokenDictEnd, core.TokenIndirectRef:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %q", tok.Value)
}

func (p *Parser) array() (core.Object, error) {
	arr := core.Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case core.TokenEOF:
			return nil, fmt.Errorf("unclosed array")
		case core.TokenArrayEnd:
			return arr, nil
		}
		obj, err := p.operand(tok)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			arr = append(arr, obj)
		}
	}
}

func (p *Parser) dict() (core.Object, error) {
	dict := core.Dict{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case core.TokenEOF:
			return nil, fmt.Errorf("unclosed dictionary")
		case core.TokenDictEnd:
			return dict, nil
		case core.TokenName:
		default:
			return nil, fmt.Errorf("dictionary key must be a name, got %q", tok.Value)
		}
		key := string(tok.Value)

		valTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if valTok.Type == core.TokenDictEnd {
			dict[key] = core.Null{}
			return dict, nil
		}
		val, err := p.operand(valTok)
		if err != nil {
			return nil, err
		}
		dict[key] = val
	}
}

// skipInlineImage consumes "BI <key value>... ID <data> EI" and records a
// single BI operation carrying the image dictionary. The data ends at the
// first "EI" that stands alone between whitespace.
func (p *Parser) skipInlineImage() error {
	params := core.Dict{}
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		if tok.Type == core.TokenEOF {
			return fmt.Errorf("inline image without ID")
		}
		if tok.Type == core.TokenKeyword && string(tok.Value) == "ID" {
			break
		}
		if tok.Type != core.TokenName {
			continue
		}
		valTok, err := p.next()
		if err != nil {
			return err
		}
		val, err := p.operand(valTok)
		if err != nil {
			return err
		}
		params[string(tok.Value)] = val
	}

	data := p.lexer.Data()
	start := p.lexer.Pos() + 1 // single whitespace after ID
	for i := start; i+1 < len(data); i++ {
		if data[i] != 'E' || data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isWhitespace(data[i-1])
		after := i+2 >= len(data) || isWhitespace(data[i+2])
		if before && after {
			p.lexer.SetPos(i + 2)
			p.operands = []core.Object{params}
			p.emit("BI")
			return nil
		}
	}
	return fmt.Errorf("inline image without EI")
}

func parseReal(b []byte) core.Real {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0
	}
	return core.Real(f)
}

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

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
