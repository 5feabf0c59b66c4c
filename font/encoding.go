package font

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfsegment/core"
)

// Encoding maps single-byte character codes of a simple font to Unicode.
// A zero rune means the code has no known text.
type Encoding struct {
	name  string
	table [256]rune
}

// Predefined simple font encodings.
var (
	StandardEncoding = newStandardEncoding()
	WinAnsiEncoding  = newCharmapEncoding("WinAnsiEncoding", charmap.Windows1252)
	MacRomanEncoding = newCharmapEncoding("MacRomanEncoding", charmap.Macintosh)
)

// GetEncoding returns the predefined encoding with the given name, or nil.
func GetEncoding(name string) *Encoding {
	switch name {
	case "StandardEncoding":
		return StandardEncoding
	case "WinAnsiEncoding":
		return WinAnsiEncoding
	case "MacRomanEncoding", "MacExpertEncoding":
		return MacRomanEncoding
	}
	return nil
}

// Name returns the encoding name, such as WinAnsiEncoding.
func (e *Encoding) Name() string {
	return e.name
}

// Decode returns the rune for a character code.
func (e *Encoding) Decode(b byte) rune {
	return e.table[b]
}

// WithDifferences returns a copy of e with a /Differences array applied.
// The array alternates a starting code with the glyph names that follow it.
func (e *Encoding) WithDifferences(diffs core.Array) *Encoding {
	out := &Encoding{name: e.name, table: e.table}
	code := 0
	for _, item := range diffs {
		switch v := item.(type) {
		case core.Int:
			code = int(v)
		case core.Real:
			code = int(v)
		case core.Name:
			if code >= 0 && code < 256 {
				out.table[code] = GlyphNameToRune(string(v))
			}
			code++
		}
	}
	return out
}

func newCharmapEncoding(name string, cm *charmap.Charmap) *Encoding {
	e := &Encoding{name: name}
	for i := 32; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		if r == '�' || r == 0x7f {
			continue
		}
		e.table[i] = r
	}
	return e
}

// standardHigh lists the non-ASCII part of Adobe StandardEncoding.
var standardHigh = map[byte]rune{
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '⁄', 0xA5: '¥', 0xA6: 'ƒ', 0xA7: '§',
	0xA8: '¤', 0xA9: '\'', 0xAA: '“', 0xAB: '«', 0xAC: '‹', 0xAD: '›', 0xAE: 'ﬁ',
	0xAF: 'ﬂ', 0xB1: '–', 0xB2: '†', 0xB3: '‡', 0xB4: '·', 0xB6: '¶', 0xB7: '•',
	0xB8: '‚', 0xB9: '„', 0xBA: '”', 0xBB: '»', 0xBC: '…', 0xBD: '‰', 0xBF: '¿',
	0xC1: '`', 0xC2: '´', 0xC3: 'ˆ', 0xC4: '˜', 0xC5: '¯', 0xC6: '˘', 0xC7: '˙',
	0xC8: '¨', 0xCA: '˚', 0xCB: '¸', 0xCD: '˝', 0xCE: '˛', 0xCF: 'ˇ', 0xD0: '—',
	0xE1: 'Æ', 0xE3: 'ª', 0xE8: 'Ł', 0xE9: 'Ø', 0xEA: 'Œ', 0xEB: 'º', 0xF1: 'æ',
	0xF5: 'ı', 0xF8: 'ł', 0xF9: 'ø', 0xFA: 'œ', 0xFB: 'ß',
}

func newStandardEncoding() *Encoding {
	e := &Encoding{name: "StandardEncoding"}
	for i := 32; i < 127; i++ {
		e.table[i] = rune(i)
	}
	e.table[0x27] = '’'
	e.table[0x60] = '‘'
	for b, r := range standardHigh {
		e.table[b] = r
	}
	return e
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)

// DecodeUTF16BE decodes big-endian UTF-16, dropping a leading byte order
// mark. Odd trailing bytes are ignored.
func DecodeUTF16BE(data []byte) string {
	if len(data)%2 == 1 {
		data = data[:len(data)-1]
	}
	out, err := utf16BE.NewDecoder().Bytes(data)
	if err != nil {
		return decodeUTF16Units(data)
	}
	return string(out)
}

// decodeUTF16Units is the lenient path for data the x/text decoder rejects.
func decodeUTF16Units(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}
	return string(utf16.Decode(units))
}

// NormalizeUnicode applies NFKC so ligatures and presentation forms come
// out as plain letters.
func NormalizeUnicode(s string) string {
	if s == "" {
		return s
	}
	return norm.NFKC.String(s)
}
