package font

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdfsegment/core"
)

// Resolver resolves an indirect reference to the object it names.
type Resolver func(core.IndirectRef) (core.Object, error)

// Glyph is one character code decoded from a string operand.
type Glyph struct {
	Code  uint32
	Text  string
	Width float64 // horizontal displacement in text space units
	// WordSpace is set for the single-byte code 32, the only code that
	// receives word spacing.
	WordSpace bool
}

// Font represents a PDF font
type Font struct {
	Name     string
	BaseFont string
	Subtype  string
	Encoding string

	Descriptor *FontDescriptor

	// ToUnicode CMap for character code to Unicode mapping
	ToUnicodeCMap *CMap

	encoding     *Encoding
	widths       map[uint32]float64
	defaultWidth float64
	widthScale   float64

	// composite fonts only
	composite bool
	codeCMap  *CMap
	ucs2      bool
	vertical  bool
}

// FontDescriptor contains the font metrics used during extraction.
type FontDescriptor struct {
	FontName     string
	Flags        int
	Ascent       float64
	Descent      float64
	CapHeight    float64
	MissingWidth float64
	FontFile     *core.Stream
	FontFile2    *core.Stream
	FontFile3    *core.Stream
}

// symbolic flag bit from the font descriptor
const flagSymbolic = 1 << 2

// IsSymbolic reports whether the font uses a built-in symbol set.
func (fd *FontDescriptor) IsSymbolic() bool {
	return fd != nil && fd.Flags&flagSymbolic != 0
}

// NewFont creates a simple font with default metrics. Standard 14 fonts
// get their built-in widths.
func NewFont(name, baseFont, subtype string) *Font {
	return &Font{
		Name:         name,
		BaseFont:     baseFont,
		Subtype:      subtype,
		Encoding:     "StandardEncoding",
		encoding:     StandardEncoding,
		widths:       make(map[uint32]float64),
		defaultWidth: defaultGlyphWidth,
		widthScale:   0.001,
	}
}

// defaultGlyphWidth is used when neither the PDF nor a built-in table
// provides a width.
const defaultGlyphWidth = 500.0

// Load builds a Font from a font dictionary, dispatching on /Subtype.
func Load(dict core.Dict, resolve Resolver) (*Font, error) {
	subtype, _ := dict.GetName("Subtype")
	switch subtype {
	case "Type1", "MMType1":
		f, err := NewType1Font(dict, resolve)
		if err != nil {
			return nil, err
		}
		return f.Font, nil
	case "TrueType":
		f, err := NewTrueTypeFont(dict, resolve)
		if err != nil {
			return nil, err
		}
		return f.Font, nil
	case "Type3":
		f, err := NewType3Font(dict, resolve)
		if err != nil {
			return nil, err
		}
		return f.Font, nil
	case "Type0":
		f, err := NewType0Font(dict, resolve)
		if err != nil {
			return nil, err
		}
		return f.Font, nil
	case "":
		return nil, fmt.Errorf("font has no subtype")
	}
	return nil, fmt.Errorf("unsupported font subtype: %s", subtype)
}

// IsComposite reports whether the font is a Type0 font with multi-byte codes.
func (f *Font) IsComposite() bool {
	return f.composite
}

// IsVertical returns true if this font uses vertical writing mode
func (f *Font) IsVertical() bool {
	return f.vertical
}

// IsStandardFont returns true if this is one of the Standard 14 fonts
func (f *Font) IsStandardFont() bool {
	_, ok := standardFonts[standardName(f.BaseFont)]
	return ok
}

// Width returns the width of a character code in glyph space units
// (thousandths of an em for everything but Type3).
func (f *Font) Width(code uint32) float64 {
	if w, ok := f.widths[code]; ok {
		return w
	}
	if !f.composite {
		if table, ok := standardFonts[standardName(f.BaseFont)]; ok {
			if w, ok := table[f.encoding.Decode(byte(code))]; ok {
				return w
			}
		}
	}
	return f.defaultWidth
}

// Decode splits a string operand into glyphs.
func (f *Font) Decode(data []byte) []Glyph {
	glyphs := make([]Glyph, 0, len(data))
	for len(data) > 0 {
		code, n := f.nextCode(data)
		if n == 0 {
			break
		}
		glyphs = append(glyphs, Glyph{
			Code:      code,
			Text:      f.text(code, data[:n]),
			Width:     f.Width(f.widthKey(code)) * f.widthScale,
			WordSpace: n == 1 && code == 32,
		})
		data = data[n:]
	}
	return glyphs
}

// DecodeString decodes a string of character codes to Unicode
func (f *Font) DecodeString(data []byte) string {
	var sb strings.Builder
	for _, g := range f.Decode(data) {
		sb.WriteString(g.Text)
	}
	return sb.String()
}

func (f *Font) nextCode(data []byte) (uint32, int) {
	if !f.composite {
		return uint32(data[0]), 1
	}
	if f.codeCMap.HasCodespace() {
		return f.codeCMap.NextCode(data)
	}
	if len(data) < 2 {
		return uint32(data[0]), 1
	}
	return uint32(data[0])<<8 | uint32(data[1]), 2
}

// widthKey maps a code to the key of the width table: the code itself for
// simple fonts, the CID for composite fonts.
func (f *Font) widthKey(code uint32) uint32 {
	if !f.composite {
		return code
	}
	if f.codeCMap != nil {
		if cid, ok := f.codeCMap.CID(code); ok {
			return uint32(cid)
		}
		if f.codeCMap.HasCodespace() {
			return 0
		}
	}
	return code
}

func (f *Font) text(code uint32, raw []byte) string {
	if s, ok := f.ToUnicodeCMap.Lookup(code); ok {
		return NormalizeUnicode(s)
	}
	if f.composite {
		if f.ucs2 {
			return NormalizeUnicode(DecodeUTF16BE(raw))
		}
		return ""
	}
	if r := f.encoding.Decode(byte(code)); r != 0 {
		return NormalizeUnicode(string(r))
	}
	return ""
}

// resolve follows indirect references. Unresolvable references become nil.
func resolve(obj core.Object, r Resolver) core.Object {
	for i := 0; i < 8; i++ {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj
		}
		if r == nil {
			return nil
		}
		next, err := r(ref)
		if err != nil {
			return nil
		}
		obj = next
	}
	return nil
}

func resolveDict(obj core.Object, r Resolver) (core.Dict, bool) {
	d, ok := resolve(obj, r).(core.Dict)
	return d, ok
}

func resolveArray(obj core.Object, r Resolver) (core.Array, bool) {
	a, ok := resolve(obj, r).(core.Array)
	return a, ok
}

func resolveStream(obj core.Object, r Resolver) *core.Stream {
	s, _ := resolve(obj, r).(*core.Stream)
	return s
}

func resolveNumber(obj core.Object, r Resolver) float64 {
	v, _ := core.Number(resolve(obj, r))
	return v
}

// loadToUnicode attaches the /ToUnicode CMap when present and parseable.
func (f *Font) loadToUnicode(dict core.Dict, r Resolver) {
	stream := resolveStream(dict.Get("ToUnicode"), r)
	if stream == nil {
		return
	}
	if cm, err := ParseToUnicodeCMap(stream); err == nil {
		f.ToUnicodeCMap = cm
	}
}

// parseFontDescriptor extracts font descriptor information
func parseFontDescriptor(obj core.Object, r Resolver) *FontDescriptor {
	fdDict, ok := resolveDict(obj, r)
	if !ok {
		return nil
	}
	fd := &FontDescriptor{
		Ascent:       resolveNumber(fdDict.Get("Ascent"), r),
		Descent:      resolveNumber(fdDict.Get("Descent"), r),
		CapHeight:    resolveNumber(fdDict.Get("CapHeight"), r),
		MissingWidth: resolveNumber(fdDict.Get("MissingWidth"), r),
		FontFile:     resolveStream(fdDict.Get("FontFile"), r),
		FontFile2:    resolveStream(fdDict.Get("FontFile2"), r),
		FontFile3:    resolveStream(fdDict.Get("FontFile3"), r),
	}
	if name, ok := fdDict.GetName("FontName"); ok {
		fd.FontName = string(name)
	}
	fd.Flags = int(resolveNumber(fdDict.Get("Flags"), r))
	return fd
}

// standardName strips a subset prefix such as "ABCDEF+".
func standardName(baseFont string) string {
	if isSubsetFont(baseFont) {
		return baseFont[7:]
	}
	return baseFont
}

// isSubsetFont checks if a font is a subset (has a prefix like "ABCDEF+")
func isSubsetFont(baseFontName string) bool {
	if len(baseFontName) < 8 {
		return false
	}
	for i := 0; i < 6; i++ {
		if baseFontName[i] < 'A' || baseFontName[i] > 'Z' {
			return false
		}
	}
	return baseFontName[6] == '+'
}
