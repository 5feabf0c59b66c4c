package font

import (
	"fmt"

	"github.com/tsawler/pdfsegment/core"
)

// Type1Font represents a Type1 (or MMType1) font in a PDF
type Type1Font struct {
	*Font

	FirstChar int
	LastChar  int
	Widths    []float64
}

// TrueTypeFont represents a TrueType font in a PDF
type TrueTypeFont struct {
	*Font

	FirstChar int
	LastChar  int
	Widths    []float64

	// unitsPerEm of the embedded program, zero when none was parsed
	unitsPerEm int
}

// Type3Font is a font whose glyphs are content stream procedures. Its
// widths are in glyph space and scaled by the FontMatrix.
type Type3Font struct {
	*Font

	FontMatrix [6]float64
	FirstChar  int
	Widths     []float64
}

// NewType1Font creates a Type1 font from a PDF font dictionary
func NewType1Font(fontDict core.Dict, resolver Resolver) (*Type1Font, error) {
	subtype, _ := fontDict.GetName("Subtype")
	if subtype != "Type1" && subtype != "MMType1" {
		return nil, fmt.Errorf("not a Type1 font: %s", subtype)
	}

	f := newSimpleFont(fontDict, resolver)
	first, last, widths := parseWidths(fontDict, resolver, f)
	return &Type1Font{Font: f, FirstChar: first, LastChar: last, Widths: widths}, nil
}

// NewTrueTypeFont creates a TrueType font from a PDF font dictionary
func NewTrueTypeFont(fontDict core.Dict, resolver Resolver) (*TrueTypeFont, error) {
	subtype, _ := fontDict.GetName("Subtype")
	if subtype != "TrueType" {
		return nil, fmt.Errorf("not a TrueType font: %s", subtype)
	}

	f := newSimpleFont(fontDict, resolver)
	first, last, widths := parseWidths(fontDict, resolver, f)
	tt := &TrueTypeFont{Font: f, FirstChar: first, LastChar: last, Widths: widths}

	// embedded advances only fill in when the dictionary omits /Widths
	if widths == nil && f.Descriptor != nil && f.Descriptor.FontFile2 != nil {
		if program, err := f.Descriptor.FontFile2.Decoded(); err == nil {
			if upem, err := tt.loadProgramWidths(program); err == nil {
				tt.unitsPerEm = upem
			}
		}
	}
	return tt, nil
}

// NewType3Font creates a Type3 font from a PDF font dictionary
func NewType3Font(fontDict core.Dict, resolver Resolver) (*Type3Font, error) {
	subtype, _ := fontDict.GetName("Subtype")
	if subtype != "Type3" {
		return nil, fmt.Errorf("not a Type3 font: %s", subtype)
	}

	f := newSimpleFont(fontDict, resolver)
	t3 := &Type3Font{Font: f, FontMatrix: [6]float64{0.001, 0, 0, 0.001, 0, 0}}
	if fm, ok := resolveArray(fontDict.Get("FontMatrix"), resolver); ok {
		if v, ok := fm.Floats(); ok && len(v) == 6 {
			copy(t3.FontMatrix[:], v)
		}
	}
	t3.widthScale = t3.FontMatrix[0]
	t3.defaultWidth = 0
	t3.FirstChar, _, t3.Widths = parseWidths(fontDict, resolver, f)
	return t3, nil
}

// newSimpleFont reads the parts shared by all single-byte fonts.
func newSimpleFont(fontDict core.Dict, resolver Resolver) *Font {
	name, _ := fontDict.GetName("Name")
	baseFont, _ := fontDict.GetName("BaseFont")
	subtype, _ := fontDict.GetName("Subtype")

	f := NewFont(string(name), string(baseFont), string(subtype))
	f.Descriptor = parseFontDescriptor(fontDict.Get("FontDescriptor"), resolver)
	if f.Descriptor != nil && f.Descriptor.MissingWidth > 0 {
		f.defaultWidth = f.Descriptor.MissingWidth
	}
	f.parseEncoding(fontDict, resolver)
	f.loadToUnicode(fontDict, resolver)
	return f
}

// parseEncoding picks the base encoding and applies /Differences.
func (f *Font) parseEncoding(fontDict core.Dict, resolver Resolver) {
	base := StandardEncoding
	if f.Subtype == "TrueType" && !f.Descriptor.IsSymbolic() {
		base = WinAnsiEncoding
	}

	switch enc := resolve(fontDict.Get("Encoding"), resolver).(type) {
	case core.Name:
		if e := GetEncoding(string(enc)); e != nil {
			base = e
		}
	case core.Dict:
		if name, ok := enc.GetName("BaseEncoding"); ok {
			if e := GetEncoding(string(name)); e != nil {
				base = e
			}
		}
		if diffs, ok := resolveArray(enc.Get("Differences"), resolver); ok {
			base = base.WithDifferences(diffs)
		}
	}

	f.encoding = base
	f.Encoding = base.Name()
}

// parseWidths reads /FirstChar, /LastChar and /Widths into f. The parsed
// values are returned for the typed wrappers.
func parseWidths(fontDict core.Dict, resolver Resolver, f *Font) (first, last int, widths []float64) {
	first = int(resolveNumber(fontDict.Get("FirstChar"), resolver))
	last = 255
	if fontDict.Has("LastChar") {
		last = int(resolveNumber(fontDict.Get("LastChar"), resolver))
	}

	arr, ok := resolveArray(fontDict.Get("Widths"), resolver)
	if !ok {
		return first, last, nil
	}
	widths = make([]float64, len(arr))
	for i, w := range arr {
		widths[i] = resolveNumber(w, resolver)
		code := first + i
		if code >= 0 && code <= last {
			f.widths[uint32(code)] = widths[i]
		}
	}
	return first, last, widths
}
