package font

import (
	"fmt"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// loadProgramWidths fills the width table from an embedded TrueType
// program by mapping each code through the encoding to a glyph and reading
// its advance. It returns the program's units per em.
func (tt *TrueTypeFont) loadProgramWidths(program []byte) (int, error) {
	f, err := sfnt.Parse(program)
	if err != nil {
		return 0, fmt.Errorf("failed to parse TrueType program: %w", err)
	}

	var buf sfnt.Buffer
	upem := int(f.UnitsPerEm())
	if upem <= 0 {
		return 0, fmt.Errorf("invalid unitsPerEm: %d", upem)
	}
	ppem := fixed.I(upem)

	for code := 0; code < 256; code++ {
		idx, ok := glyphIndex(f, &buf, tt.encoding.Decode(byte(code)), byte(code))
		if !ok {
			continue
		}
		adv, err := f.GlyphAdvance(&buf, idx, ppem, xfont.HintingNone)
		if err != nil {
			continue
		}
		tt.widths[uint32(code)] = float64(adv) / 64 * 1000 / float64(upem)
	}
	return upem, nil
}

// glyphIndex looks a code up through the Unicode cmap, falling back to the
// 0xF000 page that symbolic TrueType fonts use.
func glyphIndex(f *sfnt.Font, buf *sfnt.Buffer, r rune, code byte) (sfnt.GlyphIndex, bool) {
	if r != 0 {
		if idx, err := f.GlyphIndex(buf, r); err == nil && idx != 0 {
			return idx, true
		}
	}
	if idx, err := f.GlyphIndex(buf, 0xF000+rune(code)); err == nil && idx != 0 {
		return idx, true
	}
	return 0, false
}
