package font

import (
	"fmt"
	"math"
	"testing"

	"github.com/tsawler/pdfsegment/core"
)

// mapResolver resolves references from a fixed object table.
func mapResolver(objects map[int]core.Object) Resolver {
	return func(ref core.IndirectRef) (core.Object, error) {
		if obj, ok := objects[ref.Number]; ok {
			return obj, nil
		}
		return nil, fmt.Errorf("object %d not found", ref.Number)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewFontStandardWidths(t *testing.T) {
	f := NewFont("F1", "Helvetica", "Type1")

	if !f.IsStandardFont() {
		t.Error("expected Helvetica to be a standard font")
	}
	if w := f.Width('A'); w != 667 {
		t.Errorf("expected width 667 for A, got %v", w)
	}
	if w := f.Width(0x27); w != 191 {
		t.Errorf("expected width 191 for quoteright, got %v", w)
	}

	subset := NewFont("F2", "ABCDEF+Helvetica", "Type1")
	if !subset.IsStandardFont() {
		t.Error("expected subset prefix to be ignored")
	}

	custom := NewFont("F3", "MyFont", "Type1")
	if custom.IsStandardFont() {
		t.Error("expected MyFont not to be a standard font")
	}
	if w := custom.Width('A'); w != defaultGlyphWidth {
		t.Errorf("expected default width, got %v", w)
	}
}

func TestLoadType1(t *testing.T) {
	dict := core.Dict{
		"Type":      core.Name("Font"),
		"Subtype":   core.Name("Type1"),
		"BaseFont":  core.Name("MyFont"),
		"FirstChar": core.Int(65),
		"LastChar":  core.Int(66),
		"Widths":    core.IndirectRef{Number: 5},
		"Encoding":  core.Name("WinAnsiEncoding"),
	}
	objects := map[int]core.Object{
		5: core.Array{core.Int(600), core.Real(700)},
	}

	f, err := Load(dict, mapResolver(objects))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Encoding != "WinAnsiEncoding" {
		t.Errorf("expected WinAnsiEncoding, got %s", f.Encoding)
	}

	glyphs := f.Decode([]byte("AB C"))
	want := []struct {
		text      string
		width     float64
		wordSpace bool
	}{
		{"A", 0.6, false},
		{"B", 0.7, false},
		{" ", 0.5, true},
		{"C", 0.5, false},
	}
	if len(glyphs) != len(want) {
		t.Fatalf("expected %d glyphs, got %d", len(want), len(glyphs))
	}
	for i, w := range want {
		g := glyphs[i]
		if g.Text != w.text || !near(g.Width, w.width) || g.WordSpace != w.wordSpace {
			t.Errorf("glyph %d: expected %+v, got %+v", i, w, g)
		}
	}
}

func TestLoadType1Differences(t *testing.T) {
	dict := core.Dict{
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Times-Roman"),
		"Encoding": core.IndirectRef{Number: 7},
	}
	objects := map[int]core.Object{
		7: core.Dict{
			"Type":         core.Name("Encoding"),
			"BaseEncoding": core.Name("WinAnsiEncoding"),
			"Differences":  core.Array{core.Int(1), core.Name("fi"), core.Name("Eacute")},
		},
	}

	f, err := Load(dict, mapResolver(objects))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := f.DecodeString([]byte{1, 2, 'x'}); got != "fiÉx" {
		t.Errorf("expected %q, got %q", "fiÉx", got)
	}
	if w := f.Width('x'); w != 500 {
		t.Errorf("expected Times x width 500, got %v", w)
	}
}

func TestLoadMissingWidth(t *testing.T) {
	dict := core.Dict{
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Custom"),
		"FontDescriptor": core.Dict{
			"Type":         core.Name("FontDescriptor"),
			"FontName":     core.Name("Custom"),
			"Flags":        core.Int(32),
			"MissingWidth": core.Int(250),
		},
	}

	f, err := Load(dict, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Descriptor == nil || f.Descriptor.FontName != "Custom" {
		t.Fatalf("expected descriptor to be parsed, got %+v", f.Descriptor)
	}
	if f.Descriptor.IsSymbolic() {
		t.Error("expected non-symbolic flags")
	}
	if w := f.Width('Z'); w != 250 {
		t.Errorf("expected MissingWidth 250, got %v", w)
	}
}

func TestLoadTrueTypeDefaultsToWinAnsi(t *testing.T) {
	dict := core.Dict{
		"Subtype":  core.Name("TrueType"),
		"BaseFont": core.Name("Arial"),
	}

	f, err := Load(dict, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := f.DecodeString([]byte{0x80, 'a'}); got != "€a" {
		t.Errorf("expected %q, got %q", "€a", got)
	}
}

func TestLoadType3(t *testing.T) {
	dict := core.Dict{
		"Subtype":    core.Name("Type3"),
		"FontMatrix": core.Array{core.Real(0.01), core.Int(0), core.Int(0), core.Real(0.01), core.Int(0), core.Int(0)},
		"FirstChar":  core.Int(0),
		"LastChar":   core.Int(0),
		"Widths":     core.Array{core.Int(50)},
		"Encoding": core.Dict{
			"Differences": core.Array{core.Int(0), core.Name("a")},
		},
	}

	f, err := Load(dict, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	glyphs := f.Decode([]byte{0})
	if len(glyphs) != 1 {
		t.Fatalf("expected 1 glyph, got %d", len(glyphs))
	}
	if glyphs[0].Text != "a" || !near(glyphs[0].Width, 0.5) {
		t.Errorf("expected a with width 0.5, got %+v", glyphs[0])
	}
}

const cidToUnicode = `1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0001> <0048>
<0002> <0069>
endbfchar
`

func type0Dict(encoding core.Object) (core.Dict, map[int]core.Object) {
	dict := core.Dict{
		"Subtype":         core.Name("Type0"),
		"BaseFont":        core.Name("ABCDEF+NotoSans"),
		"Encoding":        encoding,
		"DescendantFonts": core.Array{core.IndirectRef{Number: 10}},
		"ToUnicode":       core.IndirectRef{Number: 11},
	}
	objects := map[int]core.Object{
		10: core.Dict{
			"Subtype":  core.Name("CIDFontType2"),
			"BaseFont": core.Name("ABCDEF+NotoSans"),
			"CIDSystemInfo": core.Dict{
				"Registry":   core.String("Adobe"),
				"Ordering":   core.String("Identity"),
				"Supplement": core.Int(0),
			},
			"DW": core.Int(900),
			"W": core.Array{
				core.Int(1), core.Array{core.Int(500), core.Int(600)},
				core.Int(10), core.Int(20), core.Int(300),
			},
		},
		11: &core.Stream{Dict: core.Dict{}, Data: []byte(cidToUnicode)},
	}
	return dict, objects
}

func TestLoadType0Identity(t *testing.T) {
	dict, objects := type0Dict(core.Name("Identity-H"))

	f, err := Load(dict, mapResolver(objects))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !f.IsComposite() {
		t.Error("expected composite font")
	}
	if f.IsVertical() {
		t.Error("expected horizontal font")
	}

	glyphs := f.Decode([]byte{0, 1, 0, 2, 0, 15, 0, 99})
	want := []struct {
		code  uint32
		text  string
		width float64
	}{
		{1, "H", 0.5},
		{2, "i", 0.6},
		{15, "", 0.3},
		{99, "", 0.9},
	}
	if len(glyphs) != len(want) {
		t.Fatalf("expected %d glyphs, got %d", len(want), len(glyphs))
	}
	for i, w := range want {
		g := glyphs[i]
		if g.Code != w.code || g.Text != w.text || !near(g.Width, w.width) || g.WordSpace {
			t.Errorf("glyph %d: expected %+v, got %+v", i, w, g)
		}
	}
}

func TestLoadType0Vertical(t *testing.T) {
	dict, objects := type0Dict(core.Name("Identity-V"))

	f, err := Load(dict, mapResolver(objects))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !f.IsVertical() {
		t.Error("expected vertical font for Identity-V")
	}
}

func TestLoadType0UCS2(t *testing.T) {
	dict, objects := type0Dict(core.Name("UniGB-UCS2-H"))
	delete(dict, "ToUnicode")

	f, err := Load(dict, mapResolver(objects))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := f.DecodeString([]byte{0x4E, 0x2D}); got != "中" {
		t.Errorf("expected %q, got %q", "中", got)
	}
}

func TestLoadType0EmbeddedCMap(t *testing.T) {
	encoding := &core.Stream{Dict: core.Dict{}, Data: []byte(`/CMapName /OneByte def
1 begincodespacerange
<00> <FF>
endcodespacerange
1 begincidrange
<00> <FF> 0
endcidrange
`)}
	dict, objects := type0Dict(encoding)

	f, err := Load(dict, mapResolver(objects))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Encoding != "OneByte" {
		t.Errorf("expected encoding OneByte, got %s", f.Encoding)
	}

	glyphs := f.Decode([]byte{1, 2})
	if len(glyphs) != 2 {
		t.Fatalf("expected 2 one-byte glyphs, got %d", len(glyphs))
	}
	if !near(glyphs[0].Width, 0.5) || glyphs[0].Text != "H" {
		t.Errorf("expected H width 0.5, got %+v", glyphs[0])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		dict core.Dict
	}{
		{"no subtype", core.Dict{"BaseFont": core.Name("X")}},
		{"unsupported", core.Dict{"Subtype": core.Name("OpenType")}},
		{"type0 without descendants", core.Dict{"Subtype": core.Name("Type0"), "Encoding": core.Name("Identity-H")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.dict, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCIDFontParseW(t *testing.T) {
	cid, err := NewCIDFont(core.Dict{
		"Subtype": core.Name("CIDFontType0"),
		"W": core.Array{
			core.Int(5), core.Array{core.Int(100), core.Int(200)},
			core.Int(100), core.Int(102), core.Int(750),
		},
		"CIDSystemInfo": core.Dict{"Ordering": core.String("Japan1")},
	}, nil)
	if err != nil {
		t.Fatalf("NewCIDFont failed: %v", err)
	}

	tests := []struct {
		cid   int
		width float64
	}{
		{5, 100},
		{6, 200},
		{7, 1000},
		{100, 750},
		{102, 750},
		{103, 1000},
	}
	for _, tt := range tests {
		if got := cid.WidthForCID(tt.cid); got != tt.width {
			t.Errorf("WidthForCID(%d) = %v, want %v", tt.cid, got, tt.width)
		}
	}
	if !cid.IsCJK() {
		t.Error("expected Japan1 ordering to be CJK")
	}
}
