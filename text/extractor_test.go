package text

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/model"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

type mapResolver map[int]core.Object

func (m mapResolver) resolve(ref core.IndirectRef) (core.Object, error) {
	obj, ok := m[ref.Number]
	if !ok {
		return nil, fmt.Errorf("object %d not found", ref.Number)
	}
	return obj, nil
}

func helvetica() core.Dict {
	return core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Helvetica"),
	}
}

func fontResources() core.Dict {
	return core.Dict{"Font": core.Dict{"F1": helvetica()}}
}

func extract(t *testing.T, content string, resources core.Dict, objs mapResolver) []Glyph {
	t.Helper()
	ex := NewGlyphExtractor(objs.resolve)
	glyphs, err := ex.Extract([]byte(content), resources, model.Letter)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return glyphs
}

func TestExtractSimpleText(t *testing.T) {
	glyphs := extract(t, "BT /F1 12 Tf 72 720 Td (Hi) Tj ET", fontResources(), nil)

	if len(glyphs) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(glyphs))
	}

	tests := []struct {
		text string
		x, y float64
	}{
		{"H", 72, 72},
		{"i", 72 + 722*12.0/1000, 72},
	}
	for i, tt := range tests {
		g := glyphs[i]
		if g.Text != tt.text {
			t.Errorf("glyph %d: expected text %q, got %q", i, tt.text, g.Text)
		}
		if !near(g.X, tt.x) || !near(g.Y, tt.y) {
			t.Errorf("glyph %d: expected (%v, %v), got (%v, %v)", i, tt.x, tt.y, g.X, g.Y)
		}
	}
}

func TestExtractPositioning(t *testing.T) {
	tests := []struct {
		name    string
		content string
		x, y    float64
	}{
		{"cm and Tm", "1 0 0 1 100 0 cm BT /F1 10 Tf 2 0 0 2 0 500 Tm (A) Tj ET", 100, 292},
		{"text rise", "BT /F1 10 Tf 5 Ts 0 700 Td (A) Tj ET", 0, 87},
		{"restore drops cm", "q 1 0 0 1 50 0 cm Q BT /F1 10 Tf (A) Tj ET", 0, 792},
		{"TD sets leading", "BT /F1 10 Tf 0 700 TD 0 -20 TD T* (A) Tj ET", 0, 792 - 660},
		{"scaled CTM", "0.5 0 0 0.5 0 0 cm BT /F1 10 Tf 100 100 Td (A) Tj ET", 50, 742},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glyphs := extract(t, tt.content, fontResources(), nil)
			if len(glyphs) != 1 {
				t.Fatalf("expected 1 glyph, got %d", len(glyphs))
			}
			g := glyphs[0]
			if !near(g.X, tt.x) || !near(g.Y, tt.y) {
				t.Errorf("expected (%v, %v), got (%v, %v)", tt.x, tt.y, g.X, g.Y)
			}
		})
	}
}

func TestExtractTJKerning(t *testing.T) {
	glyphs := extract(t, "BT /F1 10 Tf 0 700 Td [(A) -1000 (B)] TJ ET", fontResources(), nil)

	if len(glyphs) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(glyphs))
	}
	// A advances 6.67, the -1000 adjustment moves a further 10 to the right
	if want := 667*10.0/1000 + 10; !near(glyphs[1].X, want) {
		t.Errorf("expected B at x=%v, got %v", want, glyphs[1].X)
	}
}

func TestExtractSpacing(t *testing.T) {
	// Tc applies to every glyph, Tw only to the space
	glyphs := extract(t, "BT /F1 10 Tf 2 Tc 5 Tw (A B) Tj ET", fontResources(), nil)

	if len(glyphs) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(glyphs))
	}
	afterA := 667*10.0/1000 + 2
	afterSpace := afterA + 278*10.0/1000 + 2 + 5
	if !near(glyphs[1].X, afterA) {
		t.Errorf("expected space at x=%v, got %v", afterA, glyphs[1].X)
	}
	if !near(glyphs[2].X, afterSpace) {
		t.Errorf("expected B at x=%v, got %v", afterSpace, glyphs[2].X)
	}
}

func TestExtractQuoteOperators(t *testing.T) {
	content := `BT /F1 10 Tf 14 TL 0 700 Td (A) Tj (B) ' 1 2 (C) " ET`
	glyphs := extract(t, content, fontResources(), nil)

	if len(glyphs) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(glyphs))
	}

	wantY := []float64{92, 106, 120}
	for i, want := range wantY {
		if !near(glyphs[i].Y, want) {
			t.Errorf("glyph %d: expected y=%v, got %v", i, want, glyphs[i].Y)
		}
		if !near(glyphs[i].X, 0) {
			t.Errorf("glyph %d: expected x=0, got %v", i, glyphs[i].X)
		}
	}
}

func TestExtractMissingFontFallsBack(t *testing.T) {
	glyphs := extract(t, "BT /F9 10 Tf 0 700 Td (AB) Tj ET", core.Dict{}, nil)

	if len(glyphs) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(glyphs))
	}
	if want := 667 * 10.0 / 1000; !near(glyphs[1].X, want) {
		t.Errorf("expected Helvetica advance %v, got %v", want, glyphs[1].X)
	}
}

func TestExtractInvisibleText(t *testing.T) {
	glyphs := extract(t, "BT /F1 10 Tf 3 Tr (A) Tj 0 Tr (B) Tj ET", fontResources(), nil)

	if len(glyphs) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(glyphs))
	}
	if glyphs[0].Text != "A" || glyphs[1].Text != "B" {
		t.Errorf("expected invisible A then visible B, got %q %q", glyphs[0].Text, glyphs[1].Text)
	}
}

func TestExtractDropsUnmappedCodes(t *testing.T) {
	resources := core.Dict{"Font": core.Dict{
		"F1": helvetica(),
		"F2": core.Dict{
			"Type":     core.Name("Font"),
			"Subtype":  core.Name("Type0"),
			"BaseFont": core.Name("Embedded"),
			"Encoding": core.Name("Identity-H"),
			"DescendantFonts": core.Array{core.Dict{
				"Type":     core.Name("Font"),
				"Subtype":  core.Name("CIDFontType2"),
				"BaseFont": core.Name("Embedded"),
			}},
		},
	}}

	glyphs := extract(t, "BT /F2 10 Tf <00410042> Tj /F1 10 Tf (A) Tj ET", resources, nil)

	if len(glyphs) != 1 {
		t.Fatalf("expected 1 glyph, got %d", len(glyphs))
	}
	if glyphs[0].Text != "A" {
		t.Errorf("expected A, got %q", glyphs[0].Text)
	}
	// the two unmapped codes still advance by the default CID width
	if !near(glyphs[0].X, 20) {
		t.Errorf("expected x=20, got %v", glyphs[0].X)
	}
}

func TestExtractFormXObject(t *testing.T) {
	objs := mapResolver{
		5: &core.Stream{
			Dict: core.Dict{
				"Type":      core.Name("XObject"),
				"Subtype":   core.Name("Form"),
				"Matrix":    core.Array{core.Int(1), core.Int(0), core.Int(0), core.Int(1), core.Int(100), core.Int(0)},
				"Resources": fontResources(),
			},
			Data: []byte("BT /F1 10 Tf 0 700 Td (X) Tj ET"),
		},
	}
	resources := fontResources()
	resources["XObject"] = core.Dict{"Fm1": core.IndirectRef{Number: 5}}

	glyphs := extract(t, "q 1 0 0 1 0 -100 cm /Fm1 Do Q BT /F1 10 Tf (Z) Tj ET", resources, objs)

	if len(glyphs) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(glyphs))
	}
	if glyphs[0].Text != "X" || !near(glyphs[0].X, 100) || !near(glyphs[0].Y, 192) {
		t.Errorf("expected X at (100, 192), got %q at (%v, %v)", glyphs[0].Text, glyphs[0].X, glyphs[0].Y)
	}
	if glyphs[1].Text != "Z" || !near(glyphs[1].X, 0) || !near(glyphs[1].Y, 792) {
		t.Errorf("expected Z at (0, 792), got %q at (%v, %v)", glyphs[1].Text, glyphs[1].X, glyphs[1].Y)
	}
}

func TestExtractSelfReferencingForm(t *testing.T) {
	formResources := fontResources()
	formResources["XObject"] = core.Dict{"Fm1": core.IndirectRef{Number: 5}}
	objs := mapResolver{
		5: &core.Stream{
			Dict: core.Dict{
				"Subtype":   core.Name("Form"),
				"Resources": formResources,
			},
			Data: []byte("BT /F1 10 Tf (X) Tj ET /Fm1 Do"),
		},
	}

	glyphs := extract(t, "/Fm1 Do", formResources, objs)

	if len(glyphs) != 1 {
		t.Errorf("expected the form to run once, got %d glyphs", len(glyphs))
	}
}

func TestExtractImagePlacement(t *testing.T) {
	image := &core.Stream{
		Dict: core.Dict{
			"Subtype": core.Name("Image"),
			"Width":   core.Int(2),
			"Height":  core.Int(1),
		},
		Data: []byte{0, 0},
	}
	resources := core.Dict{"XObject": core.Dict{"Im1": image}}

	ex := NewGlyphExtractor(nil)
	glyphs, err := ex.Extract([]byte("q 200 0 0 100 50 600 cm /Im1 Do Q"), resources, model.Letter)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(glyphs) != 0 {
		t.Errorf("expected no glyphs, got %d", len(glyphs))
	}

	images := ex.Images()
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	want := model.Rect{LLX: 50, LLY: 600, URX: 250, URY: 700}
	if images[0].Rect != want {
		t.Errorf("expected rect %v, got %v", want, images[0].Rect)
	}
	if images[0].Name != "Im1" {
		t.Errorf("expected name Im1, got %q", images[0].Name)
	}
}

func TestExtractTruncatedContent(t *testing.T) {
	ex := NewGlyphExtractor(nil)
	glyphs, err := ex.Extract([]byte("BT /F1 10 Tf (A) Tj (broken"), fontResources(), model.Letter)

	if !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
	if len(glyphs) != 1 {
		t.Errorf("expected glyphs before the damage to survive, got %d", len(glyphs))
	}
}

func TestFontCacheShared(t *testing.T) {
	objs := mapResolver{7: helvetica()}
	resources := core.Dict{"Font": core.Dict{"F1": core.IndirectRef{Number: 7}}}
	cache := NewFontCache()

	for i := 0; i < 2; i++ {
		ex := NewGlyphExtractor(objs.resolve, WithFontCache(cache))
		if _, err := ex.Extract([]byte("BT /F1 10 Tf (A) Tj ET"), resources, model.Letter); err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
	}

	if cache.Len() != 1 {
		t.Errorf("expected 1 cached font, got %d", cache.Len())
	}
}
