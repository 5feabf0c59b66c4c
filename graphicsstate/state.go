package graphicsstate

import (
	"fmt"

	"github.com/tsawler/pdfsegment/model"
)

// GraphicsState represents the subset of the PDF graphics state that
// affects where text lands on the page.
type GraphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []savedState
}

type savedState struct {
	ctm  model.Matrix
	text TextState
}

// TextState represents text-specific state
type TextState struct {
	// Font resource name and size (Tf)
	FontName string
	FontSize float64

	// Character and word spacing (Tc, Tw)
	CharSpacing float64
	WordSpacing float64

	// Horizontal scaling as a percentage (Tz)
	HorizontalScaling float64

	// Leading (TL)
	Leading float64

	// Text rise (Ts)
	Rise float64

	// Text matrices
	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

// NewGraphicsState creates a new graphics state with default values
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM: model.Identity(),
		Text: TextState{
			FontSize:          12.0,
			HorizontalScaling: 100.0,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Depth reports how many states are currently saved.
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, savedState{ctm: gs.CTM, text: gs.Text})
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return fmt.Errorf("graphics state stack underflow")
	}

	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	gs.CTM = saved.ctm
	gs.Text = saved.text
	return nil
}

// Transform applies a transformation matrix to CTM (cm operator)
func (gs *GraphicsState) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetFont sets the current font (Tf operator)
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// SetCharSpacing sets character spacing (Tc operator)
func (gs *GraphicsState) SetCharSpacing(spacing float64) {
	gs.Text.CharSpacing = spacing
}

// SetWordSpacing sets word spacing (Tw operator)
func (gs *GraphicsState) SetWordSpacing(spacing float64) {
	gs.Text.WordSpacing = spacing
}

// SetHorizontalScaling sets horizontal scaling (Tz operator)
func (gs *GraphicsState) SetHorizontalScaling(scale float64) {
	gs.Text.HorizontalScaling = scale
}

// SetLeading sets text leading (TL operator)
func (gs *GraphicsState) SetLeading(leading float64) {
	gs.Text.Leading = leading
}

// SetTextRise sets text rise (Ts operator)
func (gs *GraphicsState) SetTextRise(rise float64) {
	gs.Text.Rise = rise
}

// BeginText resets both text matrices (BT operator)
func (gs *GraphicsState) BeginText() {
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// SetTextMatrix sets the text matrix (Tm operator)
func (gs *GraphicsState) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText moves to the start of the next line offset by (tx, ty)
// (Td operator).
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	gs.Text.TextLineMatrix = model.Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading translates text and sets leading (TD operator)
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.SetLeading(-ty)
	gs.TranslateText(tx, ty)
}

// NextLine moves to next line (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// TextRenderingMatrix returns the matrix mapping glyph space origin to
// device space for the next glyph.
func (gs *GraphicsState) TextRenderingMatrix() model.Matrix {
	th := gs.Text.HorizontalScaling / 100.0
	params := model.Matrix{
		gs.Text.FontSize * th, 0,
		0, gs.Text.FontSize,
		0, gs.Text.Rise,
	}
	return params.Multiply(gs.Text.TextMatrix).Multiply(gs.CTM)
}

// GlyphOrigin returns the device space origin of the next glyph.
func (gs *GraphicsState) GlyphOrigin() model.Point {
	return gs.TextRenderingMatrix().Transform(model.Point{})
}

// AdvanceGlyph moves the text matrix past one glyph. w0 is the glyph
// width in text space units (already divided by 1000 for simple fonts).
// wordSpace applies Tw and must only be set for the single-byte code 32.
func (gs *GraphicsState) AdvanceGlyph(w0 float64, wordSpace bool) float64 {
	th := gs.Text.HorizontalScaling / 100.0
	tx := w0*gs.Text.FontSize + gs.Text.CharSpacing
	if wordSpace {
		tx += gs.Text.WordSpacing
	}
	tx *= th
	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
	return tx
}

// AdvanceVertical moves the text matrix past one glyph of a vertical
// font. w1 is the vertical displacement in text space units, normally
// negative.
func (gs *GraphicsState) AdvanceVertical(w1 float64, wordSpace bool) float64 {
	ty := w1*gs.Text.FontSize + gs.Text.CharSpacing
	if wordSpace {
		ty += gs.Text.WordSpacing
	}
	gs.Text.TextMatrix = model.Translate(0, ty).Multiply(gs.Text.TextMatrix)
	return ty
}

// KernVertical is Kern for vertical writing mode.
func (gs *GraphicsState) KernVertical(n float64) float64 {
	ty := -n / 1000.0 * gs.Text.FontSize
	gs.Text.TextMatrix = model.Translate(0, ty).Multiply(gs.Text.TextMatrix)
	return ty
}

// Kern applies a TJ array adjustment expressed in thousandths of a text
// space unit.
func (gs *GraphicsState) Kern(n float64) float64 {
	tx := -n / 1000.0 * gs.Text.FontSize * gs.Text.HorizontalScaling / 100.0
	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
	return tx
}
