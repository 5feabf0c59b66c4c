// Package graphicsstate tracks the parts of the PDF graphics state that
// determine glyph placement: the CTM, the q/Q stack and the text state.
//
// Glyph positions follow the usual PDF text space rules. For each glyph
// the text rendering matrix is
//
//	Trm = [Tfs*Th 0 0 Tfs 0 Trise] x Tm x CTM
//
// and after painting, Tm is translated by
//
//	tx = (w0*Tfs + Tc + Tw) * Th
//
// where Tw only applies to the single-byte code 32. TJ numeric adjustments
// move Tm by -n/1000*Tfs*Th.
//
//	gs := graphicsstate.NewGraphicsState()
//	gs.Save()
//	gs.Transform(m)
//	gs.SetFont("F1", 12)
//	origin := gs.GlyphOrigin()
//	gs.AdvanceGlyph(0.5, false)
//	gs.Restore()
package graphicsstate
