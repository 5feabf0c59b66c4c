// Package text extracts positioned glyphs from PDF page content streams.
//
// A [GlyphExtractor] interprets the text operators of a content stream
// (BT/ET, Tf, Tc, Tw, Tz, TL, Ts, Tm, Td, TD, T*, Tj, TJ, ' and ")
// together with q, Q and cm, and follows Form XObjects invoked with Do.
// Each character code shown produces one [Glyph]:
//
//	ex := text.NewGlyphExtractor(reader.ResolveReference)
//	glyphs, err := ex.ExtractPage(page)
//
// Glyph positions come from the text rendering matrix. X is in default
// user space. Y is measured downward from the top of the page's MediaBox,
// so glyphs further down the page have larger Y.
//
// Glyphs are returned in content stream order. Codes that decode to no
// text are dropped; invisible text (rendering mode 3) is kept and flagged.
//
// Image XObjects painted on the page are collected as [Image] placements,
// which callers can hand to an OCR engine when a page carries no text.
//
// # Fonts
//
// Fonts are loaded with the font package on first use. Fonts named by an
// indirect reference are kept in a [FontCache] that may be shared by
// extractors running in parallel. A font that is missing or fails to load
// falls back to Helvetica metrics.
package text
