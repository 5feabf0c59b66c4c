// Package font decodes PDF string operands into glyphs.
//
// A [Font] is built from a font dictionary with [Load], which dispatches
// on /Subtype to [NewType1Font], [NewTrueTypeFont], [NewType3Font] or
// [NewType0Font]. The result splits byte strings into character codes and
// reports, for each code, its Unicode text and its horizontal advance:
//
//	f, err := font.Load(fontDict, resolver)
//	for _, g := range f.Decode(raw) {
//		fmt.Println(g.Text, g.Width)
//	}
//
// # Text
//
// Text comes from the /ToUnicode CMap when present. Otherwise simple fonts
// use their encoding (StandardEncoding, WinAnsiEncoding, MacRomanEncoding
// plus any /Differences glyph names). Composite fonts without a ToUnicode
// map only yield text for UCS-2 CMaps. All text is NFKC normalized.
//
// # Widths
//
// Widths come from /Widths, from the /W array of a CIDFont, from the
// advances of an embedded TrueType program, or from the built-in Standard
// 14 tables, in that order of preference.
package font
