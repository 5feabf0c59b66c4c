// Package reader opens PDF files and serves their pages as positioned
// glyphs.
//
// The whole file is read into memory. Classic cross-reference tables,
// cross-reference streams, incremental updates and object streams are
// supported; when the table is unreadable or points at the wrong bytes it
// is rebuilt once by scanning for object headers.
//
//	r, err := reader.Open("report.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, _ := r.PageCount()
//	glyphs, _ := r.Glyphs(0)
//
// A Reader implements segment.GlyphSource and may be used from several
// goroutines. Glyph Y coordinates grow downward from the top of the media
// box. Pages that yield no text can be recognised with OCR by passing
// WithRecognizer.
//
// Encrypted files are rejected with ErrEncrypted.
package reader
