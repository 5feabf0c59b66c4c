// Package pages walks the PDF page tree and exposes per-page attributes.
//
//	cat := pages.NewCatalog(rootDict, doc)
//	tree, _ := cat.PageTree()
//	all, _ := tree.Pages()
//	height := all[0].Height()
//
// Inheritable attributes (/Resources, /MediaBox, /CropBox, /Rotate) are
// looked up through every ancestor Pages node, not just the direct parent.
// Each [Page] keeps its object reference so writers can copy it.
//
// Missing or malformed media boxes default to US Letter (612 x 792).
// Page rotation is reported but never applied to coordinates.
package pages
