// Package model holds the small geometry vocabulary shared by the PDF
// packages: points, rectangles in PDF user space and affine matrices.
//
// PDF user space is bottom-up. [Rect.FlipY] converts a y coordinate into
// the top-down distance used by segmentation, where a larger value means
// further down the page.
package model
