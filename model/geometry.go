package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Rect is a PDF rectangle given by its lower-left and upper-right corners.
type Rect struct {
	LLX, LLY, URX, URY float64
}

// Letter is the US Letter page size in points.
var Letter = Rect{0, 0, 612, 792}

// NewRect normalizes two opposite corners into a Rect.
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		LLX: math.Min(x1, x2),
		LLY: math.Min(y1, y2),
		URX: math.Max(x1, x2),
		URY: math.Max(y1, y2),
	}
}

// RectFromSlice builds a Rect from a four element array, such as a
// page's MediaBox. ok is false when the slice has the wrong length.
func RectFromSlice(v []float64) (r Rect, ok bool) {
	if len(v) != 4 {
		return Rect{}, false
	}
	return NewRect(v[0], v[1], v[2], v[3]), true
}

// Width returns the horizontal extent
func (r Rect) Width() float64 {
	return r.URX - r.LLX
}

// Height returns the vertical extent
func (r Rect) Height() float64 {
	return r.URY - r.LLY
}

// IsEmpty returns true if the rectangle has zero area
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Slice returns the rectangle as [llx lly urx ury].
func (r Rect) Slice() []float64 {
	return []float64{r.LLX, r.LLY, r.URX, r.URY}
}

// FlipY converts a bottom-up PDF y coordinate into a top-down distance
// from the rectangle's upper edge.
func (r Rect) FlipY(y float64) float64 {
	return r.URY - y
}

// Matrix represents a 2D affine transformation matrix [a b c d e f]
type Matrix [6]float64

// Identity returns an identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// MatrixFromSlice converts a six element array into a Matrix.
func MatrixFromSlice(v []float64) (Matrix, bool) {
	if len(v) != 6 {
		return Identity(), false
	}
	var m Matrix
	copy(m[:], v)
	return m, true
}

// Transform applies the matrix transformation to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns m x other, i.e. the transform that applies m first and
// then other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// IsIdentity returns true if the matrix is an identity matrix
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// TransformRect maps the unit square through m and returns its bounds.
// Image XObjects are painted into this area.
func (m Matrix) TransformRect() Rect {
	pts := [4]Point{
		m.Transform(Point{0, 0}),
		m.Transform(Point{1, 0}),
		m.Transform(Point{0, 1}),
		m.Transform(Point{1, 1}),
	}
	r := Rect{LLX: pts[0].X, LLY: pts[0].Y, URX: pts[0].X, URY: pts[0].Y}
	for _, p := range pts[1:] {
		r.LLX = math.Min(r.LLX, p.X)
		r.LLY = math.Min(r.LLY, p.Y)
		r.URX = math.Max(r.URX, p.X)
		r.URY = math.Max(r.URY, p.Y)
	}
	return r
}
