package segment

import (
	"math"
	"sort"
	"strings"
)

// Line is a set of glyphs sharing approximately the same Y. Y is the Y of
// the first glyph that opened the line.
type Line struct {
	Y      float64
	Glyphs []Glyph
}

// Text concatenates the glyphs ordered by X. No spaces are synthesised.
func (l Line) Text() string {
	glyphs := make([]Glyph, len(l.Glyphs))
	copy(glyphs, l.Glyphs)
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(g.Char)
	}
	return sb.String()
}

// GroupLines clusters glyphs into lines, returned in ascending Y order.
//
// Each glyph joins the first line, scanning in ascending Y, whose key is
// closer than LineGroupingThreshold; otherwise it opens a new line keyed
// by its own Y. Keys never move, so a line can collect glyphs spread
// across more than the threshold, and the result depends on glyph order.
func GroupLines(glyphs []Glyph) []Line {
	var lines []Line
	for _, g := range glyphs {
		if i := matchLine(lines, g.Y); i >= 0 {
			lines[i].Glyphs = append(lines[i].Glyphs, g)
			continue
		}

		i := sort.Search(len(lines), func(i int) bool { return lines[i].Y > g.Y })
		lines = append(lines, Line{})
		copy(lines[i+1:], lines[i:])
		lines[i] = Line{Y: g.Y, Glyphs: []Glyph{g}}
	}
	return lines
}

func matchLine(lines []Line, y float64) int {
	for i, l := range lines {
		if math.Abs(l.Y-y) < LineGroupingThreshold {
			return i
		}
	}
	return -1
}
