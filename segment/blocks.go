package segment

import "strings"

// AverageLineSpacing is the mean distance between consecutive lines,
// counting only distances in (0, MaxLineSpacing). It falls back to
// DefaultLineSpacing when nothing qualifies.
func AverageLineSpacing(lines []Line) float64 {
	if len(lines) < 2 {
		return DefaultLineSpacing
	}

	var total float64
	count := 0
	for i := 1; i < len(lines); i++ {
		d := lines[i].Y - lines[i-1].Y
		if d > 0 && d < MaxLineSpacing {
			total += d
			count++
		}
	}
	if count == 0 {
		return DefaultLineSpacing
	}
	return total / float64(count)
}

// MergeBlocks joins a page's lines (ascending Y) into blocks. A line
// further than BlockGapFactor times the average line spacing below the
// end of the current block starts a new one.
func MergeBlocks(page int, lines []Line) []TextBlock {
	if len(lines) == 0 {
		return nil
	}

	threshold := AverageLineSpacing(lines) * BlockGapFactor

	var blocks []TextBlock
	startY, endY := lines[0].Y, lines[0].Y
	parts := []string{lines[0].Text()}

	for _, l := range lines[1:] {
		if l.Y-endY > threshold {
			blocks = append(blocks, newBlock(page, startY, endY, parts))
			startY = l.Y
			parts = parts[:0]
		}
		endY = l.Y
		parts = append(parts, l.Text())
	}

	return append(blocks, newBlock(page, startY, endY, parts))
}

func newBlock(page int, startY, endY float64, parts []string) TextBlock {
	return TextBlock{
		StartY:  startY,
		EndY:    endY,
		Page:    page,
		Content: strings.TrimSpace(strings.Join(parts, " ")),
	}
}

// PageBlocks groups one page's glyphs into blocks.
func PageBlocks(page int, glyphs []Glyph) []TextBlock {
	return MergeBlocks(page, GroupLines(glyphs))
}
