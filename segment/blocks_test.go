package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linesAt(ys ...float64) []Line {
	lines := make([]Line, len(ys))
	for i, y := range ys {
		lines[i] = Line{Y: y, Glyphs: []Glyph{{Y: y, Char: string(rune('a' + i))}}}
	}
	return lines
}

func TestAverageLineSpacing(t *testing.T) {
	tests := []struct {
		name string
		ys   []float64
		want float64
	}{
		{"no lines", nil, DefaultLineSpacing},
		{"one line", []float64{100}, DefaultLineSpacing},
		{"regular", []float64{100, 112, 124}, 12},
		{"outlier excluded", []float64{100, 112, 124, 300}, 12},
		{"fifty is excluded", []float64{100, 150}, DefaultLineSpacing},
		{"mixed", []float64{100, 104, 114, 118}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AverageLineSpacing(linesAt(tt.ys...)), 1e-9)
		})
	}
}

func TestMergeBlocksSingleLine(t *testing.T) {
	blocks := MergeBlocks(2, linesAt(345.5))

	require.Len(t, blocks, 1)
	assert.Equal(t, TextBlock{StartY: 345.5, EndY: 345.5, Page: 2, Content: "a"}, blocks[0])
}

func TestMergeBlocksEmpty(t *testing.T) {
	assert.Empty(t, MergeBlocks(0, nil))
}

func TestMergeBlocksSplitsOnLargeGap(t *testing.T) {
	// spacing 12, threshold 21.6
	blocks := MergeBlocks(0, linesAt(100, 112, 124, 200, 212))

	require.Len(t, blocks, 2)
	assert.Equal(t, TextBlock{StartY: 100, EndY: 124, Page: 0, Content: "a b c"}, blocks[0])
	assert.Equal(t, TextBlock{StartY: 200, EndY: 212, Page: 0, Content: "d e"}, blocks[1])
}

func TestMergeBlocksGapMeasuredFromBlockEnd(t *testing.T) {
	// spacing (10+10+19)/3 = 13, threshold 23.4; 19 stays in the block
	blocks := MergeBlocks(0, linesAt(100, 110, 120, 139))

	require.Len(t, blocks, 1)
	assert.Equal(t, 100.0, blocks[0].StartY)
	assert.Equal(t, 139.0, blocks[0].EndY)
}

func TestMergeBlocksTrimsContent(t *testing.T) {
	lines := []Line{
		{Y: 100, Glyphs: []Glyph{{Char: " "}, {X: 1, Char: "x"}}},
		{Y: 110, Glyphs: []Glyph{{Char: "y"}, {X: 1, Char: " "}}},
	}

	blocks := MergeBlocks(0, lines)

	require.Len(t, blocks, 1)
	assert.Equal(t, "x y", blocks[0].Content)
}

func TestPageBlocks(t *testing.T) {
	glyphs := []Glyph{
		{X: 72, Y: 100, Char: "H"},
		{X: 80, Y: 100.5, Char: "i"},
		{X: 72, Y: 400, Char: "B"},
		{X: 72, Y: 112, Char: "!"},
	}

	blocks := PageBlocks(1, glyphs)

	require.Len(t, blocks, 2)
	assert.Equal(t, "Hi !", blocks[0].Content)
	assert.Equal(t, 112.0, blocks[0].EndY)
	assert.Equal(t, "B", blocks[1].Content)
	assert.Equal(t, 1, blocks[1].Page)
}

func TestTextBlockHeight(t *testing.T) {
	assert.Equal(t, 24.0, TextBlock{StartY: 100, EndY: 124}.Height())
	assert.Equal(t, 0.0, TextBlock{StartY: 50, EndY: 50}.Height())
}
