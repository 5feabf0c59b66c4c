package segment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letterHeight(int) (float64, error) { return 792, nil }

func TestFindGapsSamePage(t *testing.T) {
	blocks := []TextBlock{
		{StartY: 100, EndY: 124, Page: 0},
		{StartY: 200, EndY: 212, Page: 0},
	}

	gaps, err := FindGaps(blocks, letterHeight)

	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, WhitespaceGap{Size: 76, Y: 124, Page: 0, BlockIndexBefore: 0}, gaps[0])
}

func TestFindGapsAcrossPages(t *testing.T) {
	blocks := []TextBlock{
		{StartY: 72, EndY: 700, Page: 0},
		{StartY: 72, EndY: 300, Page: 1},
	}

	gaps, err := FindGaps(blocks, letterHeight)

	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, 92.0+72.0, gaps[0].Size)
	assert.Equal(t, 700.0, gaps[0].Y)
	assert.Equal(t, 0, gaps[0].Page)
}

func TestFindGapsUsesEarlierPageHeight(t *testing.T) {
	blocks := []TextBlock{
		{StartY: 10, EndY: 500, Page: 0},
		{StartY: 10, EndY: 20, Page: 3},
	}
	heights := func(page int) (float64, error) {
		if page == 0 {
			return 600, nil
		}
		return 1000, nil
	}

	gaps, err := FindGaps(blocks, heights)

	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, 110.0, gaps[0].Size)
}

func TestFindGapsSkipsNonPositive(t *testing.T) {
	blocks := []TextBlock{
		{StartY: 100, EndY: 200, Page: 0},
		{StartY: 150, EndY: 250, Page: 0}, // overlaps
		{StartY: 250, EndY: 260, Page: 0}, // touches
		{StartY: 300, EndY: 310, Page: 0},
	}

	gaps, err := FindGaps(blocks, letterHeight)

	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, 2, gaps[0].BlockIndexBefore)
	for _, g := range gaps {
		assert.Greater(t, g.Size, 0.0)
	}
}

func TestFindGapsTrivial(t *testing.T) {
	gaps, err := FindGaps(nil, letterHeight)
	require.NoError(t, err)
	assert.Empty(t, gaps)

	gaps, err = FindGaps([]TextBlock{{StartY: 1, EndY: 2}}, letterHeight)
	require.NoError(t, err)
	assert.Empty(t, gaps)
}

func TestFindGapsHeightError(t *testing.T) {
	boom := errors.New("boom")
	blocks := []TextBlock{{Page: 0, EndY: 10}, {Page: 1, StartY: 10}}

	_, err := FindGaps(blocks, func(int) (float64, error) { return 0, boom })

	assert.ErrorIs(t, err, boom)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "TextBlock[page=1, y=72.00-144.50]", TextBlock{StartY: 72, EndY: 144.5, Page: 1}.String())
	assert.Equal(t, "Gap[size=50.25, page=0, y=400.00]", WhitespaceGap{Size: 50.25, Y: 400, Page: 0, BlockIndexBefore: 3}.String())
	assert.Equal(t, "CutPoint[page=2, y=13.37, blockIdx=4]", CutPoint{Page: 2, Y: 13.37, BlockIndex: 4}.String())
	assert.Equal(t, "Segment[pages=0-2, blocks=0-4]", Segment{StartPage: 0, EndPage: 2, StartBlock: 0, EndBlock: 4}.String())
}
