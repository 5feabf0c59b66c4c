package segment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blocksN(n int) []TextBlock {
	blocks := make([]TextBlock, n)
	for i := range blocks {
		blocks[i] = TextBlock{StartY: float64(i * 100), EndY: float64(i*100 + 20)}
	}
	return blocks
}

func TestPlanSegmentsNoCuts(t *testing.T) {
	segs := PlanSegments(nil, blocksN(3), 2)

	require.Len(t, segs, 1)
	assert.Equal(t, 0, segs[0].StartPage)
	assert.Equal(t, 1, segs[0].EndPage)
	assert.Equal(t, 0.0, segs[0].StartY)
	assert.True(t, math.IsInf(segs[0].EndY, 1))
	assert.Equal(t, 0, segs[0].StartBlock)
	assert.Equal(t, 2, segs[0].EndBlock)
}

func TestPlanSegmentsNoBlocks(t *testing.T) {
	segs := PlanSegments(nil, nil, 1)

	require.Len(t, segs, 1)
	assert.Equal(t, 0, segs[0].EndBlock)
	assert.Equal(t, 0, segs[0].EndPage)
}

func TestPlanSegmentsCutPageIsShared(t *testing.T) {
	cuts := []CutPoint{
		{Page: 1, Y: 320, BlockIndex: 2},
		{Page: 3, Y: 80, BlockIndex: 6},
	}

	segs := PlanSegments(cuts, blocksN(10), 5)

	assert.Equal(t, []Segment{
		{StartPage: 0, EndPage: 1, StartY: 0, EndY: 320, StartBlock: 0, EndBlock: 2},
		{StartPage: 1, EndPage: 3, StartY: 320, EndY: 80, StartBlock: 3, EndBlock: 6},
		{StartPage: 3, EndPage: 4, StartY: 80, EndY: math.Inf(1), StartBlock: 7, EndBlock: 9},
	}, segs)
}

func TestPlanSegmentsCoverEveryBlockOnce(t *testing.T) {
	blocks := blocksN(12)
	cuts := []CutPoint{
		{Page: 0, Y: 1, BlockIndex: 0},
		{Page: 0, Y: 2, BlockIndex: 4},
		{Page: 1, Y: 3, BlockIndex: 5},
		{Page: 2, Y: 4, BlockIndex: 10},
	}

	segs := PlanSegments(cuts, blocks, 3)

	require.Len(t, segs, len(cuts)+1)
	var covered []int
	for _, s := range segs {
		for i := s.StartBlock; i <= s.EndBlock; i++ {
			covered = append(covered, i)
		}
	}
	want := make([]int, len(blocks))
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, covered)
}
