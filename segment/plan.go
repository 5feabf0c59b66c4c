package segment

import "math"

// PlanSegments turns ordered cut points into len(cuts)+1 segments.
//
// A segment after a cut starts on the page holding the cut, so with
// page-granular assembly that page appears in both neighbouring segments.
func PlanSegments(cuts []CutPoint, blocks []TextBlock, totalPages int) []Segment {
	segments := make([]Segment, 0, len(cuts)+1)

	startPage, startY, startBlock := 0, 0.0, 0
	for _, c := range cuts {
		segments = append(segments, Segment{
			StartPage:  startPage,
			EndPage:    c.Page,
			StartY:     startY,
			EndY:       c.Y,
			StartBlock: startBlock,
			EndBlock:   c.BlockIndex,
		})
		startPage, startY, startBlock = c.Page, c.Y, c.BlockIndex+1
	}

	lastBlock := 0
	if len(blocks) > 0 {
		lastBlock = len(blocks) - 1
	}
	return append(segments, Segment{
		StartPage:  startPage,
		EndPage:    totalPages - 1,
		StartY:     startY,
		EndY:       math.Inf(1),
		StartBlock: startBlock,
		EndBlock:   lastBlock,
	})
}
