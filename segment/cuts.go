package segment

import "sort"

// SelectCuts keeps the n largest gaps and returns them as cut points in
// document order. Asking for more cuts than there are gaps returns one
// cut per gap.
func SelectCuts(gaps []WhitespaceGap, n int) []CutPoint {
	if len(gaps) == 0 || n <= 0 {
		return nil
	}

	bySize := make([]WhitespaceGap, len(gaps))
	copy(bySize, gaps)
	sort.SliceStable(bySize, func(i, j int) bool {
		return bySize[i].Size > bySize[j].Size
	})

	if n > len(bySize) {
		n = len(bySize)
	}
	cuts := make([]CutPoint, n)
	for i, g := range bySize[:n] {
		cuts[i] = CutPoint{Page: g.Page, Y: g.Y, BlockIndex: g.BlockIndexBefore}
	}

	sort.SliceStable(cuts, func(i, j int) bool {
		return cuts[i].before(cuts[j])
	})
	return cuts
}
