package segment

import "fmt"

// PageHeightFunc reports the height of a page.
type PageHeightFunc func(page int) (float64, error)

// FindGaps measures the whitespace between each pair of adjacent blocks.
// Across a page break the gap is the room below the earlier block plus
// the room above the later one. Only positive gaps are returned.
func FindGaps(blocks []TextBlock, pageHeight PageHeightFunc) ([]WhitespaceGap, error) {
	var gaps []WhitespaceGap
	for i := 0; i+1 < len(blocks); i++ {
		cur, next := blocks[i], blocks[i+1]

		var size float64
		if cur.Page == next.Page {
			size = next.StartY - cur.EndY
		} else {
			h, err := pageHeight(cur.Page)
			if err != nil {
				return nil, fmt.Errorf("failed to get height of page %d: %w", cur.Page, err)
			}
			size = (h - cur.EndY) + next.StartY
		}

		if size > 0 {
			gaps = append(gaps, WhitespaceGap{
				Size:             size,
				Y:                cur.EndY,
				Page:             cur.Page,
				BlockIndexBefore: i,
			})
		}
	}
	return gaps, nil
}
