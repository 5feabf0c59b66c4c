// Package segment finds the natural breaks in a document's text and plans
// how to split it.
//
// The pipeline runs per page and then across the whole document:
//
//   - [GroupLines] clusters a page's glyphs into lines by Y.
//   - [MergeBlocks] joins consecutive lines into text blocks, breaking
//     where the vertical distance is well above the page's line spacing.
//   - [FindGaps] measures the whitespace between adjacent blocks, including
//     across page boundaries.
//   - [SelectCuts] keeps the largest gaps and orders them by position.
//   - [PlanSegments] turns the cuts into page ranges.
//
// An [Analyzer] drives the pipeline over a [GlyphSource]:
//
//	an, err := segment.NewAnalyzer(segment.WithWorkers(4)).Analyze(ctx, src, 3)
//	for _, s := range an.Segments {
//	    fmt.Println(s)
//	}
//
// All Y coordinates grow downward from the top of the page. The thresholds
// are fixed constants.
package segment
