package segment

import (
	"fmt"
	"math"
)

const (
	// LineGroupingThreshold is the largest Y distance (exclusive) at which
	// a glyph joins an existing line.
	LineGroupingThreshold = 3.0

	// BlockGapFactor scales the average line spacing into the distance
	// that starts a new block.
	BlockGapFactor = 1.8

	// MaxLineSpacing excludes line distances at or above it from the
	// average spacing.
	MaxLineSpacing = 50.0

	// DefaultLineSpacing is used when a page has too few lines to measure.
	DefaultLineSpacing = 15.0
)

// Glyph is a single character with its page position.
type Glyph struct {
	X    float64
	Y    float64
	Char string
}

// TextBlock is a run of consecutive lines on one page with no significant
// vertical gap between them.
type TextBlock struct {
	StartY  float64 `json:"start_y"`
	EndY    float64 `json:"end_y"`
	Page    int     `json:"page"`
	Content string  `json:"content"`
}

// Height returns the vertical extent of the block.
func (b TextBlock) Height() float64 {
	return math.Abs(b.EndY - b.StartY)
}

func (b TextBlock) String() string {
	return fmt.Sprintf("TextBlock[page=%d, y=%.2f-%.2f]", b.Page, b.StartY, b.EndY)
}

// WhitespaceGap is the space between two adjacent blocks. Y and Page mark
// the end of the earlier block, which is where a cut would go.
type WhitespaceGap struct {
	Size             float64 `json:"size"`
	Y                float64 `json:"y"`
	Page             int     `json:"page"`
	BlockIndexBefore int     `json:"block_index_before"`
}

func (g WhitespaceGap) String() string {
	return fmt.Sprintf("Gap[size=%.2f, page=%d, y=%.2f]", g.Size, g.Page, g.Y)
}

// CutPoint is a gap chosen for splitting.
type CutPoint struct {
	Page       int     `json:"page"`
	Y          float64 `json:"y"`
	BlockIndex int     `json:"block_index"`
}

func (c CutPoint) String() string {
	return fmt.Sprintf("CutPoint[page=%d, y=%.2f, blockIdx=%d]", c.Page, c.Y, c.BlockIndex)
}

// before reports whether c comes earlier in the document than o.
func (c CutPoint) before(o CutPoint) bool {
	if c.Page != o.Page {
		return c.Page < o.Page
	}
	return c.Y < o.Y
}

// Segment is the page range of one output document. StartY and EndY
// locate the cuts; assembly copies whole pages and does not use them.
type Segment struct {
	StartPage  int
	EndPage    int
	StartY     float64
	EndY       float64 // +Inf for the final segment
	StartBlock int
	EndBlock   int
}

func (s Segment) String() string {
	return fmt.Sprintf("Segment[pages=%d-%d, blocks=%d-%d]", s.StartPage, s.EndPage, s.StartBlock, s.EndBlock)
}

// Analysis is the full result of analysing a document.
type Analysis struct {
	Blocks     []TextBlock
	Gaps       []WhitespaceGap
	CutPoints  []CutPoint
	Segments   []Segment
	TotalPages int
}
