package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/pdfsegment/segment"
)

// Format is a report output format.
type Format int

const (
	// FormatJSON writes the plan as one indented JSON document
	FormatJSON Format = iota
	// FormatHTML writes a standalone HTML page with one table per section
	FormatHTML
)

// String returns a human-readable representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return 0, fmt.Errorf("unsupported report extension %q (want .json or .html)", filepath.Ext(path))
}

// Plan is the serialisable form of an analysis.
type Plan struct {
	Source     string                  `json:"source"`
	RunID      string                  `json:"run_id,omitempty"`
	TotalPages int                     `json:"total_pages"`
	Blocks     []segment.TextBlock     `json:"blocks"`
	Gaps       []segment.WhitespaceGap `json:"gaps"`
	Cuts       []segment.CutPoint      `json:"cuts"`
	Segments   []Segment               `json:"segments"`
}

// Segment is one planned output. EndY is nil when the segment runs to the
// end of the document.
type Segment struct {
	Number     int      `json:"number"`
	Output     string   `json:"output,omitempty"`
	StartPage  int      `json:"start_page"`
	EndPage    int      `json:"end_page"`
	StartY     float64  `json:"start_y"`
	EndY       *float64 `json:"end_y"`
	StartBlock int      `json:"start_block"`
	EndBlock   int      `json:"end_block"`
}

// NewPlan builds a plan. outputs, when given, are paired with segments in
// order.
func NewPlan(source, runID string, an *segment.Analysis, outputs []string) *Plan {
	p := &Plan{
		Source:     source,
		RunID:      runID,
		TotalPages: an.TotalPages,
		Blocks:     nonNil(an.Blocks),
		Gaps:       nonNil(an.Gaps),
		Cuts:       nonNil(an.CutPoints),
		Segments:   make([]Segment, len(an.Segments)),
	}
	for i, s := range an.Segments {
		seg := Segment{
			Number:     i + 1,
			StartPage:  s.StartPage,
			EndPage:    s.EndPage,
			StartY:     s.StartY,
			StartBlock: s.StartBlock,
			EndBlock:   s.EndBlock,
		}
		if !math.IsInf(s.EndY, 0) {
			end := s.EndY
			seg.EndY = &end
		}
		if i < len(outputs) {
			seg.Output = outputs[i]
		}
		p.Segments[i] = seg
	}
	return p
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Write renders the plan in the given format.
func (p *Plan) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(p)
	case FormatHTML:
		return p.writeHTML(w)
	default:
		return fmt.Errorf("unsupported report format: %v", f)
	}
}

// WriteFile renders the plan to path in the format its extension names.
func (p *Plan) WriteFile(path string) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := p.Write(&buf, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	return nil
}
