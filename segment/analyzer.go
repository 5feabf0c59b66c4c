package segment

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GlyphSource supplies the pages of a document.
type GlyphSource interface {
	PageCount() (int, error)
	PageHeight(page int) (float64, error)
	Glyphs(page int) ([]Glyph, error)
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithWorkers sets how many pages are analysed at once. Values below one
// mean sequential analysis.
func WithWorkers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n < 1 {
			n = 1
		}
		a.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) AnalyzerOption {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// Analyzer runs the segmentation pipeline over a GlyphSource.
type Analyzer struct {
	workers int
	log     logrus.FieldLogger
}

// NewAnalyzer creates an analyzer. By default pages are processed one at
// a time and nothing is logged.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Analyzer{workers: 1, log: discard}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Blocks extracts the text blocks of every page in document order and
// returns them with the page count. Pages may be processed in parallel;
// the result does not depend on the worker count.
func (a *Analyzer) Blocks(ctx context.Context, src GlyphSource) ([]TextBlock, int, error) {
	total, err := src.PageCount()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get page count: %w", err)
	}

	perPage := make([][]TextBlock, total)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i := 0; i < total; i++ {
		page := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			glyphs, err := src.Glyphs(page)
			if err != nil {
				return fmt.Errorf("failed to extract glyphs from page %d: %w", page, err)
			}
			perPage[page] = PageBlocks(page, glyphs)
			a.log.WithFields(logrus.Fields{
				"page":   page,
				"glyphs": len(glyphs),
				"blocks": len(perPage[page]),
			}).Debug("page analysed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var blocks []TextBlock
	for _, pb := range perPage {
		blocks = append(blocks, pb...)
	}
	return blocks, total, nil
}

// Analyze extracts blocks, finds gaps, selects up to numCuts cut points
// and plans the segments.
func (a *Analyzer) Analyze(ctx context.Context, src GlyphSource, numCuts int) (*Analysis, error) {
	blocks, total, err := a.Blocks(ctx, src)
	if err != nil {
		return nil, err
	}

	an, err := Plan(blocks, total, src.PageHeight, numCuts)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"pages":  total,
		"blocks": len(blocks),
		"gaps":   len(an.Gaps),
		"cuts":   len(an.CutPoints),
	}).Info("analysis complete")
	return an, nil
}

// Plan runs the steps after block extraction: gaps, cut selection and
// segment planning. blocks must be in document order.
func Plan(blocks []TextBlock, totalPages int, pageHeight PageHeightFunc, numCuts int) (*Analysis, error) {
	gaps, err := FindGaps(blocks, pageHeight)
	if err != nil {
		return nil, err
	}

	cuts := SelectCuts(gaps, numCuts)
	return &Analysis{
		Blocks:     blocks,
		Gaps:       gaps,
		CutPoints:  cuts,
		Segments:   PlanSegments(cuts, blocks, totalPages),
		TotalPages: totalPages,
	}, nil
}
