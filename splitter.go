package pdfsegment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tsawler/pdfsegment/assemble"
	"github.com/tsawler/pdfsegment/format"
	"github.com/tsawler/pdfsegment/ocr"
	"github.com/tsawler/pdfsegment/reader"
	"github.com/tsawler/pdfsegment/report"
	"github.com/tsawler/pdfsegment/segment"
)

// Splitter provides a fluent interface for splitting a PDF. Each
// configuration method returns a new Splitter, so a partly configured
// Splitter can be reused and shared between goroutines.
type Splitter struct {
	filename string
	options  SplitOptions

	// first invalid option, reported by Split or Analyze
	err error
}

// clone creates a copy of the Splitter so chain methods do not mutate
// their receiver.
func (s *Splitter) clone() *Splitter {
	return &Splitter{
		filename: s.filename,
		options:  s.options,
		err:      s.err,
	}
}

// Cuts sets how many cuts to make. The result has at most n+1 segments;
// fewer when the document has fewer gaps. n must be at least 1.
func (s *Splitter) Cuts(n int) *Splitter {
	ns := s.clone()
	ns.options.numCuts = n
	return ns
}

// OutputDir sets the directory outputs are written to. It is created if
// missing.
func (s *Splitter) OutputDir(dir string) *Splitter {
	ns := s.clone()
	ns.options.outputDir = dir
	return ns
}

// Backend selects the output writer.
func (s *Splitter) Backend(b Backend) *Splitter {
	ns := s.clone()
	switch b {
	case BackendNative, BackendPDFCPU:
		ns.options.backend = b
	default:
		if ns.err == nil {
			ns.err = validationError("", fmt.Errorf("unknown backend %q", b))
		}
	}
	return ns
}

// Workers sets how many pages are analysed at once. The result does not
// depend on it.
func (s *Splitter) Workers(n int) *Splitter {
	ns := s.clone()
	if n < 1 {
		if ns.err == nil {
			ns.err = validationError("", fmt.Errorf("workers must be at least 1, got %d", n))
		}
		return ns
	}
	ns.options.workers = n
	return ns
}

// OCR recognises pages that carry no text with rec.
func (s *Splitter) OCR(rec ocr.Recognizer) *Splitter {
	ns := s.clone()
	ns.options.recognizer = rec
	return ns
}

// OCRMinConfidence sets the lowest word confidence (0-100) kept from OCR.
// It defaults to reader.DefaultMinConfidence.
func (s *Splitter) OCRMinConfidence(c float64) *Splitter {
	ns := s.clone()
	if c < 0 || c > 100 {
		if ns.err == nil {
			ns.err = validationError("", fmt.Errorf("OCR min confidence must be between 0 and 100, got %g", c))
		}
		return ns
	}
	ns.options.minConf = c
	return ns
}

// Logger sets the logger. By default nothing is logged.
func (s *Splitter) Logger(log logrus.FieldLogger) *Splitter {
	ns := s.clone()
	if log != nil {
		ns.options.logger = log
	}
	return ns
}

// Report writes the analysis and the outputs to path after a split. The
// extension picks the format: .json, .html or .htm.
func (s *Splitter) Report(path string) *Splitter {
	ns := s.clone()
	ns.options.report = path
	return ns
}

// Analyze runs the pipeline without writing anything.
func (s *Splitter) Analyze() (*segment.Analysis, error) {
	return s.AnalyzeContext(context.Background())
}

// AnalyzeContext is Analyze with a context that stops page extraction
// when cancelled.
func (s *Splitter) AnalyzeContext(ctx context.Context) (*segment.Analysis, error) {
	if err := s.validate(false); err != nil {
		return nil, err
	}
	log := s.runLogger(uuid.NewString())

	r, err := s.openReader(log)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return s.analyze(ctx, r, log)
}

// Split analyses the document and writes one PDF per segment. It returns
// the output paths in segment order.
func (s *Splitter) Split() ([]string, error) {
	return s.SplitContext(context.Background())
}

// SplitContext is Split with a context that stops page extraction when
// cancelled.
func (s *Splitter) SplitContext(ctx context.Context) ([]string, error) {
	if err := s.validate(true); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := s.runLogger(runID)

	r, err := s.openReader(log)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	an, err := s.analyze(ctx, r, log)
	if err != nil {
		return nil, err
	}

	dir := s.outputDir()
	base := BaseName(s.filename)

	var outputs []string
	if len(an.CutPoints) == 0 {
		out := filepath.Join(dir, SegmentName(base, 1))
		if err := assemble.CopyWhole(s.filename, out); err != nil {
			return nil, processingError(StageCopy, out, err)
		}
		log.WithField("output", out).Info("no cuts found, copied source")
		outputs = []string{out}
	} else {
		asm, err := s.assembler(r, log)
		if err != nil {
			return nil, err
		}
		for i, seg := range an.Segments {
			out := filepath.Join(dir, SegmentName(base, i+1))
			if err := asm.WritePages(seg.StartPage, seg.EndPage, out); err != nil {
				return outputs, processingError(StageAssemble, out, err)
			}
			log.WithFields(logrus.Fields{
				"segment": i + 1,
				"pages":   fmt.Sprintf("%d-%d", seg.StartPage, seg.EndPage),
				"output":  out,
			}).Debug("segment written")
			outputs = append(outputs, out)
		}
	}

	if s.options.report != "" {
		plan := report.NewPlan(s.filename, runID, an, outputs)
		if err := plan.WriteFile(s.options.report); err != nil {
			return outputs, processingError(StageReport, s.options.report, err)
		}
	}

	log.WithField("segments", len(outputs)).Info("split complete")
	return outputs, nil
}

// validate checks the input before anything is read. With write set the
// output directory is created too.
func (s *Splitter) validate(write bool) error {
	if s.err != nil {
		return s.err
	}
	if s.filename == "" {
		return validationError("", errors.New("no filename specified"))
	}

	info, err := os.Stat(s.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return validationError(s.filename, errors.New("file does not exist"))
		}
		return validationError(s.filename, err)
	}
	if info.IsDir() {
		return validationError(s.filename, errors.New("is a directory"))
	}
	if f := format.Detect(s.filename); f != format.PDF {
		return validationError(s.filename, fmt.Errorf("not a PDF file (extension %q)", filepath.Ext(s.filename)))
	}
	detected, err := format.DetectFile(s.filename)
	if err != nil {
		return validationError(s.filename, err)
	}
	if detected != format.PDF {
		return validationError(s.filename, fmt.Errorf("content is not PDF (looks like %s)", detected))
	}

	if s.options.numCuts < 1 {
		return validationError("", fmt.Errorf("number of cuts must be at least 1, got %d", s.options.numCuts))
	}
	if !write {
		return nil
	}

	if s.options.report != "" {
		if _, err := report.FormatForPath(s.options.report); err != nil {
			return validationError(s.options.report, err)
		}
	}
	dir := s.outputDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return validationError(dir, fmt.Errorf("failed to create output directory: %w", err))
	}
	return nil
}

func (s *Splitter) outputDir() string {
	if s.options.outputDir != "" {
		return s.options.outputDir
	}
	return DefaultOutputDir(s.filename)
}

func (s *Splitter) runLogger(runID string) logrus.FieldLogger {
	return s.options.logger.WithFields(logrus.Fields{
		"run":  runID,
		"file": s.filename,
	})
}

func (s *Splitter) openReader(log logrus.FieldLogger) (*reader.Reader, error) {
	opts := []reader.Option{reader.WithLogger(log)}
	if s.options.recognizer != nil {
		opts = append(opts,
			reader.WithRecognizer(s.options.recognizer),
			reader.WithMinConfidence(s.options.minConf),
		)
	}
	r, err := reader.Open(s.filename, opts...)
	if err != nil {
		return nil, processingError(StageOpen, s.filename, err)
	}
	log.WithFields(logrus.Fields{
		"stage":   StageOpen,
		"version": r.Version().String(),
		"objects": r.NumObjects(),
		"bytes":   r.FileSize(),
	}).Debug("document opened")
	return r, nil
}

func (s *Splitter) analyze(ctx context.Context, r *reader.Reader, log logrus.FieldLogger) (*segment.Analysis, error) {
	analyzer := segment.NewAnalyzer(
		segment.WithWorkers(s.options.workers),
		segment.WithLogger(log),
	)
	blocks, total, err := analyzer.Blocks(ctx, r)
	if err != nil {
		return nil, processingError(StageAnalyze, s.filename, err)
	}

	an, err := segment.Plan(blocks, total, r.PageHeight, s.options.numCuts)
	if err != nil {
		return nil, processingError(StagePlan, s.filename, err)
	}

	log.WithFields(logrus.Fields{
		"stage":    StagePlan,
		"pages":    an.TotalPages,
		"blocks":   len(an.Blocks),
		"gaps":     len(an.Gaps),
		"cuts":     len(an.CutPoints),
		"segments": len(an.Segments),
	}).Info("analysis complete")
	return an, nil
}

func (s *Splitter) assembler(r *reader.Reader, log logrus.FieldLogger) (assemble.Assembler, error) {
	if s.options.backend == BackendPDFCPU {
		asm, err := assemble.NewPDFCPU(s.filename, assemble.WithLogger(log))
		if err != nil {
			return nil, processingError(StageAssemble, s.filename, err)
		}
		return asm, nil
	}
	return assemble.NewNative(r, assemble.WithLogger(log)), nil
}
