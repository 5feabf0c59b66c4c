package pdfsegment

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/pdfsegment/ocr"
	"github.com/tsawler/pdfsegment/reader"
)

// Backend selects how output PDFs are written.
type Backend string

const (
	// BackendNative copies page objects into a new file with the
	// built-in writer.
	BackendNative Backend = "native"
	// BackendPDFCPU trims a copy of the source with pdfcpu.
	BackendPDFCPU Backend = "pdfcpu"
)

// SplitOptions holds configuration for a split.
type SplitOptions struct {
	numCuts    int
	outputDir  string // empty means DefaultOutputDir
	backend    Backend
	workers    int
	recognizer ocr.Recognizer
	minConf    float64 // OCR words below this confidence are dropped
	logger     logrus.FieldLogger
	report     string
}

// defaultOptions returns the default split options.
func defaultOptions() SplitOptions {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	return SplitOptions{
		backend: BackendNative,
		workers: 1,
		minConf: reader.DefaultMinConfidence,
		logger:  discard,
	}
}
