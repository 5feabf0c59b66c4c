// Package pdfsegment splits a PDF into smaller PDFs at the largest
// vertical gaps between blocks of text, so cuts fall between paragraphs
// and sections rather than mid-sentence.
//
// Basic usage:
//
//	files, err := pdfsegment.Open("report.pdf").Cuts(3).Split()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	files, err := pdfsegment.Open("report.pdf").
//	    Cuts(3).
//	    OutputDir("out").
//	    Backend(pdfsegment.BackendPDFCPU).
//	    Workers(4).
//	    Report("out/plan.html").
//	    Split()
//
// Analyze runs the same pipeline without writing any files:
//
//	an, err := pdfsegment.Open("report.pdf").Cuts(3).Analyze()
//
// Outputs are named <base>_segment_<k>.pdf, k counting from 1. Page
// ranges are whole pages: the page holding a cut is written to both
// neighbouring segments. When no cut can be made the source is copied
// unchanged as the only segment. Existing outputs are overwritten and
// outputs already written stay on disk if a later step fails.
//
// For lower-level access, see the segment, reader and assemble packages.
package pdfsegment

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Open returns a Splitter for the PDF at filename. Nothing is read until
// Split or Analyze is called.
//
// Example:
//
//	files, err := pdfsegment.Open("document.pdf").Cuts(2).Split()
func Open(filename string) *Splitter {
	return &Splitter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	files := pdfsegment.Must(pdfsegment.Open("document.pdf").Cuts(1).Split())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// BaseName returns the file name of path without its last extension. A
// leading dot does not start an extension, so ".pdf" stays ".pdf".
func BaseName(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == "" || len(ext) == len(name) {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// DefaultOutputDir returns the directory outputs go to when none is set:
// <base>_segments beside the source file.
func DefaultOutputDir(path string) string {
	return filepath.Join(filepath.Dir(path), BaseName(path)+"_segments")
}

// SegmentName returns the file name of the k-th output, counting from 1.
func SegmentName(base string, k int) string {
	return base + "_segment_" + strconv.Itoa(k) + ".pdf"
}
