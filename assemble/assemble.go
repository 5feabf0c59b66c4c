package assemble

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/model"
)

// Assembler writes the pages startPage..endPage (0-based, inclusive) of
// its source document to outputPath, replacing any existing file.
type Assembler interface {
	WritePages(startPage, endPage int, outputPath string) error
}

// Option configures a backend.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(opts []Option) options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	o := options{log: discard}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Clamp limits [start, end] to the pages of a document with pageCount
// pages. ok is false when nothing remains.
func Clamp(start, end, pageCount int) (int, int, bool) {
	if start < 0 {
		start = 0
	}
	if end > pageCount-1 {
		end = pageCount - 1
	}
	return start, end, start <= end
}

// WriteBlank writes a one-page PDF with an empty US Letter page.
func WriteBlank(outputPath string) error {
	w := core.NewWriter()
	root := w.Reserve()
	content := w.Add(&core.Stream{Dict: core.Dict{}})
	page := w.Add(core.Dict{
		"Type":      core.Name("Page"),
		"Parent":    root,
		"MediaBox":  rectArray(model.Letter),
		"Resources": core.Dict{},
		"Contents":  content,
	})
	if err := w.Set(root, core.Dict{
		"Type":  core.Name("Pages"),
		"Kids":  core.Array{page},
		"Count": core.Int(1),
	}); err != nil {
		return err
	}
	w.SetRoot(w.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": root}))
	return writeFile(w, outputPath)
}

// CopyWhole copies src to dst byte for byte, truncating dst if it exists.
func CopyWhole(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy: %w", err)
	}
	return out.Close()
}

func writeFile(w *core.Writer, path string) error {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to serialise PDF: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func rectArray(r model.Rect) core.Array {
	arr := make(core.Array, 4)
	for i, v := range r.Slice() {
		arr[i] = core.Real(v)
	}
	return arr
}
