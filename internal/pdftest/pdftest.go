// Package pdftest builds small, well-formed PDF files for tests.
//
// Pages hold Helvetica text at chosen baselines. Files are serialised
// with core.Writer, so cross-reference offsets are exact.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/internal/filters"
)

// Text is a string shown in Helvetica with its baseline at (X, Y) in
// default user space, origin bottom left.
type Text struct {
	X, Y float64
	Size float64 // 12 when zero
	S    string
}

// Image is an 8-bit DeviceGray image XObject. Pix holds Width*Height
// samples, row by row from the top.
type Image struct {
	Width, Height int
	Pix           []byte
}

// Page describes one page. A zero size means US Letter.
type Page struct {
	Width, Height float64
	Texts         []Text
	Content       string // raw operators appended after the texts
	Rotate        int
	Images        map[string]Image // painted by Content with Do
}

// Lines places one text per baseline, labelled "Line 1", "Line 2" and so on.
func Lines(x float64, ys ...float64) []Text {
	texts := make([]Text, len(ys))
	for i, y := range ys {
		texts[i] = Text{X: x, Y: y, S: fmt.Sprintf("Line %d", i+1)}
	}
	return texts
}

type config struct {
	objectStreams bool
	encrypted     bool
	compress      bool
	version       string
}

// Option changes how a file is built.
type Option func(*config)

// ObjectStreams stores dictionaries in an object stream and writes a
// cross-reference stream instead of a classic table.
func ObjectStreams() Option { return func(c *config) { c.objectStreams = true } }

// Encrypted adds an /Encrypt entry to the trailer.
func Encrypted() Option { return func(c *config) { c.encrypted = true } }

// Uncompressed stores content streams without FlateDecode.
func Uncompressed() Option { return func(c *config) { c.compress = false } }

// Version sets the header version.
func Version(v string) Option { return func(c *config) { c.version = v } }

// Build returns the bytes of a PDF with the given pages.
func Build(pages []Page, opts ...Option) ([]byte, error) {
	cfg := config{compress: true, version: "1.7"}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := core.NewWriter()
	w.SetVersion(cfg.version)

	font := w.Add(core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Helvetica"),
		"Encoding": core.Name("WinAnsiEncoding"),
	})
	root := w.Reserve()

	kids := make(core.Array, 0, len(pages))
	for i, p := range pages {
		content, err := contentStream(p, cfg.compress)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		page := core.Dict{
			"Type":     core.Name("Page"),
			"Parent":   root,
			"Contents": w.Add(content),
		}
		if p.Width != 0 || p.Height != 0 {
			page["MediaBox"] = core.Array{core.Int(0), core.Int(0), core.Real(p.Width), core.Real(p.Height)}
		}
		if p.Rotate != 0 {
			page["Rotate"] = core.Int(p.Rotate)
		}
		if len(p.Images) > 0 {
			xobjects := core.Dict{}
			for name, img := range p.Images {
				xobjects[name] = w.Add(&core.Stream{Dict: core.Dict{
					"Type":             core.Name("XObject"),
					"Subtype":          core.Name("Image"),
					"Width":            core.Int(img.Width),
					"Height":           core.Int(img.Height),
					"ColorSpace":       core.Name("DeviceGray"),
					"BitsPerComponent": core.Int(8),
				}, Data: img.Pix})
			}
			page["Resources"] = core.Dict{
				"Font":    core.Dict{"F1": font},
				"XObject": xobjects,
			}
		}
		kids = append(kids, w.Add(page))
	}

	// resources and the default box are inherited from the root node
	if err := w.Set(root, core.Dict{
		"Type":      core.Name("Pages"),
		"Kids":      kids,
		"Count":     core.Int(len(pages)),
		"MediaBox":  core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)},
		"Resources": core.Dict{"Font": core.Dict{"F1": font}},
	}); err != nil {
		return nil, err
	}
	catalog := w.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": root})
	w.SetRoot(catalog)
	if cfg.encrypted {
		w.SetTrailer("Encrypt", core.Dict{"Filter": core.Name("Standard"), "V": core.Int(1)})
	}

	w.UseObjectStreams(cfg.objectStreams)

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustBuild is Build for tests.
func MustBuild(t testing.TB, pages []Page, opts ...Option) []byte {
	t.Helper()
	data, err := Build(pages, opts...)
	if err != nil {
		t.Fatalf("failed to build test PDF: %v", err)
	}
	return data
}

// WriteFile builds a PDF and writes it to dir/name, returning the path.
func WriteFile(t testing.TB, dir, name string, pages []Page, opts ...Option) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, MustBuild(t, pages, opts...), 0o644); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
	return path
}

func contentStream(p Page, compress bool) (*core.Stream, error) {
	var sb strings.Builder
	for _, t := range p.Texts {
		size := t.Size
		if size == 0 {
			size = 12
		}
		fmt.Fprintf(&sb, "BT /F1 %g Tf 1 0 0 1 %g %g Tm (%s) Tj ET\n", size, t.X, t.Y, escape(t.S))
	}
	sb.WriteString(p.Content)

	data := []byte(sb.String())
	if !compress {
		return &core.Stream{Dict: core.Dict{}, Data: data}, nil
	}
	packed, err := filters.FlateEncode(data)
	if err != nil {
		return nil, err
	}
	return &core.Stream{Dict: core.Dict{"Filter": core.Name("FlateDecode")}, Data: packed}, nil
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
