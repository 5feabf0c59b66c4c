package text

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfsegment/contentstream"
	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/font"
	"github.com/tsawler/pdfsegment/graphicsstate"
	"github.com/tsawler/pdfsegment/model"
	"github.com/tsawler/pdfsegment/pages"
)

// maxFormDepth bounds nested Form XObject execution.
const maxFormDepth = 16

// ErrTruncated reports a content stream that could not be parsed to its
// end. The glyphs shown before the damage are still returned.
var ErrTruncated = errors.New("content stream truncated")

// Glyph is a single decoded character positioned on the page. X is in
// default user space; Y grows downward from the top of the page box.
// Text in rendering mode 3 is kept: it is usually an OCR text layer.
type Glyph struct {
	Text string
	X, Y float64
}

// Image is an image XObject painted on the page. Rect is the unit square
// mapped through the CTM, in default user space.
type Image struct {
	Name   string
	Stream *core.Stream
	Rect   model.Rect
}

// Option configures a GlyphExtractor.
type Option func(*GlyphExtractor)

// WithLogger sets the logger used for recoverable content problems.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *GlyphExtractor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithFontCache shares loaded fonts between extractors.
func WithFontCache(c *FontCache) Option {
	return func(e *GlyphExtractor) {
		if c != nil {
			e.cache = c
		}
	}
}

// GlyphExtractor walks a page's content stream and reports every shown
// glyph in content stream order.
type GlyphExtractor struct {
	resolve font.Resolver
	log     logrus.FieldLogger
	cache   *FontCache

	gs     *graphicsstate.GraphicsState
	box    model.Rect
	glyphs []Glyph
	images []Image
	active map[core.IndirectRef]bool
	depth  int
}

// NewGlyphExtractor creates an extractor that resolves indirect objects
// with resolve.
func NewGlyphExtractor(resolve font.Resolver, opts ...Option) *GlyphExtractor {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &GlyphExtractor{
		resolve: resolve,
		log:     discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewFontCache()
	}
	return e
}

// ExtractPage extracts the glyphs of a page. A damaged content stream
// yields the glyphs shown before the damage together with an error.
func (e *GlyphExtractor) ExtractPage(page *pages.Page) ([]Glyph, error) {
	resources, err := page.Resources()
	if err != nil {
		return nil, fmt.Errorf("failed to get page resources: %w", err)
	}

	data, err := page.ContentData()
	if err != nil {
		if len(data) == 0 {
			return nil, fmt.Errorf("failed to get page content: %w", err)
		}
		e.log.WithError(err).WithField("page", page.Index()).Warn("skipping unreadable content stream")
	}

	return e.Extract(data, resources, page.MediaBox())
}

// Extract runs a content stream against resources. box supplies the top
// edge used to flip Y.
func (e *GlyphExtractor) Extract(content []byte, resources core.Dict, box model.Rect) ([]Glyph, error) {
	e.gs = graphicsstate.NewGraphicsState()
	e.box = box
	e.glyphs = nil
	e.images = nil
	e.active = make(map[core.IndirectRef]bool)
	e.depth = 0

	err := e.run(content, newScope(resources))
	return e.glyphs, err
}

// Images returns the image XObjects painted by the last extraction.
func (e *GlyphExtractor) Images() []Image {
	return e.images
}

func (e *GlyphExtractor) run(content []byte, sc *scope) error {
	ops, err := contentstream.NewParser(content).Parse()
	for _, op := range ops {
		e.apply(op, sc)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return nil
}

func (e *GlyphExtractor) apply(op contentstream.Operation, sc *scope) {
	gs := e.gs
	args := op.Operands

	switch op.Operator {
	case "q":
		gs.Save()
	case "Q":
		// unbalanced Q is common in the wild
		_ = gs.Restore()
	case "cm":
		if m, ok := matrixOperand(args); ok {
			gs.Transform(m)
		}

	case "BT":
		gs.BeginText()
	case "Tf":
		if len(args) == 2 {
			name, _ := args[0].(core.Name)
			size, _ := core.Number(args[1])
			gs.SetFont(string(name), size)
		}
	case "Tc":
		if v, ok := numberOperand(args, 0); ok {
			gs.SetCharSpacing(v)
		}
	case "Tw":
		if v, ok := numberOperand(args, 0); ok {
			gs.SetWordSpacing(v)
		}
	case "Tz":
		if v, ok := numberOperand(args, 0); ok {
			gs.SetHorizontalScaling(v)
		}
	case "TL":
		if v, ok := numberOperand(args, 0); ok {
			gs.SetLeading(v)
		}
	case "Ts":
		if v, ok := numberOperand(args, 0); ok {
			gs.SetTextRise(v)
		}

	case "Tm":
		if m, ok := matrixOperand(args); ok {
			gs.SetTextMatrix(m)
		}
	case "Td", "TD":
		tx, ok1 := numberOperand(args, 0)
		ty, ok2 := numberOperand(args, 1)
		if ok1 && ok2 {
			if op.Operator == "TD" {
				gs.TranslateTextSetLeading(tx, ty)
			} else {
				gs.TranslateText(tx, ty)
			}
		}
	case "T*":
		gs.NextLine()

	case "Tj":
		if len(args) == 1 {
			e.show(args[0], sc)
		}
	case "TJ":
		if len(args) == 1 {
			if arr, ok := args[0].(core.Array); ok {
				e.showArray(arr, sc)
			}
		}
	case "'":
		gs.NextLine()
		if len(args) == 1 {
			e.show(args[0], sc)
		}
	case "\"":
		if len(args) == 3 {
			if aw, ok := core.Number(args[0]); ok {
				gs.SetWordSpacing(aw)
			}
			if ac, ok := core.Number(args[1]); ok {
				gs.SetCharSpacing(ac)
			}
			gs.NextLine()
			e.show(args[2], sc)
		}

	case "Do":
		if len(args) == 1 {
			if name, ok := args[0].(core.Name); ok {
				e.paintXObject(string(name), sc)
			}
		}
	}
}

// show emits one glyph per character code and advances the text matrix.
func (e *GlyphExtractor) show(operand core.Object, sc *scope) {
	s, ok := operand.(core.String)
	if !ok {
		return
	}

	gs := e.gs
	f := e.font(sc, gs.Text.FontName)

	for _, g := range f.Decode([]byte(s)) {
		if g.Text != "" {
			origin := gs.GlyphOrigin()
			e.glyphs = append(e.glyphs, Glyph{
				Text: g.Text,
				X:    origin.X,
				Y:    e.box.FlipY(origin.Y),
			})
		}
		if f.IsVertical() {
			gs.AdvanceVertical(-1, g.WordSpace)
		} else {
			gs.AdvanceGlyph(g.Width, g.WordSpace)
		}
	}
}

func (e *GlyphExtractor) showArray(arr core.Array, sc *scope) {
	vertical := e.font(sc, e.gs.Text.FontName).IsVertical()
	for _, item := range arr {
		if n, ok := core.Number(item); ok {
			if vertical {
				e.gs.KernVertical(n)
			} else {
				e.gs.Kern(n)
			}
			continue
		}
		e.show(item, sc)
	}
}

// paintXObject records image placements and executes form XObjects.
func (e *GlyphExtractor) paintXObject(name string, sc *scope) {
	xobjects, ok := e.dict(sc.resources.Get("XObject"))
	if !ok {
		return
	}
	obj := xobjects.Get(name)
	ref, isRef := obj.(core.IndirectRef)

	stream, ok := e.deref(obj).(*core.Stream)
	if !ok {
		return
	}

	subtype, _ := stream.Dict.GetName("Subtype")
	switch subtype {
	case "Image":
		e.images = append(e.images, Image{
			Name:   name,
			Stream: stream,
			Rect:   e.gs.CTM.TransformRect(),
		})
	case "Form":
		if e.depth >= maxFormDepth {
			e.log.WithField("xobject", name).Warn("form nesting too deep")
			return
		}
		if isRef {
			if e.active[ref] {
				e.log.WithField("xobject", name).Warn("form references itself")
				return
			}
			e.active[ref] = true
			defer delete(e.active, ref)
		}
		e.runForm(name, stream, sc)
	}
}

func (e *GlyphExtractor) runForm(name string, stream *core.Stream, sc *scope) {
	data, err := stream.Decoded()
	if err != nil {
		e.log.WithError(err).WithField("xobject", name).Warn("failed to decode form")
		return
	}

	formScope := sc
	if res, ok := e.dict(stream.Dict.Get("Resources")); ok {
		formScope = newScope(res)
	}

	e.gs.Save()
	if arr, ok := e.deref(stream.Dict.Get("Matrix")).(core.Array); ok {
		if m, ok := arrayMatrix(arr); ok {
			e.gs.Transform(m)
		}
	}

	e.depth++
	if err := e.run(data, formScope); err != nil {
		e.log.WithError(err).WithField("xobject", name).Warn("form content truncated")
	}
	e.depth--
	_ = e.gs.Restore()
}

func (e *GlyphExtractor) deref(obj core.Object) core.Object {
	for i := 0; i < 32; i++ {
		ref, ok := obj.(core.IndirectRef)
		if !ok || e.resolve == nil {
			break
		}
		next, err := e.resolve(ref)
		if err != nil {
			return nil
		}
		obj = next
	}
	return obj
}

func (e *GlyphExtractor) dict(obj core.Object) (core.Dict, bool) {
	d, ok := e.deref(obj).(core.Dict)
	return d, ok
}

func numberOperand(args []core.Object, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	return core.Number(args[i])
}

func matrixOperand(args []core.Object) (model.Matrix, bool) {
	return arrayMatrix(core.Array(args))
}

func arrayMatrix(arr core.Array) (model.Matrix, bool) {
	vals, ok := arr.Floats()
	if !ok {
		return model.Matrix{}, false
	}
	return model.MatrixFromSlice(vals)
}
