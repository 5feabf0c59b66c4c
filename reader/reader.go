package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/ocr"
	"github.com/tsawler/pdfsegment/pages"
	"github.com/tsawler/pdfsegment/segment"
	"github.com/tsawler/pdfsegment/text"
)

// ErrEncrypted is returned when the trailer carries an /Encrypt entry.
var ErrEncrypted = errors.New("encrypted PDF files are not supported")

// DefaultMinConfidence is the OCR word confidence (0-100) below which
// words are dropped.
const DefaultMinConfidence = 40

var headerPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger for recoverable damage such as a rebuilt
// cross-reference table or a truncated content stream.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reader) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRecognizer enables OCR for pages that have no text glyphs.
func WithRecognizer(rec ocr.Recognizer) Option {
	return func(r *Reader) {
		r.recognizer = rec
	}
}

// WithMinConfidence sets the lowest OCR word confidence kept (0-100).
func WithMinConfidence(c float64) Option {
	return func(r *Reader) {
		r.minConfidence = c
	}
}

// Reader represents an in-memory PDF file. It is safe for concurrent use;
// pages may be extracted from several goroutines at once.
type Reader struct {
	data          []byte
	version       PDFVersion
	log           logrus.FieldLogger
	recognizer    ocr.Recognizer
	minConfidence float64
	fonts         *text.FontCache

	mu         sync.Mutex // guards the fields below, never held while parsing
	xrefTable  *core.XRefTable
	trailer    core.Dict
	objCache   map[int]core.Object
	objStreams map[int]*core.ObjectStream
	rebuilt    bool

	stmMu sync.Mutex // serialises object stream decoding

	pagesOnce sync.Once
	pageList  []*pages.Page
	pagesErr  error
}

var (
	_ pages.ObjectResolver   = (*Reader)(nil)
	_ core.ReferenceResolver = (*Reader)(nil)
	_ segment.GlyphSource    = (*Reader)(nil)
)

// Open reads a PDF file into memory and returns a Reader
func Open(filename string, opts ...Option) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return NewReader(data, opts...)
}

// NewReader creates a reader over a complete file image.
func NewReader(data []byte, opts ...Option) (*Reader, error) {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Reader{
		data:          data,
		log:           discard,
		minConfidence: DefaultMinConfidence,
		fonts:         text.NewFontCache(),
		objCache:      make(map[int]core.Object),
		objStreams:    make(map[int]*core.ObjectStream),
	}
	for _, opt := range opts {
		opt(r)
	}

	version, err := parseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	r.version = version

	if err := r.loadXRef(); err != nil {
		return nil, fmt.Errorf("failed to load xref: %w", err)
	}
	if r.trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}
	return r, nil
}

// Close releases the file image and cached objects.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objCache = make(map[int]core.Object)
	r.objStreams = make(map[int]*core.ObjectStream)
	return nil
}

// parseHeader finds %PDF-x.y within the first kilobyte, which tolerates
// leading junk.
func parseHeader(data []byte) (PDFVersion, error) {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	m := headerPattern.FindSubmatch(head)
	if m == nil {
		n := len(head)
		if n > 8 {
			n = 8
		}
		return PDFVersion{}, fmt.Errorf("invalid PDF header: %q", head[:n])
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// loadXRef follows the startxref chain, rebuilding the table by scanning
// the file when the chain is unreadable.
func (r *Reader) loadXRef() error {
	xp := core.NewXRefParser(r.data)
	tables, err := xp.ParseAllXRefs()
	if err == nil {
		table := core.MergeXRefTables(tables...)
		if table.Trailer.Has("Root") {
			r.xrefTable = table
			r.trailer = table.Trailer
			return nil
		}
		err = fmt.Errorf("trailer missing /Root entry")
	}

	r.log.WithError(err).Warn("cross-reference table unreadable, rebuilding")
	table, rerr := xp.Rebuild()
	if rerr != nil {
		return fmt.Errorf("%v; rebuild failed: %w", err, rerr)
	}
	r.xrefTable = table
	r.trailer = table.Trailer
	r.rebuilt = true
	return nil
}

// rebuild replaces a table that pointed at the wrong place. It runs at
// most once per reader and keeps the original trailer.
func (r *Reader) rebuild() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rebuilt {
		return false
	}
	r.rebuilt = true

	table, err := core.NewXRefParser(r.data).Rebuild()
	if err != nil {
		r.log.WithError(err).Warn("failed to rebuild cross-reference table")
		return false
	}
	r.log.WithField("objects", table.Size()).Warn("cross-reference table damaged, rebuilt by scanning")
	r.xrefTable = table
	r.objCache = make(map[int]core.Object)
	r.objStreams = make(map[int]*core.ObjectStream)
	return true
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// GetObject loads an object by its number
// Uses caching to avoid re-parsing objects
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	obj, err := r.getObject(objNum)
	if err == nil {
		return obj, nil
	}
	if !r.rebuild() {
		return nil, err
	}
	return r.getObject(objNum)
}

func (r *Reader) getObject(objNum int) (core.Object, error) {
	r.mu.Lock()
	if obj, ok := r.objCache[objNum]; ok {
		r.mu.Unlock()
		return obj, nil
	}
	entry, ok := r.xrefTable.Get(objNum)
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("object %d not found in xref table", objNum)
	}
	if !entry.InUse {
		return nil, fmt.Errorf("object %d is not in use", objNum)
	}

	var obj core.Object
	var err error
	if entry.Compressed() {
		obj, err = r.compressedObject(objNum, entry)
	} else {
		obj, err = r.parseAt(objNum, entry.Offset)
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.objCache[objNum] = obj
	r.mu.Unlock()
	return obj, nil
}

func (r *Reader) parseAt(objNum int, offset int64) (core.Object, error) {
	if offset <= 0 || offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("object %d offset %d out of range", objNum, offset)
	}

	parser := core.NewParserAt(r.data, int(offset))
	parser.SetReferenceResolver(r)
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}
	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}
	return indObj.Object, nil
}

func (r *Reader) compressedObject(objNum int, entry *core.XRefEntry) (core.Object, error) {
	stm, err := r.objectStream(entry.Stream)
	if err != nil {
		return nil, fmt.Errorf("failed to load object stream %d for object %d: %w", entry.Stream, objNum, err)
	}

	r.stmMu.Lock()
	defer r.stmMu.Unlock()
	obj, num, err := stm.GetObjectByIndex(entry.Index)
	if err == nil && num == objNum {
		return obj, nil
	}
	// the index is only a hint; fall back to the stream header
	obj, _, err = stm.GetObjectByNumber(objNum)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %d from stream %d: %w", objNum, entry.Stream, err)
	}
	return obj, nil
}

func (r *Reader) objectStream(num int) (*core.ObjectStream, error) {
	r.mu.Lock()
	stm, ok := r.objStreams[num]
	r.mu.Unlock()
	if ok {
		return stm, nil
	}

	obj, err := r.getObject(num)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object %d is not a stream: %T", num, obj)
	}
	stm, err = core.NewObjectStream(stream)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.objStreams[num] = stm
	r.mu.Unlock()
	return stm, nil
}

// ResolveReference resolves an indirect reference
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve resolves an object if it's an indirect reference, otherwise returns it as-is
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.ResolveReference(ref)
	}
	return obj, nil
}

// GetCatalog returns the document catalog (root object)
func (r *Reader) GetCatalog() (core.Dict, error) {
	ref, ok := r.trailer.Get("Root").(core.IndirectRef)
	if !ok {
		return nil, fmt.Errorf("invalid /Root type: %T", r.trailer.Get("Root"))
	}

	obj, err := r.ResolveReference(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}
	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", obj)
	}
	return catalog, nil
}

// NumObjects returns the /Size of the trailer
func (r *Reader) NumObjects() int {
	size, _ := r.trailer.GetInt("Size")
	return int(size)
}

// FileSize returns the size of the PDF file in bytes
func (r *Reader) FileSize() int64 {
	return int64(len(r.data))
}

func (r *Reader) loadPages() ([]*pages.Page, error) {
	r.pagesOnce.Do(func() {
		catalog, err := r.GetCatalog()
		if err != nil {
			r.pagesErr = fmt.Errorf("failed to get catalog: %w", err)
			return
		}
		tree, err := pages.NewCatalog(catalog, r).PageTree()
		if err != nil {
			r.pagesErr = err
			return
		}
		r.pageList, r.pagesErr = tree.Pages()
	})
	return r.pageList, r.pagesErr
}

// PageCount returns the number of pages in the PDF
func (r *Reader) PageCount() (int, error) {
	list, err := r.loadPages()
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Page returns the page at the given index (0-based)
func (r *Reader) Page(index int) (*pages.Page, error) {
	list, err := r.loadPages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(list))
	}
	return list[index], nil
}

// PageHeight returns the media box height of a page.
func (r *Reader) PageHeight(index int) (float64, error) {
	page, err := r.Page(index)
	if err != nil {
		return 0, err
	}
	return page.Height(), nil
}

// Glyphs returns the positioned characters of a page in content stream
// order, Y measured down from the top of the media box. Pages without
// text are recognised with OCR when a recognizer is configured.
func (r *Reader) Glyphs(index int) ([]segment.Glyph, error) {
	page, err := r.Page(index)
	if err != nil {
		return nil, err
	}
	log := r.log.WithField("page", index+1)

	ex := text.NewGlyphExtractor(r.ResolveReference, text.WithLogger(log), text.WithFontCache(r.fonts))
	glyphs, err := ex.ExtractPage(page)
	if err != nil {
		if !errors.Is(err, text.ErrTruncated) {
			return nil, fmt.Errorf("failed to extract page %d: %w", index+1, err)
		}
		log.WithError(err).Warn("content stream damaged, keeping glyphs read so far")
	}

	if len(glyphs) == 0 && r.recognizer != nil {
		glyphs = r.recognize(page, ex.Images(), log)
	}

	out := make([]segment.Glyph, len(glyphs))
	for i, g := range glyphs {
		out[i] = segment.Glyph{X: g.X, Y: g.Y, Char: g.Text}
	}
	return out, nil
}
