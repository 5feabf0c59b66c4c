package pages

import (
	"bytes"
	"fmt"

	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/model"
	"github.com/tsawler/pdfsegment/resolver"
)

// ObjectResolver loads indirect objects for the page tree.
type ObjectResolver = resolver.ObjectReader

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict core.Dict, r ObjectResolver) *Catalog {
	return &Catalog{dict: dict, resolver: r}
}

// Type returns the catalog type (should be "Catalog")
func (c *Catalog) Type() string {
	name, _ := c.dict.GetName("Type")
	return string(name)
}

// Version returns the /Version override, if any.
func (c *Catalog) Version() string {
	name, _ := c.dict.GetName("Version")
	return string(name)
}

// PageTree returns the page tree rooted at /Pages.
func (c *Catalog) PageTree() (*PageTree, error) {
	pagesObj := c.dict.Get("Pages")
	if pagesObj == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}
	rootRef, _ := pagesObj.(core.IndirectRef)

	resolved, err := resolver.Resolve(c.resolver, pagesObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Pages: %w", err)
	}
	root, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages type: %T", resolved)
	}
	t := NewPageTree(root, c.resolver)
	t.rootRef = rootRef
	return t, nil
}

// PageTree represents the PDF page tree
type PageTree struct {
	root     core.Dict
	rootRef  core.IndirectRef
	resolver ObjectResolver
	pages    []*Page
}

// NewPageTree creates a new page tree from the root pages dictionary
func NewPageTree(root core.Dict, r ObjectResolver) *PageTree {
	return &PageTree{root: root, resolver: r}
}

// Count returns the /Count of the root node. It can disagree with the
// number of leaves in damaged files; Pages is authoritative.
func (t *PageTree) Count() (int, error) {
	count, ok := t.root.GetInt("Count")
	if !ok {
		return 0, fmt.Errorf("page tree missing /Count entry")
	}
	return int(count), nil
}

// GetPage returns the page at the given index (0-based)
func (t *PageTree) GetPage(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(pages))
	}
	return pages[index], nil
}

// Pages returns all leaf pages in document order.
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages != nil {
		return t.pages, nil
	}
	var pages []*Page
	visited := make(map[core.IndirectRef]bool)
	if t.rootRef.Number > 0 {
		visited[t.rootRef] = true
	}
	if err := t.walk(t.root, t.rootRef, nil, visited, &pages); err != nil {
		return nil, fmt.Errorf("failed to traverse page tree: %w", err)
	}
	t.pages = pages
	return pages, nil
}

// walk visits a node. ancestors holds the Pages nodes above it, nearest
// first. Nodes without /Type are classified by the presence of /Kids.
func (t *PageTree) walk(node core.Dict, ref core.IndirectRef, ancestors []core.Dict, visited map[core.IndirectRef]bool, out *[]*Page) error {
	typeName, _ := node.GetName("Type")
	isPages := typeName == "Pages" || (typeName == "" && node.Has("Kids"))

	if !isPages {
		if typeName != "" && typeName != "Page" {
			return fmt.Errorf("unexpected page node type: %s", typeName)
		}
		*out = append(*out, &Page{
			dict:      node,
			ref:       ref,
			index:     len(*out),
			ancestors: ancestors,
			resolver:  t.resolver,
		})
		return nil
	}

	kidsObj, err := resolver.Resolve(t.resolver, node.Get("Kids"))
	if err != nil {
		return fmt.Errorf("failed to resolve /Kids: %w", err)
	}
	kids, ok := kidsObj.(core.Array)
	if !ok {
		return fmt.Errorf("invalid /Kids type: %T", kidsObj)
	}

	chain := make([]core.Dict, 0, len(ancestors)+1)
	chain = append(chain, node)
	chain = append(chain, ancestors...)

	for i, kid := range kids {
		kidRef, isRef := kid.(core.IndirectRef)
		if isRef {
			if visited[kidRef] {
				return fmt.Errorf("page tree cycle at object %d", kidRef.Number)
			}
			visited[kidRef] = true
		}
		resolved, err := resolver.Resolve(t.resolver, kid)
		if err != nil {
			return fmt.Errorf("failed to resolve kid %d: %w", i, err)
		}
		kidDict, ok := resolved.(core.Dict)
		if !ok {
			return fmt.Errorf("invalid kid type: %T", resolved)
		}
		if err := t.walk(kidDict, kidRef, chain, visited, out); err != nil {
			return err
		}
	}
	return nil
}

// Page represents a single PDF page
type Page struct {
	dict      core.Dict
	ref       core.IndirectRef
	index     int
	ancestors []core.Dict
	resolver  ObjectResolver
}

// Dict returns the page dictionary as stored in the file.
func (p *Page) Dict() core.Dict {
	return p.dict
}

// Ref returns the page object's reference. It is the zero value when the
// page dictionary was stored directly inside /Kids.
func (p *Page) Ref() core.IndirectRef {
	return p.ref
}

// Index returns the zero-based position of the page in the document.
func (p *Page) Index() int {
	return p.index
}

// Inherited looks a key up on the page and then on each ancestor Pages
// node, nearest first. The value is returned unresolved.
func (p *Page) Inherited(key string) core.Object {
	if v := p.dict.Get(key); v != nil {
		return v
	}
	for _, node := range p.ancestors {
		if v := node.Get(key); v != nil {
			return v
		}
	}
	return nil
}

// MediaBox returns the page media box, defaulting to US Letter when it is
// missing or malformed.
func (p *Page) MediaBox() model.Rect {
	if box, ok := p.box("MediaBox"); ok {
		return box
	}
	return model.Letter
}

// CropBox returns the page crop box, defaulting to the media box.
func (p *Page) CropBox() model.Rect {
	if box, ok := p.box("CropBox"); ok {
		return box
	}
	return p.MediaBox()
}

func (p *Page) box(name string) (model.Rect, bool) {
	obj, err := resolver.Resolve(p.resolver, p.Inherited(name))
	if err != nil {
		return model.Rect{}, false
	}
	arr, ok := obj.(core.Array)
	if !ok {
		return model.Rect{}, false
	}
	values, ok := arr.Floats()
	if !ok {
		return model.Rect{}, false
	}
	r, ok := model.RectFromSlice(values)
	if !ok || r.IsEmpty() {
		return model.Rect{}, false
	}
	return r, true
}

// Height returns the media box height
func (p *Page) Height() float64 {
	return p.MediaBox().Height()
}

// Width returns the media box width
func (p *Page) Width() float64 {
	return p.MediaBox().Width()
}

// Rotate returns the page rotation normalized to 0, 90, 180 or 270.
func (p *Page) Rotate() int {
	obj, err := resolver.Resolve(p.resolver, p.Inherited("Rotate"))
	if err != nil {
		return 0
	}
	v, ok := core.Number(obj)
	if !ok {
		return 0
	}
	r := int(v) % 360
	if r < 0 {
		r += 360
	}
	return r / 90 * 90
}

// Resources returns the page resources dictionary. A page without
// resources gets an empty dictionary.
func (p *Page) Resources() (core.Dict, error) {
	obj := p.Inherited("Resources")
	if obj == nil {
		return core.Dict{}, nil
	}
	resolved, err := resolver.Resolve(p.resolver, obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}
	switch v := resolved.(type) {
	case core.Dict:
		return v, nil
	case core.Null:
		return core.Dict{}, nil
	}
	return nil, fmt.Errorf("invalid Resources type: %T", resolved)
}

// Contents returns the page's content streams in order.
func (p *Page) Contents() ([]*core.Stream, error) {
	obj := p.dict.Get("Contents")
	if obj == nil {
		return nil, nil
	}
	resolved, err := resolver.Resolve(p.resolver, obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	switch v := resolved.(type) {
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		streams := make([]*core.Stream, 0, len(v))
		for i, elem := range v {
			s, err := resolver.Resolve(p.resolver, elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
			}
			if stream, ok := s.(*core.Stream); ok {
				streams = append(streams, stream)
			}
		}
		return streams, nil
	case core.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("invalid Contents type: %T", resolved)
}

// ContentData decodes and concatenates the content streams. Streams are
// joined with a newline since an operator may not span two of them.
// Streams that fail to decode are skipped and reported in the error.
func (p *Page) ContentData() ([]byte, error) {
	streams, err := p.Contents()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	var firstErr error
	for i, s := range streams {
		data, err := s.Decoded()
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("content stream %d: %w", i, err)
			}
			continue
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), firstErr
}
