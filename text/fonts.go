package text

import (
	"sync"

	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/font"
)

// FontCache holds fonts loaded from indirect font dictionaries. It is safe
// for concurrent use, so pages extracted in parallel share one cache.
type FontCache struct {
	mu    sync.Mutex
	fonts map[core.IndirectRef]*font.Font
}

// NewFontCache creates an empty cache.
func NewFontCache() *FontCache {
	return &FontCache{fonts: make(map[core.IndirectRef]*font.Font)}
}

// Len returns the number of cached fonts.
func (c *FontCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.fonts)
}

func (c *FontCache) get(ref core.IndirectRef) (*font.Font, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.fonts[ref]
	return f, ok
}

func (c *FontCache) put(ref core.IndirectRef, f *font.Font) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fonts[ref] = f
}

// scope is one resource dictionary with the fonts resolved from it.
type scope struct {
	resources core.Dict
	fonts     map[string]*font.Font
}

func newScope(resources core.Dict) *scope {
	if resources == nil {
		resources = core.Dict{}
	}
	return &scope{resources: resources, fonts: make(map[string]*font.Font)}
}

// font returns the font selected by Tf. Missing or broken fonts fall back
// to Helvetica metrics so that positions stay plausible.
func (e *GlyphExtractor) font(sc *scope, name string) *font.Font {
	if f, ok := sc.fonts[name]; ok {
		return f
	}

	f := e.loadFont(sc, name)
	if f == nil {
		f = font.NewFont(name, "Helvetica", "Type1")
	}
	sc.fonts[name] = f
	return f
}

func (e *GlyphExtractor) loadFont(sc *scope, name string) *font.Font {
	fonts, ok := e.dict(sc.resources.Get("Font"))
	if !ok {
		e.log.WithField("font", name).Warn("no font resources, using Helvetica")
		return nil
	}

	obj := fonts.Get(name)
	ref, isRef := obj.(core.IndirectRef)
	if isRef {
		if f, ok := e.cache.get(ref); ok {
			return f
		}
	}

	dict, ok := e.dict(obj)
	if !ok {
		e.log.WithField("font", name).Warn("font not found, using Helvetica")
		return nil
	}

	f, err := font.Load(dict, e.resolve)
	if err != nil {
		e.log.WithError(err).WithField("font", name).Warn("failed to load font, using Helvetica")
		return nil
	}
	if isRef {
		e.cache.put(ref, f)
	}
	return f
}
