package font

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdfsegment/core"
)

// Type0Font represents a composite font. Character codes are one to four
// bytes wide and select CIDs in the descendant CIDFont.
type Type0Font struct {
	*Font

	DescendantFont *CIDFont
}

// CIDFont is the descendant of a Type0 font and carries the glyph metrics.
type CIDFont struct {
	Subtype       string
	BaseFont      string
	CIDSystemInfo CIDSystemInfo
	DW            float64
	W             map[int]float64
}

// CIDSystemInfo identifies the character collection of a CIDFont.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// NewType0Font creates a Type0 font from a PDF font dictionary
func NewType0Font(fontDict core.Dict, resolver Resolver) (*Type0Font, error) {
	subtype, _ := fontDict.GetName("Subtype")
	if subtype != "Type0" {
		return nil, fmt.Errorf("not a Type0 font: %s", subtype)
	}

	baseFont, _ := fontDict.GetName("BaseFont")
	f := &Font{
		BaseFont:     string(baseFont),
		Subtype:      string(subtype),
		composite:    true,
		widths:       make(map[uint32]float64),
		defaultWidth: 1000,
		widthScale:   0.001,
	}
	if name, ok := fontDict.GetName("Name"); ok {
		f.Name = string(name)
	}

	switch enc := resolve(fontDict.Get("Encoding"), resolver).(type) {
	case core.Name:
		f.Encoding = string(enc)
		f.vertical = strings.HasSuffix(f.Encoding, "-V")
		f.ucs2 = strings.Contains(f.Encoding, "UCS2") || strings.Contains(f.Encoding, "UTF16")
	case *core.Stream:
		data, err := enc.Decoded()
		if err != nil {
			return nil, fmt.Errorf("failed to decode encoding cmap: %w", err)
		}
		cm, err := ParseCMap(data)
		if err != nil {
			return nil, err
		}
		f.codeCMap = cm
		f.Encoding = cm.Name
		f.vertical = cm.WMode == 1
	default:
		f.Encoding = "Identity-H"
	}

	t0 := &Type0Font{Font: f}

	descendants, ok := resolveArray(fontDict.Get("DescendantFonts"), resolver)
	if !ok || len(descendants) == 0 {
		return nil, fmt.Errorf("Type0 font %s has no descendant font", f.BaseFont)
	}
	cidDict, ok := resolveDict(descendants[0], resolver)
	if !ok {
		return nil, fmt.Errorf("Type0 font %s: descendant is not a dictionary", f.BaseFont)
	}
	cid, err := NewCIDFont(cidDict, resolver)
	if err != nil {
		return nil, err
	}
	t0.DescendantFont = cid

	f.Descriptor = parseFontDescriptor(cidDict.Get("FontDescriptor"), resolver)
	f.defaultWidth = cid.DW
	for c, w := range cid.W {
		f.widths[uint32(c)] = w
	}
	f.loadToUnicode(fontDict, resolver)
	return t0, nil
}

// NewCIDFont creates a CIDFontType0 or CIDFontType2 from its dictionary.
func NewCIDFont(fontDict core.Dict, resolver Resolver) (*CIDFont, error) {
	subtype, _ := fontDict.GetName("Subtype")
	if subtype != "CIDFontType0" && subtype != "CIDFontType2" {
		return nil, fmt.Errorf("not a CIDFont: %s", subtype)
	}
	baseFont, _ := fontDict.GetName("BaseFont")

	cid := &CIDFont{
		Subtype:  string(subtype),
		BaseFont: string(baseFont),
		DW:       1000,
		W:        make(map[int]float64),
	}
	if fontDict.Has("DW") {
		cid.DW = resolveNumber(fontDict.Get("DW"), resolver)
	}

	if info, ok := resolveDict(fontDict.Get("CIDSystemInfo"), resolver); ok {
		if s, ok := resolve(info.Get("Registry"), resolver).(core.String); ok {
			cid.CIDSystemInfo.Registry = string(s)
		}
		if s, ok := resolve(info.Get("Ordering"), resolver).(core.String); ok {
			cid.CIDSystemInfo.Ordering = string(s)
		}
		cid.CIDSystemInfo.Supplement = int(resolveNumber(info.Get("Supplement"), resolver))
	}

	if w, ok := resolveArray(fontDict.Get("W"), resolver); ok {
		cid.parseW(w, resolver)
	}
	return cid, nil
}

// parseW reads a /W array, which mixes two forms:
//
//	c [w1 w2 ...]   consecutive CIDs starting at c
//	cfirst clast w  one width for a whole range
func (cid *CIDFont) parseW(w core.Array, resolver Resolver) {
	for i := 0; i < len(w); {
		first, ok := core.Number(resolve(w[i], resolver))
		if !ok || i+1 >= len(w) {
			return
		}
		if arr, ok := resolveArray(w[i+1], resolver); ok {
			for j, v := range arr {
				cid.W[int(first)+j] = resolveNumber(v, resolver)
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			return
		}
		last, ok1 := core.Number(resolve(w[i+1], resolver))
		width, ok2 := core.Number(resolve(w[i+2], resolver))
		if !ok1 || !ok2 {
			return
		}
		// guard against absurd ranges in damaged files
		if last-first > 65535 {
			last = first + 65535
		}
		for c := int(first); c <= int(last); c++ {
			cid.W[c] = width
		}
		i += 3
	}
}

// WidthForCID returns the width of a CID in thousandths of an em.
func (cid *CIDFont) WidthForCID(c int) float64 {
	if w, ok := cid.W[c]; ok {
		return w
	}
	return cid.DW
}

// IsCJK reports whether the character collection is one of the Adobe
// Chinese, Japanese or Korean orderings.
func (cid *CIDFont) IsCJK() bool {
	switch cid.CIDSystemInfo.Ordering {
	case "Japan1", "GB1", "CNS1", "Korea1":
		return true
	}
	return false
}
