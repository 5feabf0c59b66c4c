package assemble

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfsegment/core"
	"github.com/tsawler/pdfsegment/pages"
	"github.com/tsawler/pdfsegment/resolver"
)

// inheritable are the page attributes a page may take from its ancestors.
var inheritable = []string{"Resources", "MediaBox", "CropBox", "Rotate"}

// PageSource is a parsed document the native backend copies from.
// reader.Reader implements it.
type PageSource interface {
	resolver.ObjectReader
	PageCount() (int, error)
	Page(index int) (*pages.Page, error)
}

// Native copies pages into a fresh file through core.Writer. Every object
// reachable from a copied page is copied once and renumbered.
type Native struct {
	src PageSource
	log logrus.FieldLogger
}

var _ Assembler = (*Native)(nil)

// NewNative creates the native backend.
func NewNative(src PageSource, opts ...Option) *Native {
	o := newOptions(opts)
	return &Native{src: src, log: o.log}
}

// WritePages implements Assembler.
func (n *Native) WritePages(startPage, endPage int, outputPath string) error {
	count, err := n.src.PageCount()
	if err != nil {
		return fmt.Errorf("failed to count pages: %w", err)
	}
	start, end, ok := Clamp(startPage, endPage, count)
	if !ok {
		n.log.WithField("output", outputPath).Debug("empty page range, writing blank page")
		return WriteBlank(outputPath)
	}

	w := core.NewWriter()
	copier := resolver.NewCopier(n.src, w)
	root := w.Reserve()

	// pages are numbered before copying so links between kept pages
	// survive, while references to other pages become null
	kept := make([]*pages.Page, 0, end-start+1)
	kids := make(core.Array, 0, end-start+1)
	for i := 0; i < count; i++ {
		page, err := n.src.Page(i)
		if err != nil {
			return fmt.Errorf("failed to get page %d: %w", i+1, err)
		}
		inRange := i >= start && i <= end
		if inRange {
			dst := w.Reserve()
			kept = append(kept, page)
			kids = append(kids, dst)
			if page.Ref().Number > 0 {
				copier.Assign(page.Ref(), dst)
			}
		} else if page.Ref().Number > 0 {
			copier.Drop(page.Ref())
		}
	}

	for i, page := range kept {
		dict := page.Dict().Clone()
		delete(dict, "Parent")
		for _, key := range inheritable {
			if !dict.Has(key) {
				if v := page.Inherited(key); v != nil {
					dict[key] = v
				}
			}
		}

		copied, err := copier.Copy(dict)
		if err != nil {
			return fmt.Errorf("failed to copy page %d: %w", start+i+1, err)
		}
		out := copied.(core.Dict)
		out["Parent"] = root
		if err := w.Set(kids[i].(core.IndirectRef), out); err != nil {
			return err
		}
	}

	if err := w.Set(root, core.Dict{
		"Type":  core.Name("Pages"),
		"Kids":  kids,
		"Count": core.Int(len(kids)),
	}); err != nil {
		return err
	}
	w.SetRoot(w.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": root}))

	if err := writeFile(w, outputPath); err != nil {
		return err
	}
	n.log.WithFields(logrus.Fields{
		"output":  outputPath,
		"pages":   len(kids),
		"objects": w.Len(),
	}).Debug("wrote page range")
	return nil
}
