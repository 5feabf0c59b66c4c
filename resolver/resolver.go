package resolver

import (
	"fmt"

	"github.com/tsawler/pdfsegment/core"
)

// ObjectReader loads indirect objects from a source document.
type ObjectReader interface {
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// maxChain bounds how many references Resolve follows in a row.
const maxChain = 32

// Resolve follows indirect references until it reaches a direct object.
func Resolve(r ObjectReader, obj core.Object) (core.Object, error) {
	for i := 0; i < maxChain; i++ {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		next, err := r.ResolveReference(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %d %d R: %w", ref.Number, ref.Generation, err)
		}
		obj = next
	}
	return nil, fmt.Errorf("reference chain longer than %d", maxChain)
}

// Copier copies object graphs from a source document into a core.Writer.
// Every source reference reached is given a fresh number in the writer, so
// shared objects are copied once and reference cycles terminate.
type Copier struct {
	reader   ObjectReader
	writer   *core.Writer
	mapped   map[core.IndirectRef]core.IndirectRef
	dropped  map[core.IndirectRef]bool
	pending  []core.IndirectRef
	maxDepth int
}

// Option configures the copier
type Option func(*Copier)

// WithMaxDepth sets the maximum nesting depth of direct objects (default: 100)
func WithMaxDepth(depth int) Option {
	return func(c *Copier) {
		c.maxDepth = depth
	}
}

// NewCopier creates a copier reading from reader and writing into writer.
func NewCopier(reader ObjectReader, writer *core.Writer, opts ...Option) *Copier {
	c := &Copier{
		reader:   reader,
		writer:   writer,
		mapped:   make(map[core.IndirectRef]core.IndirectRef),
		dropped:  make(map[core.IndirectRef]bool),
		maxDepth: 100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Drop makes every reference to src copy as null. Used for pages that are
// not part of the output.
func (c *Copier) Drop(src core.IndirectRef) {
	c.dropped[src] = true
}

// Assign maps src to an object number the caller has already allocated.
// The caller is responsible for filling that number in.
func (c *Copier) Assign(src, dst core.IndirectRef) {
	c.mapped[src] = dst
}

// Mapped returns the writer reference assigned to src, if any.
func (c *Copier) Mapped(src core.IndirectRef) (core.IndirectRef, bool) {
	dst, ok := c.mapped[src]
	return dst, ok
}

// Copy returns obj with all references rewritten into the writer's
// numbering, then copies every newly referenced object.
func (c *Copier) Copy(obj core.Object) (core.Object, error) {
	out, err := c.copyDirect(obj, 0)
	if err != nil {
		return nil, err
	}
	if err := c.drain(); err != nil {
		return nil, err
	}
	return out, nil
}

// drain copies queued source objects until none remain.
func (c *Copier) drain() error {
	for len(c.pending) > 0 {
		src := c.pending[0]
		c.pending = c.pending[1:]

		obj, err := c.reader.ResolveReference(src)
		if err != nil {
			// a dangling reference reads as null
			obj = core.Null{}
		}
		copied, err := c.copyDirect(obj, 0)
		if err != nil {
			return fmt.Errorf("object %d: %w", src.Number, err)
		}
		if err := c.writer.Set(c.mapped[src], copied); err != nil {
			return err
		}
	}
	return nil
}

func (c *Copier) copyDirect(obj core.Object, depth int) (core.Object, error) {
	if depth >= c.maxDepth {
		return nil, fmt.Errorf("maximum nesting depth (%d) exceeded", c.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if c.dropped[v] {
			return core.Null{}, nil
		}
		if dst, ok := c.mapped[v]; ok {
			return dst, nil
		}
		dst := c.writer.Reserve()
		c.mapped[v] = dst
		c.pending = append(c.pending, v)
		return dst, nil

	case core.Dict:
		out := make(core.Dict, len(v))
		for key, value := range v {
			copied, err := c.copyDirect(value, depth+1)
			if err != nil {
				return nil, err
			}
			out[key] = copied
		}
		return out, nil

	case core.Array:
		out := make(core.Array, len(v))
		for i, elem := range v {
			copied, err := c.copyDirect(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = copied
		}
		return out, nil

	case *core.Stream:
		dict, err := c.copyDirect(v.Dict, depth+1)
		if err != nil {
			return nil, err
		}
		return &core.Stream{Dict: dict.(core.Dict), Data: v.Data}, nil

	case nil:
		return core.Null{}, nil

	default:
		return obj, nil
	}
}
