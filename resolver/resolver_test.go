package resolver

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/tsawler/pdfsegment/core"
)

// mockReader serves objects from a map
type mockReader struct {
	objects map[int]core.Object
	loads   map[int]int
}

func newMockReader(objects map[int]core.Object) *mockReader {
	return &mockReader{objects: objects, loads: make(map[int]int)}
}

func (m *mockReader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	m.loads[ref.Number]++
	obj, ok := m.objects[ref.Number]
	if !ok {
		return nil, fmt.Errorf("object %d not found", ref.Number)
	}
	return obj, nil
}

func ref(n int) core.IndirectRef {
	return core.IndirectRef{Number: n}
}

func TestResolve(t *testing.T) {
	reader := newMockReader(map[int]core.Object{
		1: ref(2),
		2: core.Int(42),
	})

	tests := []struct {
		name    string
		input   core.Object
		want    core.Object
		wantErr bool
	}{
		{"direct", core.Name("X"), core.Name("X"), false},
		{"chain", ref(1), core.Int(42), false},
		{"missing", ref(9), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(reader, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestResolveSelfReference(t *testing.T) {
	reader := newMockReader(map[int]core.Object{1: ref(1)})
	if _, err := Resolve(reader, ref(1)); err == nil {
		t.Error("expected error for self-referencing chain")
	}
}

func TestCopierRenumbersAndSharesObjects(t *testing.T) {
	reader := newMockReader(map[int]core.Object{
		10: core.Dict{"Font": ref(20), "Also": ref(20)},
		20: core.Dict{"Type": core.Name("Font"), "Widths": ref(30)},
		30: core.Array{core.Int(500), core.Int(600)},
	})
	w := core.NewWriter()
	c := NewCopier(reader, w)

	out, err := c.Copy(core.Dict{"Resources": ref(10)})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	if w.Len() != 3 {
		t.Errorf("expected 3 objects in writer, got %d", w.Len())
	}
	if reader.loads[20] != 1 {
		t.Errorf("expected shared object to be loaded once, got %d", reader.loads[20])
	}

	resources := out.(core.Dict).Get("Resources").(core.IndirectRef)
	if resources.Number != 1 {
		t.Errorf("expected Resources renumbered to 1, got %d", resources.Number)
	}
	if dst, ok := c.Mapped(ref(30)); !ok || dst.Number != 3 {
		t.Errorf("expected object 30 mapped to 3, got %v %v", dst, ok)
	}
}

func TestCopierCycle(t *testing.T) {
	reader := newMockReader(map[int]core.Object{
		1: core.Dict{"Next": ref(2)},
		2: core.Dict{"Next": ref(1)},
	})
	w := core.NewWriter()
	c := NewCopier(reader, w)

	if _, err := c.Copy(ref(1)); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if w.Len() != 2 {
		t.Errorf("expected 2 objects, got %d", w.Len())
	}
}

func TestCopierDrop(t *testing.T) {
	reader := newMockReader(map[int]core.Object{
		5: core.Dict{"Type": core.Name("Page")},
	})
	w := core.NewWriter()
	c := NewCopier(reader, w)
	c.Drop(ref(5))

	out, err := c.Copy(core.Array{ref(5), core.Int(1)})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	arr := out.(core.Array)
	if _, ok := arr[0].(core.Null); !ok {
		t.Errorf("expected dropped reference to become null, got %v", arr[0])
	}
	if reader.loads[5] != 0 {
		t.Error("dropped object should not be loaded")
	}
	if w.Len() != 0 {
		t.Errorf("expected no objects written, got %d", w.Len())
	}
}

func TestCopierAssign(t *testing.T) {
	reader := newMockReader(map[int]core.Object{
		7: core.Dict{"Parent": ref(1)},
	})
	w := core.NewWriter()
	pages := w.Reserve()
	c := NewCopier(reader, w)
	c.Assign(ref(1), pages)

	out, err := c.Copy(ref(7))
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	page := out.(core.IndirectRef)
	if page.Number != 2 {
		t.Errorf("expected page numbered 2, got %d", page.Number)
	}
	if reader.loads[1] != 0 {
		t.Error("assigned object should not be loaded")
	}
}

func TestCopierDanglingReference(t *testing.T) {
	reader := newMockReader(map[int]core.Object{})
	w := core.NewWriter()
	c := NewCopier(reader, w)

	root, err := c.Copy(ref(99))
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	w.SetRoot(root.(core.IndirectRef))

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if !strings.Contains(buf.String(), "1 0 obj\nnull") {
		t.Errorf("expected dangling object written as null, got:\n%s", buf.String())
	}
}

func TestCopierStream(t *testing.T) {
	reader := newMockReader(map[int]core.Object{
		3: core.Int(4),
	})
	w := core.NewWriter()
	c := NewCopier(reader, w)

	in := &core.Stream{Dict: core.Dict{"Length": ref(3), "Filter": core.Name("FlateDecode")}, Data: []byte("abcd")}
	out, err := c.Copy(in)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	s := out.(*core.Stream)
	if string(s.Data) != "abcd" {
		t.Errorf("expected raw data kept, got %q", s.Data)
	}
	if f, _ := s.Dict.GetName("Filter"); f != "FlateDecode" {
		t.Errorf("expected filter kept, got %q", f)
	}
}

func TestCopierMaxDepth(t *testing.T) {
	var nested core.Object = core.Int(1)
	for i := 0; i < 5; i++ {
		nested = core.Array{nested}
	}
	c := NewCopier(newMockReader(nil), core.NewWriter(), WithMaxDepth(3))
	if _, err := c.Copy(nested); err == nil {
		t.Error("expected depth error")
	}
}
