package core

import (
	"bytes"
	"fmt"
	"testing"
)

func TestFindXRef(t *testing.T) {
	data := []byte("%PDF-1.4\nstuff\nstartxref\n9\n%%EOF\n")
	off, err := NewXRefParser(data).FindXRef()
	if err != nil {
		t.Fatalf("FindXRef failed: %v", err)
	}
	if off != 9 {
		t.Errorf("expected 9, got %d", off)
	}

	if _, err := NewXRefParser([]byte("%PDF-1.4\nno marker")).FindXRef(); err == nil {
		t.Error("expected error without startxref")
	}
	if _, err := NewXRefParser([]byte("startxref\n99999\n%%EOF")).FindXRef(); err == nil {
		t.Error("expected error for offset beyond the file")
	}
}

func TestParseTableEntryVariants(t *testing.T) {
	tests := []struct {
		input  string
		offset int64
		gen    int
		inUse  bool
	}{
		{"0000000017 00000 n \n", 17, 0, true},
		{"0000000000 65535 f\r\n", 0, 65535, false},
		{"0000000123 00002 n\n", 123, 2, true},
	}
	for _, tt := range tests {
		e, _, err := parseTableEntry([]byte(tt.input), 0)
		if err != nil {
			t.Fatalf("%q: %v", tt.input, err)
		}
		if e.Offset != tt.offset || e.Generation != tt.gen || e.InUse != tt.inUse {
			t.Errorf("%q: unexpected entry %+v", tt.input, e)
		}
	}
	if _, _, err := parseTableEntry([]byte("0000000017 00000 x\n"), 0); err == nil {
		t.Error("expected error for invalid flag")
	}
}

func TestIncrementalUpdate(t *testing.T) {
	base := buildFile(t)
	prev, err := NewXRefParser(base).FindXRef()
	if err != nil {
		t.Fatalf("FindXRef failed: %v", err)
	}

	var buf bytes.Buffer
	buf.Write(base)
	objOff := buf.Len()
	buf.WriteString("5 0 obj\n(new)\nendobj\n")
	xrefOff := buf.Len()
	fmt.Fprintf(&buf, "xref\n5 1\n%010d 00000 n \ntrailer\n<< /Size 6 /Root 4 0 R /Prev %d >>\nstartxref\n%d\n%%%%EOF\n", objOff, prev, xrefOff)

	tables, err := NewXRefParser(buf.Bytes()).ParseAllXRefs()
	if err != nil {
		t.Fatalf("ParseAllXRefs failed: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(tables))
	}
	merged := MergeXRefTables(tables...)
	if e, ok := merged.Get(5); !ok || e.Offset != int64(objOff) {
		t.Errorf("expected object 5 at %d, got %+v", objOff, e)
	}
	if _, ok := merged.Get(3); !ok {
		t.Error("expected entries from the original section")
	}
	if merged.Trailer.Has("Prev") {
		t.Error("merged trailer should not carry /Prev")
	}
	if size, _ := merged.Trailer.GetInt("Size"); size != 6 {
		t.Errorf("expected /Size 6, got %d", size)
	}
}

func TestPrevLoopTerminates(t *testing.T) {
	data := []byte("%PDF-1.4\nxref\n0 1\n0000000000 65535 f \ntrailer\n<< /Size 1 /Prev 9 >>\nstartxref\n9\n%%EOF\n")
	tables, err := NewXRefParser(data).ParseAllXRefs()
	if err != nil {
		t.Fatalf("ParseAllXRefs failed: %v", err)
	}
	if len(tables) != 1 {
		t.Errorf("expected 1 section, got %d", len(tables))
	}
}

func xrefStreamFixture() *Stream {
	// W [1 2 1]: free head, object 1 at offset 16, object 2 in stream 5 index 3
	rows := []byte{
		0, 0, 0, 0xff,
		1, 0, 16, 0,
		2, 0, 5, 3,
	}
	return &Stream{
		Dict: Dict{
			"Type": Name("XRef"),
			"W":    Array{Int(1), Int(2), Int(1)},
			"Size": Int(3),
			"Root": IndirectRef{Number: 1},
		},
		Data: rows,
	}
}

func TestParseXRefStream(t *testing.T) {
	table, err := ParseXRefStream(xrefStreamFixture())
	if err != nil {
		t.Fatalf("ParseXRefStream failed: %v", err)
	}
	if table.Size() != 3 {
		t.Fatalf("expected 3 entries, got %d", table.Size())
	}
	if e, _ := table.Get(0); e.InUse {
		t.Error("expected object 0 to be free")
	}
	if e, _ := table.Get(1); !e.InUse || e.Compressed() || e.Offset != 16 {
		t.Errorf("unexpected entry for object 1: %+v", e)
	}
	if e, _ := table.Get(2); !e.Compressed() || e.Stream != 5 || e.Index != 3 {
		t.Errorf("unexpected entry for object 2: %+v", e)
	}
	if !table.Trailer.Has("Root") {
		t.Error("expected stream dictionary to serve as trailer")
	}
}

func TestParseXRefStreamIndex(t *testing.T) {
	s := xrefStreamFixture()
	s.Dict["Index"] = Array{Int(10), Int(1), Int(20), Int(2)}
	table, err := ParseXRefStream(s)
	if err != nil {
		t.Fatalf("ParseXRefStream failed: %v", err)
	}
	for _, num := range []int{10, 20, 21} {
		if _, ok := table.Get(num); !ok {
			t.Errorf("expected entry for object %d", num)
		}
	}
}

func TestParseXRefStreamInvalid(t *testing.T) {
	s := xrefStreamFixture()
	s.Dict["W"] = Array{Int(1), Int(2)}
	if _, err := ParseXRefStream(s); err == nil {
		t.Error("expected error for short /W")
	}
	s = xrefStreamFixture()
	s.Dict["Type"] = Name("ObjStm")
	if _, err := ParseXRefStream(s); err == nil {
		t.Error("expected error for wrong /Type")
	}
}

func TestParseXRefStreamFromFile(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n")
	catOff := buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	xrefOff := buf.Len()
	rows := []byte{0, 0, 0, 0, 1, 0, byte(catOff), 0, 1, byte(xrefOff >> 8), byte(xrefOff), 0}
	fmt.Fprintf(&buf, "2 0 obj\n<< /Type /XRef /W [1 2 1] /Size 3 /Root 1 0 R /Length %d >>\nstream\n", len(rows))
	buf.Write(rows)
	fmt.Fprintf(&buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", xrefOff)

	tables, err := NewXRefParser(buf.Bytes()).ParseAllXRefs()
	if err != nil {
		t.Fatalf("ParseAllXRefs failed: %v", err)
	}
	table := MergeXRefTables(tables...)
	if e, _ := table.Get(1); e.Offset != int64(catOff) {
		t.Errorf("expected catalog at %d, got %d", catOff, e.Offset)
	}
	if ref, _ := table.Trailer.GetIndirectRef("Root"); ref.Number != 1 {
		t.Errorf("expected /Root 1 0 R, got %v", ref)
	}
}

func TestReadBigEndianInt(t *testing.T) {
	tests := []struct {
		in   []byte
		want int64
	}{
		{nil, 0},
		{[]byte{0x7f}, 127},
		{[]byte{0x01, 0x00}, 256},
		{[]byte{0x00, 0x01, 0x00, 0x00}, 65536},
	}
	for _, tt := range tests {
		if got := readBigEndianInt(tt.in); got != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestRebuild(t *testing.T) {
	data := buildFile(t)
	// break the startxref pointer
	idx := bytes.LastIndex(data, []byte("startxref"))
	damaged := append(append([]byte{}, data[:idx]...), []byte("startxref\n1\n%%EOF\n")...)

	if _, err := NewXRefParser(damaged).ParseAllXRefs(); err == nil {
		t.Fatal("expected damaged xref to fail")
	}
	table, err := NewXRefParser(damaged).Rebuild()
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	for num := 1; num <= 4; num++ {
		if _, ok := table.Get(num); !ok {
			t.Errorf("expected object %d to be recovered", num)
		}
	}
	if ref, _ := table.Trailer.GetIndirectRef("Root"); ref.Number != 4 {
		t.Errorf("expected /Root 4 0 R, got %v", table.Trailer.Get("Root"))
	}
}

func TestRebuildFindsCatalogWithoutTrailer(t *testing.T) {
	data := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n2 0 obj\n<< /Type /Catalog /Pages 1 0 R >>\nendobj\n")
	table, err := NewXRefParser(data).Rebuild()
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if ref, _ := table.Trailer.GetIndirectRef("Root"); ref.Number != 2 {
		t.Errorf("expected catalog 2 as root, got %v", table.Trailer.Get("Root"))
	}
}

func TestRebuildEmpty(t *testing.T) {
	if _, err := NewXRefParser([]byte("%PDF-1.4\nnothing here")).Rebuild(); err == nil {
		t.Error("expected error when no objects exist")
	}
}
