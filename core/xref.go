package core

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// XRefEntry represents a single cross-reference entry
type XRefEntry struct {
	Offset     int64 // byte offset of an in-use, uncompressed object
	Generation int
	InUse      bool
	Stream     int // object stream holding a compressed object, 0 otherwise
	Index      int // position of a compressed object within its stream
}

// Compressed reports whether the object lives inside an object stream.
func (e *XRefEntry) Compressed() bool {
	return e.InUse && e.Stream > 0
}

// XRefTable represents a PDF cross-reference section and its trailer
type XRefTable struct {
	Entries map[int]*XRefEntry
	Trailer Dict
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]*XRefEntry),
		Trailer: make(Dict),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(objNum int) (*XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Set adds or updates an XRef entry
func (x *XRefTable) Set(objNum int, entry *XRefEntry) {
	x.Entries[objNum] = entry
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// XRefParser reads cross-reference data from a complete file image. It
// understands classic tables, cross-reference streams (PDF 1.5) and
// hybrid files, and can rebuild the table when the file is damaged.
type XRefParser struct {
	data []byte
}

// NewXRefParser creates an XRef parser over the whole file
func NewXRefParser(data []byte) *XRefParser {
	return &XRefParser{data: data}
}

// FindXRef returns the offset recorded after the last "startxref" keyword.
func (x *XRefParser) FindXRef() (int64, error) {
	tail := x.data
	if len(tail) > 2048 {
		tail = tail[len(tail)-2048:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found in PDF")
	}

	rest := bytes.TrimLeft(tail[idx+len("startxref"):], " \t\r\n\f\x00")
	end := 0
	for end < len(rest) && isDigit(rest[end]) {
		end++
	}
	offset, err := strconv.ParseInt(string(rest[:end]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid xref offset: %w", err)
	}
	if offset < 0 || offset >= int64(len(x.data)) {
		return 0, fmt.Errorf("xref offset %d outside file of %d bytes", offset, len(x.data))
	}
	return offset, nil
}

// ParseXRef parses the cross-reference section at offset, which may be a
// classic table or a cross-reference stream.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(x.data)) {
		return nil, fmt.Errorf("xref offset %d out of range", offset)
	}
	pos := skipSpace(x.data, int(offset))
	if bytes.HasPrefix(x.data[pos:], []byte("xref")) {
		return x.parseTable(pos + len("xref"))
	}
	return x.parseStream(pos)
}

// parseTable parses subsections "first count" followed by 20-byte entries,
// then the trailer dictionary.
func (x *XRefParser) parseTable(pos int) (*XRefTable, error) {
	table := NewXRefTable()
	for {
		pos = skipSpace(x.data, pos)
		if pos >= len(x.data) {
			return nil, fmt.Errorf("xref table missing trailer")
		}
		if bytes.HasPrefix(x.data[pos:], []byte("trailer")) {
			break
		}

		var first, count int64
		var ok bool
		if first, pos, ok = readUint(x.data, pos); !ok {
			return nil, fmt.Errorf("invalid subsection header at position %d", pos)
		}
		if count, pos, ok = readUint(x.data, pos); !ok {
			return nil, fmt.Errorf("invalid subsection count at position %d", pos)
		}

		for i := int64(0); i < count; i++ {
			entry, next, err := parseTableEntry(x.data, pos)
			if err != nil {
				return nil, fmt.Errorf("failed to parse xref entry %d: %w", first+i, err)
			}
			pos = next
			table.Set(int(first+i), entry)
		}
	}

	p := NewParserAt(x.data, pos+len("trailer"))
	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse trailer dictionary: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is not a dictionary, got %T", obj)
	}
	table.Trailer = trailer
	return table, nil
}

// parseTableEntry reads "nnnnnnnnnn ggggg n". Entries are nominally 20
// bytes but writers vary the line ending, so fields are read as tokens.
func parseTableEntry(data []byte, pos int) (*XRefEntry, int, error) {
	offset, pos, ok := readUint(data, pos)
	if !ok {
		return nil, pos, fmt.Errorf("invalid offset at position %d", pos)
	}
	gen, pos, ok := readUint(data, pos)
	if !ok {
		return nil, pos, fmt.Errorf("invalid generation at position %d", pos)
	}
	pos = skipSpace(data, pos)
	if pos >= len(data) {
		return nil, pos, fmt.Errorf("unexpected end of xref table")
	}

	entry := &XRefEntry{Offset: offset, Generation: int(gen)}
	switch data[pos] {
	case 'n':
		entry.InUse = true
	case 'f':
	default:
		return nil, pos, fmt.Errorf("invalid in-use flag %q", data[pos])
	}
	return entry, pos + 1, nil
}

// parseStream parses a cross-reference stream object at pos.
func (x *XRefParser) parseStream(pos int) (*XRefTable, error) {
	ind, err := NewParserAt(x.data, pos).ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream: %w", err)
	}
	stream, ok := ind.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object %d at xref offset is not a stream", ind.Ref.Number)
	}
	return ParseXRefStream(stream)
}

// ParseXRefStream decodes a /Type /XRef stream into a table. The stream
// dictionary doubles as the trailer.
func ParseXRefStream(stream *Stream) (*XRefTable, error) {
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("stream is not an xref stream, got type %q", t)
	}

	wArr, ok := stream.Dict.GetArray("W")
	if !ok || len(wArr) != 3 {
		return nil, fmt.Errorf("xref stream has invalid /W")
	}
	var w [3]int
	for i := range w {
		v, ok := wArr.GetInt(i)
		if !ok || v < 0 || v > 8 {
			return nil, fmt.Errorf("xref stream has invalid /W entry %d", i)
		}
		w[i] = int(v)
	}
	rowLen := w[0] + w[1] + w[2]
	if rowLen == 0 {
		return nil, fmt.Errorf("xref stream has zero-width rows")
	}

	size, _ := stream.Dict.GetInt("Size")
	index := Array{Int(0), size}
	if arr, ok := stream.Dict.GetArray("Index"); ok && len(arr)%2 == 0 {
		index = arr
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.Trailer = stream.Dict
	row := 0
	for i := 0; i+1 < len(index); i += 2 {
		first, _ := index.GetInt(i)
		count, _ := index.GetInt(i + 1)
		for j := 0; j < int(count); j++ {
			off := row * rowLen
			if off+rowLen > len(data) {
				return table, nil
			}
			table.Set(int(first)+j, parseXRefStreamEntry(data[off:off+rowLen], w))
			row++
		}
	}
	return table, nil
}

// parseXRefStreamEntry decodes one row. A zero-width type field defaults
// to type 1.
func parseXRefStreamEntry(row []byte, w [3]int) *XRefEntry {
	typ := int64(1)
	if w[0] > 0 {
		typ = readBigEndianInt(row[:w[0]])
	}
	f2 := readBigEndianInt(row[w[0] : w[0]+w[1]])
	f3 := readBigEndianInt(row[w[0]+w[1]:])

	switch typ {
	case 1:
		return &XRefEntry{Offset: f2, Generation: int(f3), InUse: true}
	case 2:
		return &XRefEntry{InUse: true, Stream: int(f2), Index: int(f3)}
	}
	return &XRefEntry{Offset: f2, Generation: int(f3)}
}

func readBigEndianInt(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// ParseAllXRefs parses the section named by startxref and every earlier
// section reachable through /Prev, oldest first. Hybrid files contribute
// their /XRefStm entries for objects the classic table does not map.
func (x *XRefParser) ParseAllXRefs() ([]*XRefTable, error) {
	offset, err := x.FindXRef()
	if err != nil {
		return nil, err
	}

	var tables []*XRefTable
	seen := make(map[int64]bool)
	for {
		if seen[offset] {
			break
		}
		seen[offset] = true

		table, err := x.ParseXRef(offset)
		if err != nil {
			if len(tables) == 0 {
				return nil, err
			}
			// a broken older section only loses history
			break
		}

		if stmOff, ok := table.Trailer.GetInt("XRefStm"); ok && !seen[int64(stmOff)] {
			seen[int64(stmOff)] = true
			if stm, err := x.ParseXRef(int64(stmOff)); err == nil {
				for num, e := range stm.Entries {
					if cur, ok := table.Entries[num]; !ok || !cur.InUse {
						table.Entries[num] = e
					}
				}
			}
		}

		tables = append([]*XRefTable{table}, tables...)

		prev, ok := table.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}
	return tables, nil
}

// MergeXRefTables merges sections from oldest to newest; later entries
// override earlier ones. Trailer keys are merged the same way.
func MergeXRefTables(tables ...*XRefTable) *XRefTable {
	merged := NewXRefTable()
	for _, table := range tables {
		for objNum, entry := range table.Entries {
			merged.Set(objNum, entry)
		}
		for k, v := range table.Trailer {
			merged.Trailer[k] = v
		}
	}
	// these describe individual sections, not the merged view
	merged.Trailer.Delete("Prev")
	merged.Trailer.Delete("XRefStm")
	return merged
}

var objHeader = regexp.MustCompile(`(\d+)[ \t\r\n\f\x00]+(\d+)[ \t\r\n\f\x00]+obj\b`)

// Rebuild reconstructs the table by scanning for "N G obj" headers, the
// usual recovery for files whose xref is missing or wrong. Objects inside
// object streams found during the scan are registered as compressed
// entries. The trailer comes from the last trailer dictionary or xref
// stream naming a /Root, or failing that from a scanned /Type /Catalog.
func (x *XRefParser) Rebuild() (*XRefTable, error) {
	table := NewXRefTable()
	for _, m := range objHeader.FindAllSubmatchIndex(x.data, -1) {
		if m[0] > 0 && !isWhitespace(x.data[m[0]-1]) && !isDelimiter(x.data[m[0]-1]) {
			continue
		}
		num, err1 := strconv.Atoi(string(x.data[m[2]:m[3]]))
		gen, err2 := strconv.Atoi(string(x.data[m[4]:m[5]]))
		if err1 != nil || err2 != nil {
			continue
		}
		table.Set(num, &XRefEntry{Offset: int64(m[0]), Generation: gen, InUse: true})
	}
	if table.Size() == 0 {
		return nil, fmt.Errorf("no objects found while rebuilding xref")
	}

	nums := make([]int, 0, table.Size())
	for num := range table.Entries {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	var catalog *IndirectRef
	for _, num := range nums {
		entry := table.Entries[num]
		ind, err := NewParserAt(x.data, int(entry.Offset)).ParseIndirectObject()
		if err != nil {
			continue
		}
		var dict Dict
		switch o := ind.Object.(type) {
		case Dict:
			dict = o
		case *Stream:
			dict = o.Dict
			x.registerObjectStream(table, num, o)
		}
		if t, _ := dict.GetName("Type"); t == "Catalog" && catalog == nil {
			ref := ind.Ref
			catalog = &ref
		} else if t == "XRef" && dict.Has("Root") && !table.Trailer.Has("Root") {
			table.Trailer = dict.Clone()
		}
	}

	for idx := 0; ; {
		i := bytes.Index(x.data[idx:], []byte("trailer"))
		if i < 0 {
			break
		}
		idx += i + len("trailer")
		obj, err := NewParserAt(x.data, idx).ParseObject()
		if d, ok := obj.(Dict); err == nil && ok && d.Has("Root") {
			table.Trailer = d
		}
	}

	if !table.Trailer.Has("Root") {
		if catalog == nil {
			return nil, fmt.Errorf("no document catalog found while rebuilding xref")
		}
		table.Trailer.Set("Root", *catalog)
	}
	for _, k := range []string{"Prev", "XRefStm", "W", "Index", "Filter", "DecodeParms", "Length", "Type"} {
		table.Trailer.Delete(k)
	}
	return table, nil
}

func (x *XRefParser) registerObjectStream(table *XRefTable, num int, s *Stream) {
	if t, _ := s.Dict.GetName("Type"); t != "ObjStm" {
		return
	}
	objStm, err := NewObjectStream(s)
	if err != nil {
		return
	}
	nums, err := objStm.ObjectNumbers()
	if err != nil {
		return
	}
	for i, n := range nums {
		if _, direct := table.Entries[n]; !direct {
			table.Set(n, &XRefEntry{InUse: true, Stream: num, Index: i})
		}
	}
}

func skipSpace(data []byte, pos int) int {
	for pos < len(data) {
		switch {
		case isWhitespace(data[pos]):
			pos++
		case data[pos] == '%':
			for pos < len(data) && data[pos] != '\n' && data[pos] != '\r' {
				pos++
			}
		default:
			return pos
		}
	}
	return pos
}

// readUint reads an unsigned decimal integer after optional whitespace.
func readUint(data []byte, pos int) (int64, int, bool) {
	pos = skipSpace(data, pos)
	start := pos
	for pos < len(data) && isDigit(data[pos]) {
		pos++
	}
	if pos == start {
		return 0, pos, false
	}
	v, err := strconv.ParseInt(string(data[start:pos]), 10, 64)
	return v, pos, err == nil
}
