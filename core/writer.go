package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tsawler/pdfsegment/internal/filters"
)

// Writer builds a new PDF file from objects. Objects are numbered in the
// order they are added, starting at 1, and written with generation 0 and a
// classic cross-reference table.
type Writer struct {
	version    string
	objects    []Object
	trailer    Dict
	objStreams bool
}

// NewWriter creates a writer producing a PDF 1.7 file
func NewWriter() *Writer {
	return &Writer{version: "1.7", trailer: make(Dict)}
}

// SetVersion overrides the header version, e.g. "1.4"
func (w *Writer) SetVersion(v string) {
	w.version = v
}

// Reserve allocates an object number to be filled in later with Set.
// Unfilled slots are written as null objects.
func (w *Writer) Reserve() IndirectRef {
	w.objects = append(w.objects, nil)
	return IndirectRef{Number: len(w.objects)}
}

// Add appends an object and returns its reference
func (w *Writer) Add(obj Object) IndirectRef {
	w.objects = append(w.objects, obj)
	return IndirectRef{Number: len(w.objects)}
}

// Set stores obj under a reference obtained from Reserve or Add
func (w *Writer) Set(ref IndirectRef, obj Object) error {
	if ref.Number < 1 || ref.Number > len(w.objects) {
		return fmt.Errorf("object %d was not allocated by this writer", ref.Number)
	}
	w.objects[ref.Number-1] = obj
	return nil
}

// SetRoot sets the trailer /Root (document catalog)
func (w *Writer) SetRoot(ref IndirectRef) {
	w.trailer["Root"] = ref
}

// SetInfo sets the trailer /Info dictionary
func (w *Writer) SetInfo(ref IndirectRef) {
	w.trailer["Info"] = ref
}

// SetTrailer sets any other trailer entry. /Size is always computed.
func (w *Writer) SetTrailer(key string, value Object) {
	w.trailer[key] = value
}

// UseObjectStreams packs every non-stream object into one compressed
// object stream and replaces the xref table with an xref stream. The
// header version should be at least 1.5.
func (w *Writer) UseObjectStreams(on bool) {
	w.objStreams = on
}

// Len returns the number of allocated objects
func (w *Writer) Len() int {
	return len(w.objects)
}

// WriteTo serialises the complete file to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	if !w.trailer.Has("Root") {
		return 0, fmt.Errorf("document has no root catalog")
	}

	cw := &countingWriter{w: bufio.NewWriter(out)}
	fmt.Fprintf(cw, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", w.version)
	if w.objStreams {
		return w.writeCompressed(cw)
	}

	offsets := make([]int64, len(w.objects))
	for i, obj := range w.objects {
		offsets[i] = cw.n
		if obj == nil {
			obj = Null{}
		}
		fmt.Fprintf(cw, "%d 0 obj\n", i+1)
		writeObject(cw, obj)
		cw.WriteString("\nendobj\n")
	}

	xrefOffset := cw.n
	fmt.Fprintf(cw, "xref\n0 %d\n0000000000 65535 f \n", len(w.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(cw, "%010d 00000 n \n", off)
	}

	trailer := w.trailer.Clone()
	trailer["Size"] = Int(len(w.objects) + 1)
	cw.WriteString("trailer\n")
	writeObject(cw, trailer)
	fmt.Fprintf(cw, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// writeCompressed writes streams directly, everything else into object
// number Len()+1, and the xref stream as Len()+2.
func (w *Writer) writeCompressed(cw *countingWriter) (int64, error) {
	n := len(w.objects)
	stmNum, xrefNum := n+1, n+2

	var header, body bytes.Buffer
	bw := &countingWriter{w: bufio.NewWriter(&body)}
	index := make([]int, n)
	packed := 0
	for i, obj := range w.objects {
		if _, ok := obj.(*Stream); ok {
			index[i] = -1
			continue
		}
		fmt.Fprintf(&header, "%d %d ", i+1, bw.n)
		writeObject(bw, obj)
		bw.WriteString("\n")
		index[i] = packed
		packed++
	}
	if bw.err != nil {
		return 0, bw.err
	}
	if err := bw.w.Flush(); err != nil {
		return 0, err
	}

	offsets := make([]int64, n+2)
	for i, obj := range w.objects {
		if index[i] >= 0 {
			continue
		}
		offsets[i] = cw.n
		fmt.Fprintf(cw, "%d 0 obj\n", i+1)
		writeObject(cw, obj)
		cw.WriteString("\nendobj\n")
	}

	data, err := filters.FlateEncode(append(header.Bytes(), body.Bytes()...))
	if err != nil {
		return cw.n, err
	}
	offsets[n] = cw.n
	fmt.Fprintf(cw, "%d 0 obj\n", stmNum)
	writeObject(cw, &Stream{Dict: Dict{
		"Type":   Name("ObjStm"),
		"N":      Int(packed),
		"First":  Int(header.Len()),
		"Filter": Name("FlateDecode"),
	}, Data: data})
	cw.WriteString("\nendobj\n")

	// rows are [type, field2 (4 bytes), field3 (2 bytes)]
	offsets[n+1] = cw.n
	rows := make([]byte, 0, (n+3)*7)
	row := func(typ byte, f2 int64, f3 int) {
		rows = append(rows, typ, byte(f2>>24), byte(f2>>16), byte(f2>>8), byte(f2), byte(f3>>8), byte(f3))
	}
	row(0, 0, 65535)
	for i := 0; i < n; i++ {
		if index[i] >= 0 {
			row(2, int64(stmNum), index[i])
		} else {
			row(1, offsets[i], 0)
		}
	}
	row(1, offsets[n], 0)
	row(1, offsets[n+1], 0)

	xref, err := filters.FlateEncode(rows)
	if err != nil {
		return cw.n, err
	}
	dict := w.trailer.Clone()
	dict["Type"] = Name("XRef")
	dict["Size"] = Int(n + 3)
	dict["W"] = Array{Int(1), Int(4), Int(2)}
	dict["Filter"] = Name("FlateDecode")
	fmt.Fprintf(cw, "%d 0 obj\n", xrefNum)
	writeObject(cw, &Stream{Dict: dict, Data: xref})
	fmt.Fprintf(cw, "\nendobj\nstartxref\n%d\n%%%%EOF\n", offsets[n+1])

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// WriteObject serialises a single object in PDF syntax.
func WriteObject(out io.Writer, obj Object) error {
	cw := &countingWriter{w: bufio.NewWriter(out)}
	writeObject(cw, obj)
	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}

func writeObject(w *countingWriter, obj Object) {
	switch o := obj.(type) {
	case nil, Null:
		w.WriteString("null")
	case Bool:
		w.WriteString(o.String())
	case Int:
		w.WriteString(o.String())
	case Real:
		w.WriteString(formatReal(float64(o)))
	case String:
		writeString(w, []byte(o))
	case Name:
		writeName(w, string(o))
	case Array:
		w.WriteString("[")
		for i, item := range o {
			if i > 0 {
				w.WriteString(" ")
			}
			writeObject(w, item)
		}
		w.WriteString("]")
	case Dict:
		w.WriteString("<<")
		for _, key := range o.Keys() {
			writeName(w, key)
			w.WriteString(" ")
			writeObject(w, o[key])
		}
		w.WriteString(">>")
	case *Stream:
		dict := o.Dict.Clone()
		dict["Length"] = Int(len(o.Data))
		writeObject(w, dict)
		w.WriteString("\nstream\n")
		w.Write(o.Data)
		w.WriteString("\nendstream")
	case IndirectRef:
		fmt.Fprintf(w, "%d %d R", o.Number, o.Generation)
	default:
		w.WriteString("null")
	}
}

// formatReal writes a real without exponent notation, which PDF forbids.
func formatReal(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// writeString picks literal syntax for mostly-printable text and hex for
// binary data.
func writeString(w *countingWriter, b []byte) {
	binary := 0
	for _, c := range b {
		if (c < 0x20 && c != '\n' && c != '\r' && c != '\t') || c > 0x7e {
			binary++
		}
	}
	if binary > len(b)/4 {
		w.WriteString("<")
		const hexdigits = "0123456789ABCDEF"
		for _, c := range b {
			w.Write([]byte{hexdigits[c>>4], hexdigits[c&0x0f]})
		}
		w.WriteString(">")
		return
	}

	w.WriteString("(")
	for _, c := range b {
		switch c {
		case '(', ')', '\\':
			w.Write([]byte{'\\', c})
		case '\n':
			w.WriteString(`\n`)
		case '\r':
			w.WriteString(`\r`)
		case '\t':
			w.WriteString(`\t`)
		default:
			if c < 0x20 || c > 0x7e {
				fmt.Fprintf(w, "\\%03o", c)
			} else {
				w.Write([]byte{c})
			}
		}
	}
	w.WriteString(")")
}

// writeName escapes bytes outside the regular printable range as #xx.
func writeName(w *countingWriter, name string) {
	w.WriteString("/")
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x21 || c > 0x7e || c == '#' || isDelimiter(c) {
			fmt.Fprintf(w, "#%02X", c)
		} else {
			w.Write([]byte{c})
		}
	}
}

// countingWriter tracks the byte offset and the first error.
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *countingWriter) WriteString(s string) {
	c.Write([]byte(s))
}
