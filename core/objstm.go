package core

import (
	"fmt"
)

// ObjectStream represents a PDF 1.5 object stream (Type /ObjStm), which
// packs many non-stream objects into one compressed stream.
type ObjectStream struct {
	stream  *Stream
	n       int
	first   int
	extends *IndirectRef
	objects map[int]Object
	offsets []objectStreamOffset
	decoded []byte
}

type objectStreamOffset struct {
	ObjNum int
	Offset int // relative to First
}

// NewObjectStream wraps a stream with /Type /ObjStm, /N and /First.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type: %q", t)
	}

	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First")
	}

	os := &ObjectStream{
		stream:  stream,
		n:       int(n),
		first:   int(first),
		objects: make(map[int]Object),
	}
	if ref, ok := stream.Dict.GetIndirectRef("Extends"); ok {
		os.extends = &ref
	}
	return os, nil
}

// N returns the number of objects stored in the stream.
func (os *ObjectStream) N() int { return os.n }

// First returns the offset of the first object in the decoded data.
func (os *ObjectStream) First() int { return os.first }

// Extends returns the object stream this one extends, or nil.
func (os *ObjectStream) Extends() *IndirectRef { return os.extends }

// decode decodes the stream and parses the "objNum offset" header pairs.
func (os *ObjectStream) decode() error {
	if os.decoded != nil {
		return nil
	}
	decoded, err := os.stream.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode object stream: %w", err)
	}
	if os.first > len(decoded) {
		return fmt.Errorf("First offset (%d) exceeds decoded data length (%d)", os.first, len(decoded))
	}

	p := NewParser(decoded[:os.first])
	offsets := make([]objectStreamOffset, 0, os.n)
	for i := 0; i < os.n; i++ {
		num, err1 := p.ParseObject()
		off, err2 := p.ParseObject()
		numInt, ok1 := num.(Int)
		offInt, ok2 := off.(Int)
		if err1 != nil || err2 != nil || !ok1 || !ok2 {
			return fmt.Errorf("malformed object stream header at pair %d", i)
		}
		offsets = append(offsets, objectStreamOffset{ObjNum: int(numInt), Offset: int(offInt)})
	}

	os.decoded = decoded
	os.offsets = offsets
	return nil
}

// GetObjectByIndex extracts the object at header position index. It
// returns the object and its object number.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if err := os.decode(); err != nil {
		return nil, 0, err
	}
	if index < 0 || index >= len(os.offsets) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.offsets))
	}
	num := os.offsets[index].ObjNum
	if obj, ok := os.objects[index]; ok {
		return obj, num, nil
	}

	start := os.first + os.offsets[index].Offset
	if start >= len(os.decoded) {
		return nil, 0, fmt.Errorf("object offset %d exceeds decoded data length %d", start, len(os.decoded))
	}
	end := len(os.decoded)
	if index+1 < len(os.offsets) {
		if next := os.first + os.offsets[index+1].Offset; next > start && next < end {
			end = next
		}
	}

	obj, err := NewParser(os.decoded[start:end]).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object at index %d: %w", index, err)
	}
	os.objects[index] = obj
	return obj, num, nil
}

// GetObjectByNumber finds an object by number and returns it with its
// index in the stream.
func (os *ObjectStream) GetObjectByNumber(objNum int) (Object, int, error) {
	if err := os.decode(); err != nil {
		return nil, 0, err
	}
	for i, entry := range os.offsets {
		if entry.ObjNum == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, i, err
		}
	}
	return nil, 0, fmt.Errorf("object %d not found in object stream", objNum)
}

// ObjectNumbers returns the object numbers stored in the stream in header order.
func (os *ObjectStream) ObjectNumbers() ([]int, error) {
	if err := os.decode(); err != nil {
		return nil, err
	}
	nums := make([]int, len(os.offsets))
	for i, entry := range os.offsets {
		nums[i] = entry.ObjNum
	}
	return nums, nil
}
