package font

import (
	"fmt"

	"github.com/tsawler/pdfsegment/contentstream"
	"github.com/tsawler/pdfsegment/core"
)

// CMap is a parsed PDF CMap. ToUnicode CMaps fill the Unicode mappings;
// embedded Type0 encodings fill the CID mappings. Both use the codespace
// ranges to split byte strings into codes.
type CMap struct {
	Name  string
	WMode int

	codespaces []codespaceRange

	chars  map[uint32]string
	ranges []bfRange

	cids      map[uint32]int
	cidRanges []cidRange
}

type codespaceRange struct {
	low, high uint32
	bytes     int
}

type bfRange struct {
	low, high uint32
	dst       []byte   // UTF-16BE base, incremented per code
	dsts      []string // explicit per-code strings
}

type cidRange struct {
	low, high uint32
	cid       int
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{
		chars: make(map[uint32]string),
		cids:  make(map[uint32]int),
	}
}

// ParseToUnicodeCMap parses a ToUnicode CMap stream
func ParseToUnicodeCMap(stream *core.Stream) (*CMap, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	data, err := stream.Decoded()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}
	return ParseCMap(data)
}

// ParseCMap parses CMap program text. Sections that fail to parse are
// skipped; an error is only returned when nothing usable was found.
func ParseCMap(data []byte) (*CMap, error) {
	cm := NewCMap()
	ops, perr := contentstream.NewParser(data).Parse()

	for _, op := range ops {
		args := op.Operands
		switch op.Operator {
		case "endcodespacerange":
			for i := 0; i+1 < len(args); i += 2 {
				lo, n, ok1 := hexCode(args[i])
				hi, _, ok2 := hexCode(args[i+1])
				if ok1 && ok2 {
					cm.codespaces = append(cm.codespaces, codespaceRange{low: lo, high: hi, bytes: n})
				}
			}
		case "endbfchar":
			for i := 0; i+1 < len(args); i += 2 {
				code, _, ok := hexCode(args[i])
				dst, isStr := args[i+1].(core.String)
				if ok && isStr {
					cm.chars[code] = utf16Text([]byte(dst))
				} else if name, isName := args[i+1].(core.Name); ok && isName {
					if r := GlyphNameToRune(string(name)); r != 0 {
						cm.chars[code] = string(r)
					}
				}
			}
		case "endbfrange":
			for i := 0; i+2 < len(args); i += 3 {
				lo, _, ok1 := hexCode(args[i])
				hi, _, ok2 := hexCode(args[i+1])
				if !ok1 || !ok2 || hi < lo {
					continue
				}
				switch dst := args[i+2].(type) {
				case core.String:
					cm.ranges = append(cm.ranges, bfRange{low: lo, high: hi, dst: []byte(dst)})
				case core.Array:
					r := bfRange{low: lo, high: hi}
					for _, item := range dst {
						s, _ := item.(core.String)
						r.dsts = append(r.dsts, utf16Text([]byte(s)))
					}
					cm.ranges = append(cm.ranges, r)
				}
			}
		case "endcidchar":
			for i := 0; i+1 < len(args); i += 2 {
				code, _, ok := hexCode(args[i])
				cid, isInt := args[i+1].(core.Int)
				if ok && isInt {
					cm.cids[code] = int(cid)
				}
			}
		case "endcidrange":
			for i := 0; i+2 < len(args); i += 3 {
				lo, _, ok1 := hexCode(args[i])
				hi, _, ok2 := hexCode(args[i+1])
				cid, isInt := args[i+2].(core.Int)
				if ok1 && ok2 && isInt && hi >= lo {
					cm.cidRanges = append(cm.cidRanges, cidRange{low: lo, high: hi, cid: int(cid)})
				}
			}
		case "def":
			if len(args) != 2 {
				continue
			}
			key, _ := args[0].(core.Name)
			switch key {
			case "CMapName":
				if v, ok := args[1].(core.Name); ok {
					cm.Name = string(v)
				}
			case "WMode":
				if v, ok := args[1].(core.Int); ok {
					cm.WMode = int(v)
				}
			}
		}
	}

	if perr != nil && cm.empty() {
		return nil, fmt.Errorf("failed to parse cmap: %w", perr)
	}
	return cm, nil
}

func (cm *CMap) empty() bool {
	return len(cm.codespaces) == 0 && len(cm.chars) == 0 && len(cm.ranges) == 0 &&
		len(cm.cids) == 0 && len(cm.cidRanges) == 0
}

// HasCodespace reports whether the CMap declares codespace ranges.
func (cm *CMap) HasCodespace() bool {
	return cm != nil && len(cm.codespaces) > 0
}

// NextCode reads one character code from the front of data. When no
// codespace range matches, the shortest declared code length is used.
func (cm *CMap) NextCode(data []byte) (code uint32, n int) {
	if len(data) == 0 {
		return 0, 0
	}
	shortest := 0
	for length := 1; length <= 4 && length <= len(data); length++ {
		c := bigEndian(data[:length])
		for _, r := range cm.codespaces {
			if r.bytes != length {
				continue
			}
			if c >= r.low && c <= r.high {
				return c, length
			}
			if shortest == 0 {
				shortest = length
			}
		}
	}
	if shortest == 0 {
		shortest = 1
		if len(cm.codespaces) > 0 {
			shortest = cm.codespaces[0].bytes
		}
	}
	if shortest > len(data) {
		shortest = len(data)
	}
	return bigEndian(data[:shortest]), shortest
}

// Lookup returns the Unicode text for a character code.
func (cm *CMap) Lookup(code uint32) (string, bool) {
	if cm == nil {
		return "", false
	}
	if s, ok := cm.chars[code]; ok {
		return s, true
	}
	for i := len(cm.ranges) - 1; i >= 0; i-- {
		r := cm.ranges[i]
		if code < r.low || code > r.high {
			continue
		}
		offset := code - r.low
		if r.dsts != nil {
			if int(offset) < len(r.dsts) {
				return r.dsts[offset], true
			}
			return "", false
		}
		return utf16Text(incrementLast(r.dst, offset)), true
	}
	return "", false
}

// CID returns the CID selected by a character code.
func (cm *CMap) CID(code uint32) (int, bool) {
	if cm == nil {
		return 0, false
	}
	if cid, ok := cm.cids[code]; ok {
		return cid, true
	}
	for _, r := range cm.cidRanges {
		if code >= r.low && code <= r.high {
			return r.cid + int(code-r.low), true
		}
	}
	return 0, false
}

// LookupString decodes a whole string through the CMap. Unmapped codes
// are dropped.
func (cm *CMap) LookupString(data []byte) string {
	var out []byte
	for len(data) > 0 {
		code, n := cm.NextCode(data)
		if s, ok := cm.Lookup(code); ok {
			out = append(out, s...)
		}
		data = data[n:]
	}
	return string(out)
}

// hexCode returns the value and byte length of a CMap source code string.
func hexCode(obj core.Object) (uint32, int, bool) {
	s, ok := obj.(core.String)
	if !ok || len(s) == 0 || len(s) > 4 {
		return 0, 0, false
	}
	return bigEndian([]byte(s)), len(s), true
}

func bigEndian(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// incrementLast adds offset to the trailing 16 bits of a UTF-16BE string.
func incrementLast(dst []byte, offset uint32) []byte {
	out := append([]byte(nil), dst...)
	switch len(out) {
	case 0:
		return out
	case 1:
		out[0] += byte(offset)
		return out
	}
	n := len(out)
	v := uint32(out[n-2])<<8 | uint32(out[n-1])
	v += offset
	out[n-2] = byte(v >> 8)
	out[n-1] = byte(v)
	return out
}

// utf16Text converts a bfchar/bfrange destination into text. One-byte
// destinations are taken as Latin-1.
func utf16Text(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	return DecodeUTF16BE(b)
}
