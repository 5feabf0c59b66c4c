package filters

import (
	"bytes"
	"encoding/ascii85"
	"testing"
)

func TestASCIIHexDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"basic", "48656C6C6F>", []byte("Hello")},
		{"whitespace", "48 65\n6c 6C\t6F>", []byte("Hello")},
		{"odd digits", "414>", []byte{0x41, 0x40}},
		{"no terminator", "4142", []byte("AB")},
		{"empty", ">", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCIIHexDecode([]byte(tt.input))
			if err != nil {
				t.Fatalf("ASCIIHexDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestASCIIHexDecodeInvalid(t *testing.T) {
	if _, err := ASCIIHexDecode([]byte("4G>")); err == nil {
		t.Error("expected error for invalid hex digit")
	}
}

func TestASCII85Decode(t *testing.T) {
	inputs := [][]byte{
		[]byte("Hello"),
		[]byte("Hello World"),
		[]byte("four"),
		{0, 0, 0, 0, 1},
		bytes.Repeat([]byte{0xff, 0x10, 0x00}, 33),
	}
	for _, in := range inputs {
		enc := make([]byte, ascii85.MaxEncodedLen(len(in)))
		n := ascii85.Encode(enc, in)
		encoded := append(enc[:n], '~', '>')

		got, err := ASCII85Decode(encoded)
		if err != nil {
			t.Fatalf("ASCII85Decode(%q) failed: %v", encoded, err)
		}
		if !bytes.Equal(got, in) {
			t.Errorf("expected %v, got %v", in, got)
		}
	}
}

func TestASCII85DecodeZeroAndWhitespace(t *testing.T) {
	got, err := ASCII85Decode([]byte(" z\n z ~>"))
	if err != nil {
		t.Fatalf("ASCII85Decode failed: %v", err)
	}
	if !bytes.Equal(got, make([]byte, 8)) {
		t.Errorf("expected 8 zero bytes, got %v", got)
	}
}

func TestASCII85DecodeInvalid(t *testing.T) {
	if _, err := ASCII85Decode([]byte("abc{~>")); err == nil {
		t.Error("expected error for character outside the alphabet")
	}
}

func TestIsWhitespace(t *testing.T) {
	for _, c := range []byte{' ', '\t', '\r', '\n', '\f', 0} {
		if !isWhitespace(c) {
			t.Errorf("expected %q to be whitespace", c)
		}
	}
	for _, c := range []byte{'a', '0', '>'} {
		if isWhitespace(c) {
			t.Errorf("expected %q not to be whitespace", c)
		}
	}
}
