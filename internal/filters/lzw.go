package filters

import (
	"bytes"
	"compress/lzw"
	"errors"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// LZWDecode decodes PDF LZW data (MSB-first codes of 9 to 12 bits).
// EarlyChange defaults to 1, meaning the code width grows one code early,
// as in TIFF; 0 selects the GIF-style late change. Data that stops
// without an end-of-data code yields what was decoded so far.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	var r io.ReadCloser
	switch early := getIntParam(params, "EarlyChange", 1); early {
	case 1:
		r = tifflzw.NewReader(bytes.NewReader(data), tifflzw.MSB, 8)
	case 0:
		r = lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	default:
		return nil, fmt.Errorf("invalid LZW EarlyChange %d", early)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to decode LZW data: %w", err)
	}
	return out, nil
}
