package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Params represents decode parameters from PDF stream dictionaries.
// Common parameters include Predictor, Columns, Colors, and BitsPerComponent.
type Params map[string]interface{}

// FlateDecode decompresses Flate (zlib/deflate) compressed data and applies
// the predictor named in params, if any.
//
// Truncated streams are common in damaged files; whatever was inflated
// before the stream ended is returned instead of an error.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	out, err := inflate(data)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return Unpredict(out, params)
}

// Unpredict reverses the predictor named in params on data that
// has already been decompressed. LZW streams use the same parameters.
func Unpredict(data []byte, params Params) ([]byte, error) {
	predictor := getIntParam(params, "Predictor", 1)
	if predictor == 1 {
		return data, nil
	}
	out, err := unpredict(data, predictor, params)
	if err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}
	return out, nil
}

// FlateEncode compresses data with zlib at the default compression level.
func FlateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish compression: %w", err)
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, zr)
	if err != nil {
		if buf.Len() > 0 && (errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum)) {
			return buf.Bytes(), nil
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// unpredict reverses TIFF Predictor 2 or the PNG predictors (10-15).
func unpredict(data []byte, predictor int, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)
	if columns < 1 || colors < 1 {
		return nil, fmt.Errorf("invalid predictor geometry: columns=%d colors=%d", columns, colors)
	}

	switch {
	case predictor == 2:
		if bpc != 8 {
			return nil, fmt.Errorf("TIFF predictor supports 8 bits per component, got %d", bpc)
		}
		return tiffUnpredict(data, columns, colors), nil
	case predictor >= 10 && predictor <= 15:
		switch bpc {
		case 1, 2, 4, 8, 16:
		default:
			return nil, fmt.Errorf("unsupported bits per component for PNG predictor: %d", bpc)
		}
		return pngUnpredict(data, columns, colors, bpc)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

func tiffUnpredict(data []byte, columns, colors int) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	row := columns * colors
	for start := 0; start < len(out); start += row {
		end := start + row
		if end > len(out) {
			end = len(out)
		}
		for i := start + colors; i < end; i++ {
			out[i] += out[i-colors]
		}
	}
	return out
}

// pngUnpredict decodes rows that each start with a PNG filter-type byte.
// A short trailing row is decoded as far as it goes.
func pngUnpredict(data []byte, columns, colors, bpc int) ([]byte, error) {
	bpp := (colors*bpc + 7) / 8
	rowLen := (columns*colors*bpc + 7) / 8

	out := make([]byte, 0, len(data))
	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)

	for pos := 0; pos < len(data); pos += rowLen + 1 {
		kind := data[pos]
		end := pos + 1 + rowLen
		if end > len(data) {
			end = len(data)
		}
		n := copy(cur, data[pos+1:end])
		for i := n; i < rowLen; i++ {
			cur[i] = 0
		}

		switch kind {
		case 0:
		case 1:
			for i := bpp; i < rowLen; i++ {
				cur[i] += cur[i-bpp]
			}
		case 2:
			for i := 0; i < rowLen; i++ {
				cur[i] += prev[i]
			}
		case 3:
			for i := 0; i < rowLen; i++ {
				var left byte
				if i >= bpp {
					left = cur[i-bpp]
				}
				cur[i] += byte((int(left) + int(prev[i])) / 2)
			}
		case 4:
			for i := 0; i < rowLen; i++ {
				var left, upLeft byte
				if i >= bpp {
					left = cur[i-bpp]
					upLeft = prev[i-bpp]
				}
				cur[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return nil, fmt.Errorf("unknown PNG filter type %d at offset %d", kind, pos)
		}

		out = append(out, cur[:n]...)
		prev, cur = cur, prev
	}
	return out, nil
}

// paeth selects the neighbour closest to left+up-upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

// getIntParam extracts an integer parameter from Params, returning def
// if the parameter is missing or not numeric.
func getIntParam(params Params, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

func getBoolParam(params Params, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
