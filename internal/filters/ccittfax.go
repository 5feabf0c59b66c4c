package filters

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes CCITT Group 3/4 fax data, the usual encoding of
// scanned bi-level pages. The result has one bit per pixel, rows padded to a
// byte boundary, with 1 meaning white unless BlackIs1 is set.
//
// Parameters read from params:
//   - K: group selector (<0 Group 4, >=0 Group 3)
//   - Columns: width in pixels (default 1728)
//   - Rows: height in pixels (default 0, detected from the data)
//   - BlackIs1: inverts the bit sense
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1728)
	rows := getIntParam(params, "Rows", 0)
	if columns <= 0 {
		return nil, fmt.Errorf("invalid CCITT column count: %d", columns)
	}

	sf := ccitt.Group3
	if getIntParam(params, "K", 0) < 0 {
		sf = ccitt.Group4
	}
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}

	opts := &ccitt.Options{Invert: getBoolParam(params, "BlackIs1", false)}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts)
	return io.ReadAll(r)
}
