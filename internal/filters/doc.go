// Package filters implements the PDF stream filters needed to read page
// content, fonts, cross-reference streams and scanned page images.
//
// Decoders:
//
//	filters.FlateDecode(data, params)     // zlib with TIFF/PNG predictors (see Unpredict)
//	filters.LZWDecode(data, params)       // EarlyChange aware
//	filters.ASCIIHexDecode(data)
//	filters.ASCII85Decode(data)
//	filters.RunLengthDecode(data)
//	filters.CCITTFaxDecode(data, params)  // via golang.org/x/image/ccitt
//
// FlateEncode is the one encoder, used when writing new streams.
//
// Parameters come from the stream's /DecodeParms dictionary translated to
// Go values:
//
//	params := filters.Params{"Predictor": 12, "Columns": 5}
package filters
