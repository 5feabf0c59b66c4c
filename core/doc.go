// Package core provides low-level PDF parsing primitives and object types.
//
// This package implements the fundamental building blocks for working with PDF files,
// including all eight PDF object types (null, boolean, integer, real, string, name,
// array, and dictionary), as well as streams, indirect references, cross-reference
// tables, and object streams.
//
// # Object Types
//
// PDF defines eight basic object types, all implemented as types satisfying the
// Object interface:
//
//   - [Null] - represents the PDF null object
//   - [Bool] - represents PDF boolean values (true/false)
//   - [Int] - represents PDF integers
//   - [Real] - represents PDF real numbers (floating point)
//   - [String] - represents PDF string objects (literal or hexadecimal)
//   - [Name] - represents PDF name objects (e.g., /Type, /Font)
//   - [Array] - represents PDF arrays
//   - [Dict] - represents PDF dictionaries
//
// Additionally, [Stream] represents a PDF stream (dictionary + binary data),
// and [IndirectRef] represents a reference to an indirect object.
//
// # Parsing
//
// The [Parser] type parses PDF syntax from an in-memory file image. It can
// parse individual objects or complete indirect object definitions, and
// falls back to scanning for "endstream" when a stream's /Length is wrong.
//
// The [Lexer] type tokenizes the same input for the parser.
//
// # Cross-Reference Data
//
// The [XRefTable] type maps object numbers to file offsets or to slots in
// object streams. The [XRefParser] reads classic tables, cross-reference
// streams and hybrid files, follows /Prev chains, and can [XRefParser.Rebuild]
// the table by scanning a damaged file for object headers.
//
// # Object Streams
//
// The [ObjectStream] type (PDF 1.5+) extracts objects packed into a single
// compressed stream.
//
// # Stream Decoding
//
// [Stream.Decode] applies the stream's filter chain: FlateDecode and
// LZWDecode with predictors, ASCIIHexDecode, ASCII85Decode, RunLengthDecode
// and CCITTFaxDecode. Image codecs are passed through encoded.
//
// # Writing
//
// The [Writer] type serialises objects into a new file with a classic
// cross-reference table. It is used to assemble page ranges into new
// documents.
package core
