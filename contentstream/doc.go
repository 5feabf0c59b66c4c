// Package contentstream parses PDF content streams into operations.
//
// A content stream is a postfix sequence of operands followed by an
// operator:
//
//	ops, err := contentstream.NewParser(data).Parse()
//	for _, op := range ops {
//	    fmt.Println(op.Operator, op.Operands)
//	}
//
// Tokenization is shared with the core package. Inline images
// (BI ... ID ... EI) are skipped and reported as a single BI operation
// whose operand is the image dictionary. Parse returns the operations
// read before a syntax error along with the error, so damaged streams
// still yield their leading text.
//
// The same syntax is used by ToUnicode CMaps, which the font package
// parses with this parser (begincodespacerange, beginbfchar and
// beginbfrange become operators).
package contentstream
