// Package report renders a segmentation plan as JSON or HTML.
//
// The plan lists every text block, gap, chosen cut and resulting segment
// so a split can be checked without opening the output files. The final
// segment's open end is written as null in JSON and "end of document"
// in HTML.
package report
