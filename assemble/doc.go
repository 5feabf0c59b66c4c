// Package assemble writes page ranges of a source PDF to new files.
//
// Two backends implement Assembler. Native copies page objects through
// core.Writer and needs nothing beyond this module; PDFCPU delegates to
// pdfcpu's trim command. Both clamp ranges to the document and write a
// single blank US Letter page when a range selects nothing.
//
// CopyWhole duplicates the source file byte for byte, which is how a
// document with no cut points is "segmented".
package assemble
