// Package format identifies input documents by name and content.
package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// headerWindow is how far into a file a PDF header may start. Readers
// accept up to 1024 bytes of leading junk.
const headerWindow = 1024

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PostScript indicates a PostScript or EPS file, a common mix-up with PDF.
	PostScript
	// ZIP indicates a ZIP container such as DOCX, XLSX or ODT.
	ZIP
	// HTML indicates an HTML document.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PostScript:
		return "PostScript"
	case ZIP:
		return "ZIP"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case PostScript:
		return ".ps"
	case ZIP:
		return ".zip"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// Detect determines file format from filename extension, ignoring case.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".ps", ".eps":
		return PostScript
	case ".zip", ".docx", ".xlsx", ".pptx", ".odt":
		return ZIP
	case ".html", ".htm":
		return HTML
	default:
		return Unknown
	}
}

// DetectFromMagic checks the leading bytes of a file. A PDF header may
// follow up to 1024 bytes of junk; the other signatures must come first.
func DetectFromMagic(data []byte) Format {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	if bytes.Contains(window, []byte("%PDF")) {
		return PDF
	}

	switch {
	case bytes.HasPrefix(data, []byte("%!PS")):
		return PostScript
	case bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}):
		return ZIP
	case detectHTMLMagic(data):
		return HTML
	}
	return Unknown
}

// DetectFromReader reads the first bytes of r and calls DetectFromMagic.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, headerWindow)
	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// DetectFile opens path and detects its format from content.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return DetectFromReader(f)
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) > 512 {
		data = data[:512]
	}
	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XHTML behind an XML declaration
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}
