//go:build !ocr

// Package ocr recognises words in page images so that scanned PDF pages
// can take part in segmentation.
//
// This build has no Tesseract binding: New fails with ErrOCRNotEnabled
// and pages without a text layer yield no glyphs. Build with -tags ocr
// (Tesseract and its headers must be installed) to enable recognition.
package ocr

// Client stands in for the Tesseract client. Its methods fail with
// ErrOCRNotEnabled.
type Client struct{}

var _ Recognizer = (*Client)(nil)

// New reports that OCR is not compiled in.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close does nothing. It is safe on a nil client.
func (c *Client) Close() error {
	return nil
}

func (c *Client) Recognize(imageData []byte) ([]Word, error) {
	return nil, ErrOCRNotEnabled
}

func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
