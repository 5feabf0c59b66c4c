package assemble

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

// PDFCPU extracts page ranges with pdfcpu. It reads the source file again
// for every range.
type PDFCPU struct {
	input string
	conf  *model.Configuration
	log   logrus.FieldLogger
	pages int
}

var _ Assembler = (*PDFCPU)(nil)

// NewPDFCPU creates the pdfcpu backend for the file at input. Validation
// is relaxed so files other readers accept are not rejected.
func NewPDFCPU(input string, opts ...Option) (*PDFCPU, error) {
	o := newOptions(opts)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCountFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	return &PDFCPU{input: input, conf: conf, log: o.log, pages: n}, nil
}

// WritePages implements Assembler.
func (p *PDFCPU) WritePages(startPage, endPage int, outputPath string) error {
	start, end, ok := Clamp(startPage, endPage, p.pages)
	if !ok {
		return WriteBlank(outputPath)
	}

	selection := fmt.Sprintf("%d-%d", start+1, end+1)
	if err := api.TrimFile(p.input, outputPath, []string{selection}, p.conf); err != nil {
		return fmt.Errorf("failed to extract pages %s: %w", selection, err)
	}
	p.log.WithFields(logrus.Fields{"output": outputPath, "pages": selection}).Debug("wrote page range")
	return nil
}
