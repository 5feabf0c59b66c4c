// Command pdfsegment splits a PDF at its largest whitespace gaps.
//
// Usage:
//
//	pdfsegment [flags] <input.pdf> <num_cuts> [output_dir] [flags]
//
// Flags may come before or after the arguments; "--" ends them. Settings
// are read from the environment and an optional .env file
// (PDFSEGMENT_LOG_LEVEL, PDFSEGMENT_BACKEND, PDFSEGMENT_WORKERS,
// PDFSEGMENT_OCR, PDFSEGMENT_OCR_LANG, PDFSEGMENT_OCR_PSM,
// PDFSEGMENT_OCR_MIN_CONFIDENCE, PDFSEGMENT_REPORT); flags override them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/tsawler/pdfsegment"
	"github.com/tsawler/pdfsegment/internal/config"
	"github.com/tsawler/pdfsegment/ocr"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		return 1
	}

	fs := flag.NewFlagSet("pdfsegment", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stdout, fs) }
	backend := fs.String("backend", cfg.Backend, "output writer: native or pdfcpu")
	workers := fs.Int("workers", cfg.Workers, "pages analysed at once")
	useOCR := fs.Bool("ocr", cfg.OCR, "recognise image-only pages (needs an ocr build)")
	lang := fs.String("lang", cfg.OCRLang, "OCR language")
	psm := fs.Int("psm", cfg.OCRPSM, "Tesseract page segmentation mode (0-13)")
	minConf := fs.Float64("min-confidence", cfg.OCRMinConfidence, "drop OCR words below this confidence (0-100)")
	reportPath := fs.String("report", cfg.Report, "write the analysis to a .json or .html file")
	level := fs.String("log-level", cfg.LogLevel, "log level")
	rest, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg.Backend, cfg.Workers, cfg.OCR = *backend, *workers, *useOCR
	cfg.OCRLang, cfg.OCRPSM, cfg.OCRMinConfidence = *lang, *psm, *minConf
	cfg.Report, cfg.LogLevel = *reportPath, *level
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		return 1
	}

	if len(rest) < 2 || len(rest) > 3 {
		printUsage(stdout, fs)
		return 1
	}
	numCuts, err := strconv.Atoi(rest[1])
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Error: Number of cuts must be a valid integer"))
		return 1
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(cfg.Level())

	input := rest[0]
	outputDir := pdfsegment.DefaultOutputDir(input)
	if len(rest) == 3 {
		outputDir = rest[2]
	}

	splitter := pdfsegment.Open(input).
		Cuts(numCuts).
		OutputDir(outputDir).
		Backend(pdfsegment.Backend(cfg.Backend)).
		Workers(cfg.Workers).
		Report(cfg.Report).
		Logger(log)

	if cfg.OCR {
		client, err := ocr.New()
		if err != nil {
			log.WithError(err).Warn("OCR unavailable, continuing without it")
		} else {
			defer client.Close()
			if err := client.SetLanguage(cfg.OCRLang); err != nil {
				log.WithError(err).Warn("failed to set OCR language")
			}
			if err := client.SetPageSegMode(ocr.PageSegMode(cfg.OCRPSM)); err != nil {
				log.WithError(err).Warn("failed to set OCR page segmentation mode")
			}
			splitter = splitter.OCR(client).OCRMinConfidence(cfg.OCRMinConfidence)
		}
	}

	fmt.Fprintln(stdout, "Input PDF: "+absPath(input))
	fmt.Fprintf(stdout, "Number of cuts: %d\n", numCuts)
	fmt.Fprintln(stdout, "Output directory: "+absPath(outputDir))
	fmt.Fprintln(stdout)

	files, err := splitter.Split()
	if err != nil {
		msg := "Error processing PDF: " + err.Error()
		if errors.Is(err, pdfsegment.ErrValidation) {
			msg = "Invalid argument: " + err.Error()
		}
		fmt.Fprintln(stderr, errorStyle.Render(msg))
		return 1
	}

	fmt.Fprintln(stdout, titleStyle.Render(fmt.Sprintf("Successfully created %d segments:", len(files))))
	for _, f := range files {
		fmt.Fprintln(stdout, "  - "+pathStyle.Render(filepath.Base(f)))
	}
	return 0
}

// parseArgs parses flags wherever they appear and returns the positional
// arguments in order. Everything after "--" is positional, and so is a
// negative number so a bad cut count reaches validation.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		for len(args) > 0 && isNegativeNumber(args[0]) {
			positional = append(positional, args[0])
			args = args[1:]
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func isNegativeNumber(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, titleStyle.Render("PDF Content Segmenter"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: pdfsegment [flags] <input.pdf> <num_cuts> [output_dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input.pdf   - Path to the PDF file to segment")
	fmt.Fprintln(w, "  num_cuts    - Number of cuts to make (creates num_cuts + 1 segments)")
	fmt.Fprintln(w, "  output_dir  - (Optional) Output directory for segments")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags (before or after the arguments):")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Example:")
	fmt.Fprintln(w, "  pdfsegment document.pdf 3 ./output")
	fmt.Fprintln(w, "  pdfsegment document.pdf 3 -backend pdfcpu")
}
