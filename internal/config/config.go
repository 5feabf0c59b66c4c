// Package config reads pdfsegment settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tsawler/pdfsegment/ocr"
	"github.com/tsawler/pdfsegment/reader"
)

// Output backends accepted in PDFSEGMENT_BACKEND.
const (
	BackendNative = "native"
	BackendPDFCPU = "pdfcpu"
)

// Config holds the settings the command line tool starts from. Flags
// override them.
type Config struct {
	LogLevel         string  // PDFSEGMENT_LOG_LEVEL, a logrus level name
	Backend          string  // PDFSEGMENT_BACKEND
	Workers          int     // PDFSEGMENT_WORKERS
	OCR              bool    // PDFSEGMENT_OCR
	OCRLang          string  // PDFSEGMENT_OCR_LANG, Tesseract languages joined by "+"
	OCRPSM           int     // PDFSEGMENT_OCR_PSM, a Tesseract page segmentation mode
	OCRMinConfidence float64 // PDFSEGMENT_OCR_MIN_CONFIDENCE, 0-100
	Report           string  // PDFSEGMENT_REPORT

	// values that were set but did not parse
	parseErrs []error
}

// Load reads .env files (missing files are ignored) and then the
// environment. Values already set in the environment win. A value that
// does not parse leaves the default in place and is reported by Validate.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range envFiles {
			if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}

	c := &Config{
		LogLevel: getEnv("PDFSEGMENT_LOG_LEVEL", "info"),
		Backend:  strings.ToLower(getEnv("PDFSEGMENT_BACKEND", BackendNative)),
		OCRLang:  getEnv("PDFSEGMENT_OCR_LANG", "eng"),
		Report:   getEnv("PDFSEGMENT_REPORT", ""),
	}
	c.Workers = c.getEnvInt("PDFSEGMENT_WORKERS", 1)
	c.OCR = c.getEnvBool("PDFSEGMENT_OCR", false)
	c.OCRPSM = c.getEnvInt("PDFSEGMENT_OCR_PSM", int(ocr.PSM_AUTO))
	c.OCRMinConfidence = c.getEnvFloat("PDFSEGMENT_OCR_MIN_CONFIDENCE", reader.DefaultMinConfidence)
	return c, nil
}

// Validate reports every setting that did not parse, or else the first
// one out of range.
func (c *Config) Validate() error {
	if len(c.parseErrs) > 0 {
		return errors.Join(c.parseErrs...)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("PDFSEGMENT_LOG_LEVEL: %w", err)
	}
	switch c.Backend {
	case BackendNative, BackendPDFCPU:
	default:
		return fmt.Errorf("PDFSEGMENT_BACKEND must be %q or %q, got %q", BackendNative, BackendPDFCPU, c.Backend)
	}
	if c.Workers < 1 {
		return fmt.Errorf("PDFSEGMENT_WORKERS must be at least 1, got %d", c.Workers)
	}
	if !ocr.PageSegMode(c.OCRPSM).Valid() {
		return fmt.Errorf("PDFSEGMENT_OCR_PSM must be between %d and %d, got %d", ocr.PSM_OSD_ONLY, ocr.PSM_RAW_LINE, c.OCRPSM)
	}
	if c.OCRMinConfidence < 0 || c.OCRMinConfidence > 100 {
		return fmt.Errorf("PDFSEGMENT_OCR_MIN_CONFIDENCE must be between 0 and 100, got %g", c.OCRMinConfidence)
	}
	if c.Report != "" {
		switch strings.ToLower(filepath.Ext(c.Report)) {
		case ".json", ".html", ".htm":
		default:
			return fmt.Errorf("PDFSEGMENT_REPORT must end in .json or .html, got %q", c.Report)
		}
	}
	return nil
}

// Level returns the parsed log level, info if it does not parse.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return defaultValue
	}
	return intValue
}

func (c *Config) getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be a number, got %q", key, value))
		return defaultValue
	}
	return f
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s must be true or false, got %q", key, value))
		return defaultValue
	}
	return b
}
