package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Result is the canonical output of a document conversion: markdown-shaped
// text plus whatever title metadata the format surfaced.
type Result struct {
	Text   string
	Title  string
	Method string // which decoder produced the text
}

// Converter turns a file on disk into canonical text. The pipeline depends
// on this interface so tests can inject a stub in place of real decoders.
type Converter interface {
	Convert(ctx context.Context, path string) (*Result, error)
}

// ErrUnsupportedFormat is returned for file types this build cannot decode
// (images, legacy office formats). The caller treats it like any other
// conversion failure.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Dispatcher routes files to a format-specific converter by extension.
type Dispatcher struct {
	// PDFFallbackPdftotext shells out to pdftotext when the Go PDF
	// library cannot extract text.
	PDFFallbackPdftotext bool
}

func NewDispatcher(pdfFallback bool) *Dispatcher {
	return &Dispatcher{PDFFallbackPdftotext: pdfFallback}
}

func (d *Dispatcher) Convert(ctx context.Context, path string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown":
		return convertMarkdown(path)
	case ".txt", ".json":
		return convertText(path)
	case ".csv":
		return convertCSV(path)
	case ".html", ".htm":
		return convertHTML(path)
	case ".pdf":
		return convertPDF(ctx, path, d.PDFFallbackPdftotext)
	case ".docx":
		return convertDOCX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// titleFromPath derives a fallback title from the file name.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
