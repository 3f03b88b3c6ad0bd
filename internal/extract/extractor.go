package extract

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docprep/internal/convert"
	"github.com/dgallion1/docprep/internal/scanner"
)

// ContentTypeMarkdown is the only canonical content type the pipeline
// produces; every converter emits markdown-shaped text.
const ContentTypeMarkdown = "markdown"

// ContentRecord is the canonical result of one successful extraction.
// Immutable after creation.
type ContentRecord struct {
	Path             string `json:"file_path"`
	Text             string `json:"content_text"`
	ContentType      string `json:"content_type"`
	ExtractionMethod string `json:"extraction_method"`
	ContentLength    int    `json:"content_length"` // rune count of Text
	Language         string `json:"language"`
	Encoding         string `json:"encoding"`
	Title            string `json:"title,omitempty"`
}

// Extractor normalizes raw files into ContentRecords through an injected
// converter, recording every attempt in the shared stats tracker.
type Extractor struct {
	converter convert.Converter
	filter    FilterConfig
	stats     *Stats
	log       *slog.Logger
}

func NewExtractor(c convert.Converter, filter FilterConfig, stats *Stats, log *slog.Logger) *Extractor {
	if stats == nil {
		stats = NewStats()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{converter: c, filter: filter, stats: stats, log: log}
}

// ShouldExtract applies the eligibility rules with this extractor's config.
func (e *Extractor) ShouldExtract(meta scanner.FileMetadata) bool {
	return ShouldExtract(meta, e.filter)
}

// Stats returns the shared stats tracker.
func (e *Extractor) Stats() *Stats { return e.stats }

// Extract converts one file into a ContentRecord. Failures come back as
// *Error with a Reason; they are counted here and must not abort the batch.
func (e *Extractor) Extract(ctx context.Context, path string) (*ContentRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.stats.RecordFailure()
			return nil, &Error{Path: path, Reason: ReasonNotFound, Err: err}
		}
		e.stats.RecordFailure()
		return nil, &Error{Path: path, Reason: ReasonConversionFailure, Err: err}
	}

	// Eligibility is normally decided upstream from scan metadata; re-check
	// here so a direct call can't push an oversized or excluded file into
	// an expensive decode.
	meta := scanner.FileMetadata{
		Path:        path,
		Extension:   strings.ToLower(filepath.Ext(path)),
		IsDirectory: info.IsDir(),
		Size:        info.Size(),
	}
	if !ShouldExtract(meta, e.filter) {
		return nil, &Error{Path: path, Reason: ReasonIneligible}
	}

	res, err := e.converter.Convert(ctx, path)
	if err != nil {
		e.stats.RecordFailure()
		return nil, &Error{Path: path, Reason: ReasonConversionFailure, Err: err}
	}
	if res == nil || strings.TrimSpace(res.Text) == "" {
		e.stats.RecordFailure()
		return nil, &Error{Path: path, Reason: ReasonEmptyContent}
	}

	rec := &ContentRecord{
		Path:             path,
		Text:             res.Text,
		ContentType:      ContentTypeMarkdown,
		ExtractionMethod: res.Method,
		ContentLength:    utf8.RuneCountInString(res.Text),
		Language:         DetectLanguage(res.Text),
		Encoding:         "utf-8",
		Title:            res.Title,
	}

	e.stats.RecordSuccess(rec.ContentLength)
	e.log.Debug("extracted content", "path", path, "length", rec.ContentLength, "method", rec.ExtractionMethod)
	return rec, nil
}
