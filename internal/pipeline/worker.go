package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/dgallion1/docprep/internal/chunker"
	"github.com/dgallion1/docprep/internal/extract"
	"github.com/dgallion1/docprep/internal/scanner"
	"github.com/dgallion1/docprep/internal/store"
	"github.com/dgallion1/docprep/internal/structure"
)

// FileOutcome reports what happened to a single scanned file.
type FileOutcome int

const (
	OutcomeStored FileOutcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// Processor runs the per-file extraction pipeline: metadata upsert,
// eligibility check, content conversion, structure extraction, chunking,
// and persistence.
type Processor struct {
	extractor *extract.Extractor
	store     *store.Store
	chunkCfg  chunker.Config
	log       *slog.Logger
}

func NewProcessor(ex *extract.Extractor, st *store.Store, chunkCfg chunker.Config, log *slog.Logger) *Processor {
	return &Processor{
		extractor: ex,
		store:     st,
		chunkCfg:  chunkCfg,
		log:       log,
	}
}

// ProcessFile handles one scanned file end to end. Metadata is always
// persisted, even for files that are skipped or fail extraction. The
// returned chunk count is zero unless the outcome is OutcomeStored.
// Errors never abort a batch; callers record the outcome and move on.
func (p *Processor) ProcessFile(ctx context.Context, meta scanner.FileMetadata) (FileOutcome, int, error) {
	fileID, err := p.store.UpsertFileMetadata(ctx, meta)
	if err != nil {
		return OutcomeFailed, 0, fmt.Errorf("upsert metadata %s: %w", meta.Path, err)
	}

	if !p.extractor.ShouldExtract(meta) {
		return OutcomeSkipped, 0, nil
	}

	rec, err := p.extractor.Extract(ctx, meta.Path)
	if err != nil {
		if extract.ReasonOf(err) == extract.ReasonIneligible {
			return OutcomeSkipped, 0, nil
		}
		return OutcomeFailed, 0, err
	}

	cleaned := structure.Clean(rec.Text)
	rec.Text = cleaned
	rec.ContentLength = utf8.RuneCountInString(cleaned)
	docMeta := structure.Extract(cleaned)

	chunks := chunker.Segment(cleaned, docMeta, p.chunkCfg)
	if len(chunks) == 0 {
		p.log.Warn("no chunks produced", "path", meta.Path)
	}

	if _, err := p.store.SaveDocument(ctx, fileID, rec, chunks); err != nil {
		return OutcomeFailed, 0, fmt.Errorf("save document %s: %w", meta.Path, err)
	}

	p.log.Debug("stored document",
		"path", meta.Path,
		"language", rec.Language,
		"content_length", rec.ContentLength,
		"chunks", len(chunks))
	return OutcomeStored, len(chunks), nil
}
