package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docprep/internal/convert"
)

// stubConverter is the test implementation of the conversion collaborator.
type stubConverter struct {
	result *convert.Result
	err    error
}

func (s *stubConverter) Convert(ctx context.Context, path string) (*convert.Result, error) {
	return s.result, s.err
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_Success(t *testing.T) {
	path := writeTestFile(t, "doc.md", "raw bytes")
	conv := &stubConverter{result: &convert.Result{
		Text:   "# Title\n\nThe content of the document for the test.\n",
		Title:  "Title",
		Method: "stub",
	}}

	stats := NewStats()
	e := NewExtractor(conv, DefaultFilterConfig(), stats, nil)

	rec, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if rec.ContentType != ContentTypeMarkdown {
		t.Errorf("expected content type markdown, got %q", rec.ContentType)
	}
	if rec.ContentLength != len([]rune(conv.result.Text)) {
		t.Errorf("content length mismatch: %d", rec.ContentLength)
	}
	if rec.Language != LanguageEnglish {
		t.Errorf("expected language en, got %q", rec.Language)
	}
	if rec.Title != "Title" {
		t.Errorf("expected title copied from converter, got %q", rec.Title)
	}
	if rec.ExtractionMethod != "stub" {
		t.Errorf("expected extraction method stub, got %q", rec.ExtractionMethod)
	}

	snap := stats.Snapshot()
	if snap.FilesProcessed != 1 || snap.SuccessfulExtractions != 1 || snap.FailedExtractions != 0 {
		t.Errorf("unexpected stats: %+v", snap)
	}
	if snap.TotalContentLength != int64(rec.ContentLength) {
		t.Errorf("total content length not recorded: %+v", snap)
	}
}

func TestExtract_EmptyContentCountsAsFailure(t *testing.T) {
	path := writeTestFile(t, "doc.md", "raw")
	conv := &stubConverter{result: &convert.Result{Text: "   \n"}}

	stats := NewStats()
	e := NewExtractor(conv, DefaultFilterConfig(), stats, nil)

	_, err := e.Extract(context.Background(), path)
	if ReasonOf(err) != ReasonEmptyContent {
		t.Fatalf("expected empty_content, got %v", err)
	}

	snap := stats.Snapshot()
	if snap.FilesProcessed != 1 || snap.FailedExtractions != 1 {
		t.Errorf("failure not counted: %+v", snap)
	}
}

func TestExtract_ConversionFailure(t *testing.T) {
	path := writeTestFile(t, "doc.pdf", "raw")
	conv := &stubConverter{err: errors.New("decode blew up")}

	stats := NewStats()
	e := NewExtractor(conv, DefaultFilterConfig(), stats, nil)

	_, err := e.Extract(context.Background(), path)
	if ReasonOf(err) != ReasonConversionFailure {
		t.Fatalf("expected conversion_failure, got %v", err)
	}
	if snap := stats.Snapshot(); snap.FailedExtractions != 1 {
		t.Errorf("failure not counted: %+v", snap)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	stats := NewStats()
	e := NewExtractor(&stubConverter{}, DefaultFilterConfig(), stats, nil)

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "vanished.md"))
	if ReasonOf(err) != ReasonNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if snap := stats.Snapshot(); snap.FailedExtractions != 1 {
		t.Errorf("failure not counted: %+v", snap)
	}
}

func TestExtract_IneligibleIsNotAFailure(t *testing.T) {
	path := writeTestFile(t, "junk.exe", "binary")

	stats := NewStats()
	e := NewExtractor(&stubConverter{}, DefaultFilterConfig(), stats, nil)

	_, err := e.Extract(context.Background(), path)
	if ReasonOf(err) != ReasonIneligible {
		t.Fatalf("expected ineligible, got %v", err)
	}

	snap := stats.Snapshot()
	if snap.FilesProcessed != 0 || snap.FailedExtractions != 0 {
		t.Errorf("ineligible files must not touch the counters: %+v", snap)
	}
}
