package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docprep/internal/chunker"
	"github.com/dgallion1/docprep/internal/extract"
	"github.com/dgallion1/docprep/internal/scanner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return s
}

func sampleMeta(path string) scanner.FileMetadata {
	return scanner.FileMetadata{
		Path:      path,
		Name:      filepath.Base(path),
		Extension: filepath.Ext(path),
		ParentDir: filepath.Dir(path),
		RelPath:   filepath.Base(path),
		Size:      1234,
		Hash:      "abc123",
		ModTime:   time.Now(),
		Depth:     1,
	}
}

func TestUpsertFileMetadata_InsertThenUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	meta := sampleMeta("/corpus/a.md")
	id1, err := s.UpsertFileMetadata(ctx, meta)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	meta.Size = 9999
	id2, err := s.UpsertFileMetadata(ctx, meta)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if id1 != id2 {
		t.Errorf("upsert should keep the same id, got %d then %d", id1, id2)
	}
}

func TestSaveDocument_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	fileID, err := s.UpsertFileMetadata(ctx, sampleMeta("/corpus/report.md"))
	if err != nil {
		t.Fatal(err)
	}

	rec := &extract.ContentRecord{
		Path:             "/corpus/report.md",
		Text:             "# Report\n\nBody.\n",
		ContentType:      extract.ContentTypeMarkdown,
		ExtractionMethod: "goldmark",
		ContentLength:    16,
		Language:         "en",
		Encoding:         "utf-8",
		Title:            "Report",
	}
	chunks := []chunker.Chunk{
		{Content: "# Report\n\nBody.\n", Index: 0, CharStart: 0, CharEnd: 16, Context: []string{"Report"}},
	}

	docID, err := s.SaveDocument(ctx, fileID, rec, chunks)
	if err != nil {
		t.Fatalf("save document: %v", err)
	}

	stored, err := s.ChunksForDocument(ctx, docID)
	if err != nil {
		t.Fatalf("read chunks: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(stored))
	}
	c := stored[0]
	if c.Text != chunks[0].Content || c.StartPosition != 0 || c.EndPosition != 16 {
		t.Errorf("chunk mismatch: %+v", c)
	}
	if c.HeaderContext != "Report" {
		t.Errorf("expected header context 'Report', got %q", c.HeaderContext)
	}

	docs, err := s.ListDocuments(ctx, 10)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Title != "Report" || docs[0].ChunkCount != 1 || docs[0].Language != "en" {
		t.Errorf("unexpected listing: %+v", docs[0])
	}
}

func TestSaveDocument_ReplacesEarlierExtraction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	fileID, err := s.UpsertFileMetadata(ctx, sampleMeta("/corpus/doc.txt"))
	if err != nil {
		t.Fatal(err)
	}

	rec := &extract.ContentRecord{Text: "v1", ContentType: "markdown", Encoding: "utf-8", ContentLength: 2}
	if _, err := s.SaveDocument(ctx, fileID, rec, []chunker.Chunk{{Content: "v1", CharEnd: 2}}); err != nil {
		t.Fatal(err)
	}

	rec2 := &extract.ContentRecord{Text: "v2 longer", ContentType: "markdown", Encoding: "utf-8", ContentLength: 9}
	docID, err := s.SaveDocument(ctx, fileID, rec2, []chunker.Chunk{{Content: "v2 longer", CharEnd: 9}})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := s.ListDocuments(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("re-extraction must replace, not duplicate: got %d rows", len(docs))
	}

	chunks, err := s.ChunksForDocument(ctx, docID)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0].Text != "v2 longer" {
		t.Errorf("expected replacement chunks, got %+v", chunks)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.StartSession(ctx, "sess-1", "/corpus"); err != nil {
		t.Fatalf("start session: %v", err)
	}
	err := s.FinishSession(ctx, "sess-1", SessionSummary{
		Status:                "completed",
		TotalFiles:            10,
		TotalDirectories:      2,
		TotalSize:             4096,
		ContentFilesProcessed: 8,
		ChunksCreated:         40,
	})
	if err != nil {
		t.Fatalf("finish session: %v", err)
	}
}

func TestClearAndDrop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertFileMetadata(ctx, sampleMeta("/corpus/x.md")); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	docs, err := s.ListDocuments(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("expected empty store after clear, got %d docs", len(docs))
	}

	if err := s.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	// Schema can be recreated after a drop.
	if err := s.Init(); err != nil {
		t.Fatalf("re-init after drop: %v", err)
	}
}
