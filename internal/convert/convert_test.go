package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertMarkdown_PassthroughAndTitle(t *testing.T) {
	src := "# Quarterly Report\n\nRevenue grew.\n\n## Details\n\nMore text.\n"
	path := writeTemp(t, "report.md", src)

	res, err := NewDispatcher(false).Convert(context.Background(), path)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if res.Text != src {
		t.Errorf("markdown should pass through unchanged, got %q", res.Text)
	}
	if res.Title != "Quarterly Report" {
		t.Errorf("expected title from first H1, got %q", res.Title)
	}
	if res.Method != "goldmark" {
		t.Errorf("unexpected method %q", res.Method)
	}
}

func TestConvertMarkdown_TitleFallsBackToFilename(t *testing.T) {
	path := writeTemp(t, "notes.md", "no headings here, just prose\n")

	res, err := NewDispatcher(false).Convert(context.Background(), path)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if res.Title != "notes" {
		t.Errorf("expected filename title, got %q", res.Title)
	}
}

func TestConvertMarkdown_PrefersH1OverEarlierH2(t *testing.T) {
	src := "## Sub Section\n\ntext\n\n# Real Title\n\nmore\n"
	path := writeTemp(t, "doc.md", src)

	res, err := NewDispatcher(false).Convert(context.Background(), path)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if res.Title != "Real Title" {
		t.Errorf("expected H1 to win, got %q", res.Title)
	}
}

func TestConvertText_NormalizesNewlines(t *testing.T) {
	path := writeTemp(t, "log.txt", "line one\r\nline two\rline three")

	res, err := NewDispatcher(false).Convert(context.Background(), path)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if strings.Contains(res.Text, "\r") {
		t.Errorf("expected normalized newlines, got %q", res.Text)
	}
	if res.Title != "log" {
		t.Errorf("expected title 'log', got %q", res.Title)
	}
}

func TestConvertCSV_ProducesPipeTable(t *testing.T) {
	path := writeTemp(t, "people.csv", "name,role\nada,engineer\ngrace,admiral\n")

	res, err := NewDispatcher(false).Convert(context.Background(), path)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(res.Text, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 table lines, got %d: %q", len(lines), res.Text)
	}
	if lines[0] != "| name | role |" {
		t.Errorf("unexpected header row %q", lines[0])
	}
	if lines[1] != "| --- | --- |" {
		t.Errorf("unexpected separator row %q", lines[1])
	}
	if !strings.Contains(lines[2], "ada") || !strings.Contains(lines[3], "grace") {
		t.Errorf("data rows missing: %q", res.Text)
	}
}

func TestConvertHTML_HeadingsAndLists(t *testing.T) {
	src := `<html><head><title>Handbook</title></head><body>
<h1>Welcome</h1>
<p>Intro paragraph.</p>
<h2>Rules</h2>
<ul><li>be kind</li><li>be prompt</li></ul>
<script>ignore()</script>
</body></html>`
	path := writeTemp(t, "handbook.html", src)

	res, err := NewDispatcher(false).Convert(context.Background(), path)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if res.Title != "Handbook" {
		t.Errorf("expected title from <title>, got %q", res.Title)
	}
	for _, want := range []string{"# Welcome", "## Rules", "- be kind", "- be prompt", "Intro paragraph."} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, res.Text)
		}
	}
	if strings.Contains(res.Text, "ignore()") {
		t.Errorf("script content leaked into output:\n%s", res.Text)
	}
}

func TestConvert_UnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "scan.tiff", "not really an image")

	_, err := NewDispatcher(false).Convert(context.Background(), path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestConvert_MissingFile(t *testing.T) {
	_, err := NewDispatcher(false).Convert(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
