package extract

import (
	"testing"

	"github.com/dgallion1/docprep/internal/scanner"
)

func TestShouldExtract_DirectoriesAlwaysIneligible(t *testing.T) {
	cfg := DefaultFilterConfig()
	metas := []scanner.FileMetadata{
		{Path: "/data", IsDirectory: true},
		{Path: "/data/report.pdf", Extension: ".pdf", IsDirectory: true, Size: 100},
		{Path: "/data/notes.md", Extension: ".md", IsDirectory: true},
	}
	for _, m := range metas {
		if ShouldExtract(m, cfg) {
			t.Errorf("directory %q should not be extracted", m.Path)
		}
	}
}

func TestShouldExtract_UnsupportedExtensions(t *testing.T) {
	cfg := DefaultFilterConfig()
	for _, ext := range []string{".exe", ".zip", ".mp4", ".so", ""} {
		m := scanner.FileMetadata{Path: "f" + ext, Extension: ext, Size: 10}
		if ShouldExtract(m, cfg) {
			t.Errorf("extension %q should not be extracted", ext)
		}
	}
}

func TestShouldExtract_CaseInsensitiveExtensions(t *testing.T) {
	cfg := DefaultFilterConfig()
	m := scanner.FileMetadata{Path: "REPORT.PDF", Extension: ".PDF", Size: 10}
	if !ShouldExtract(m, cfg) {
		t.Error("uppercase .PDF should be eligible")
	}
}

func TestShouldExtract_OversizedFiles(t *testing.T) {
	cfg := DefaultFilterConfig()
	m := scanner.FileMetadata{Path: "big.pdf", Extension: ".pdf", Size: cfg.MaxFileSize + 1}
	if ShouldExtract(m, cfg) {
		t.Error("file above MaxFileSize should not be extracted")
	}

	m.Size = cfg.MaxFileSize
	if !ShouldExtract(m, cfg) {
		t.Error("file at MaxFileSize should be extracted")
	}
}

func TestShouldExtract_ExcludedOverridesSupport(t *testing.T) {
	cfg := DefaultFilterConfig()
	// .tmp is in the excluded set; even if someone adds it to the supported
	// set it must stay out.
	SupportedExtensions[".tmp"] = true
	defer delete(SupportedExtensions, ".tmp")

	m := scanner.FileMetadata{Path: "scratch.tmp", Extension: ".tmp", Size: 10}
	if ShouldExtract(m, cfg) {
		t.Error(".tmp should be excluded even when nominally supported")
	}
}

func TestShouldExtract_EligibleFile(t *testing.T) {
	cfg := DefaultFilterConfig()
	m := scanner.FileMetadata{Path: "doc/readme.md", Extension: ".md", Size: 2048}
	if !ShouldExtract(m, cfg) {
		t.Error("ordinary markdown file should be eligible")
	}
}
