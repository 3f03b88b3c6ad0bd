package extract

import (
	"strings"

	"github.com/dgallion1/docprep/internal/scanner"
)

// SupportedExtensions lists file types the conversion layer accepts.
// Image and legacy office formats are admitted even though this build has
// no decoder for them; conversion reports the failure and the pipeline
// moves on.
var SupportedExtensions = map[string]bool{
	".md": true, ".markdown": true,
	".txt": true, ".json": true, ".csv": true,
	".html": true, ".htm": true,
	".pdf":  true,
	".doc":  true, ".docx": true,
	".ppt":  true, ".pptx": true,
	".xls":  true, ".xlsx": true,
	".jpg":  true, ".jpeg": true,
	".png":  true, ".gif": true, ".bmp": true, ".tiff": true,
}

// FilterConfig bounds which files are sent to extraction.
type FilterConfig struct {
	// MaxFileSize in bytes; files above it are skipped before any
	// conversion work.
	MaxFileSize int64
	// ExcludedExtensions names transient-artifact extensions that are
	// never extracted, even if a decoder nominally exists.
	ExcludedExtensions map[string]bool
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MaxFileSize:        20 * 1024 * 1024,
		ExcludedExtensions: map[string]bool{".log": true, ".tmp": true, ".cache": true},
	}
}

// ShouldExtract decides from metadata alone whether a file goes to
// conversion. Pure predicate; rules apply in order, first match decides.
func ShouldExtract(meta scanner.FileMetadata, cfg FilterConfig) bool {
	if meta.IsDirectory {
		return false
	}
	ext := strings.ToLower(meta.Extension)
	if !SupportedExtensions[ext] {
		return false
	}
	if cfg.MaxFileSize > 0 && meta.Size > cfg.MaxFileSize {
		return false
	}
	if cfg.ExcludedExtensions[ext] {
		return false
	}
	return true
}
