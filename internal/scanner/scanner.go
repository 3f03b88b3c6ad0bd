package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileMetadata describes one filesystem entry seen during a scan.
// It is the read-only input to the extraction pipeline.
type FileMetadata struct {
	Path        string    `json:"file_path"`
	Name        string    `json:"file_name"`
	Extension   string    `json:"file_extension"` // lowercase, with leading dot; empty for directories
	ParentDir   string    `json:"parent_directory"`
	RelPath     string    `json:"relative_path"`
	IsDirectory bool      `json:"is_directory"`
	Size        int64     `json:"file_size"`
	Hash        string    `json:"file_hash,omitempty"` // SHA-256 hex, empty for directories and oversized files
	ModTime     time.Time `json:"modified_at"`
	Depth       int       `json:"depth_level"`
}

// Stats aggregates counters for a scan run.
type Stats struct {
	TotalFiles       int   `json:"total_files"`
	TotalDirectories int   `json:"total_directories"`
	TotalSize        int64 `json:"total_size"`
	ErrorsCount      int   `json:"errors_count"`
	ProcessedCount   int   `json:"processed_count"`
}

// Options configures a Scanner.
type Options struct {
	ExcludedExtensions  []string // lowercase, with leading dot
	ExcludedDirectories []string // base names, e.g. ".git"
	MaxHashSize         int64    // files larger than this are not hashed; 0 disables hashing
}

// DefaultOptions matches the corpus layout this service was built for.
func DefaultOptions() Options {
	return Options{
		ExcludedExtensions:  []string{".tmp", ".log", ".cache"},
		ExcludedDirectories: []string{"__pycache__", ".git", ".DS_Store", "node_modules"},
		MaxHashSize:         100 * 1024 * 1024,
	}
}

// Scanner walks a directory tree and emits FileMetadata for every entry
// that survives the skip rules.
type Scanner struct {
	excludedExts map[string]bool
	excludedDirs map[string]bool
	maxHashSize  int64
	log          *slog.Logger

	mu    sync.Mutex
	stats Stats
}

func New(opts Options, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	s := &Scanner{
		excludedExts: make(map[string]bool, len(opts.ExcludedExtensions)),
		excludedDirs: make(map[string]bool, len(opts.ExcludedDirectories)),
		maxHashSize:  opts.MaxHashSize,
		log:          log,
	}
	for _, e := range opts.ExcludedExtensions {
		s.excludedExts[strings.ToLower(e)] = true
	}
	for _, d := range opts.ExcludedDirectories {
		s.excludedDirs[d] = true
	}
	return s
}

// Scan walks root and calls fn for each surviving entry, in directory order.
// Unreadable entries are counted and skipped; only a bad root or a callback
// error stops the walk.
func (s *Scanner) Scan(ctx context.Context, root string, fn func(FileMetadata) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "scan", Path: root, Err: fs.ErrInvalid}
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			s.log.Warn("scan error", "path", path, "error", walkErr)
			s.recordError()
			return nil
		}
		if path != root && s.ShouldSkip(path, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		meta, err := s.describe(path, root, d)
		if err != nil {
			s.log.Warn("stat failed", "path", path, "error", err)
			s.recordError()
			return nil
		}
		return fn(meta)
	})
}

// ShouldSkip applies the exclusion rules: excluded extensions, excluded
// directory names, and hidden entries.
func (s *Scanner) ShouldSkip(path string, isDir bool) bool {
	name := filepath.Base(path)
	if !isDir && s.excludedExts[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	if s.excludedDirs[name] {
		return true
	}
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return false
}

func (s *Scanner) describe(path, root string, d fs.DirEntry) (FileMetadata, error) {
	info, err := d.Info()
	if err != nil {
		return FileMetadata{}, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	depth := 0
	if rel != "." {
		depth = strings.Count(rel, string(filepath.Separator)) + 1
	}

	meta := FileMetadata{
		Path:        path,
		Name:        filepath.Base(path),
		ParentDir:   filepath.Dir(path),
		RelPath:     rel,
		IsDirectory: info.IsDir(),
		ModTime:     info.ModTime(),
		Depth:       depth,
	}

	s.mu.Lock()
	s.stats.ProcessedCount++
	if meta.IsDirectory {
		s.stats.TotalDirectories++
	} else {
		s.stats.TotalFiles++
		s.stats.TotalSize += info.Size()
	}
	s.mu.Unlock()

	if !meta.IsDirectory {
		meta.Extension = strings.ToLower(filepath.Ext(path))
		meta.Size = info.Size()
		if s.maxHashSize > 0 && info.Size() <= s.maxHashSize {
			if h, err := hashFile(path); err == nil {
				meta.Hash = h
			} else {
				s.log.Warn("hash failed", "path", path, "error", err)
				s.recordError()
			}
		}
	}

	return meta, nil
}

func (s *Scanner) recordError() {
	s.mu.Lock()
	s.stats.ErrorsCount++
	s.mu.Unlock()
}

// Stats returns a copy of the accumulated scan counters.
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ResetStats zeroes the scan counters.
func (s *Scanner) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = Stats{}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
