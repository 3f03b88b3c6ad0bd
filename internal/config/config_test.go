package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8091" {
		t.Errorf("Port = %q, want 8091", cfg.Port)
	}
	if cfg.MaxFileSize != 20*1024*1024 {
		t.Errorf("MaxFileSize = %d", cfg.MaxFileSize)
	}
	if cfg.ChunkSize != 800 || cfg.ChunkOverlap != 50 || cfg.MinChunk != 100 {
		t.Errorf("chunk config = %d/%d/%d", cfg.ChunkSize, cfg.ChunkOverlap, cfg.MinChunk)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("JobTTL = %v", cfg.JobTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CHUNK_SIZE", "400")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("JOB_TTL", "30m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.ChunkSize != 400 {
		t.Errorf("ChunkSize = %d", cfg.ChunkSize)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("PDFFallbackPdftotext should be false")
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("JobTTL = %v", cfg.JobTTL)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docprep.yaml")
	body := `
db_path: /tmp/alt.db
chunk_size: 600
excluded_extensions: [".bak"]
job_ttl: 2h
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/alt.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ChunkSize != 600 {
		t.Errorf("ChunkSize = %d", cfg.ChunkSize)
	}
	if len(cfg.ExcludedExtensions) != 1 || cfg.ExcludedExtensions[0] != ".bak" {
		t.Errorf("ExcludedExtensions = %v", cfg.ExcludedExtensions)
	}
	if cfg.JobTTL != 2*time.Hour {
		t.Errorf("JobTTL = %v", cfg.JobTTL)
	}
	// untouched keys keep defaults
	if cfg.ChunkOverlap != 50 {
		t.Errorf("ChunkOverlap = %d", cfg.ChunkOverlap)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docprep.yaml")
	if err := os.WriteFile(path, []byte("port: \"7000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7001")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7001" {
		t.Errorf("Port = %q, want env to win", cfg.Port)
	}
}

func TestHealClampsBadValues(t *testing.T) {
	t.Setenv("CHUNK_OVERLAP", "900") // >= chunk size
	t.Setenv("WORKER_COUNT", "-2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		t.Errorf("overlap %d not clamped below chunk size %d", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.WorkerCount <= 0 {
		t.Errorf("WorkerCount = %d", cfg.WorkerCount)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{DBPath: "x.db"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without API key")
	}
	cfg.APIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
