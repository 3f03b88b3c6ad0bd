package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Storage
	DBPath string

	// Scanning
	TargetDirectory     string
	MaxHashSize         int64
	ExcludedExtensions  []string
	ExcludedDirectories []string

	// Extraction
	MaxFileSize          int64
	PDFFallbackPdftotext bool

	// Chunking
	ChunkSize    int
	ChunkOverlap int
	MinChunk     int

	// Pipeline
	WorkerCount  int
	MaxQueueSize int
	JobTTL       time.Duration
}

// Load builds the configuration from defaults, an optional YAML config file
// (DOCPREP_CONFIG or the path argument), then environment variables, in
// that order of increasing precedence.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Port:                 "8091",
		DBPath:               "docprep.db",
		MaxHashSize:          100 * 1024 * 1024,
		ExcludedExtensions:   []string{".tmp", ".log", ".cache"},
		ExcludedDirectories:  []string{"__pycache__", ".git", ".DS_Store", "node_modules"},
		MaxFileSize:          20 * 1024 * 1024,
		PDFFallbackPdftotext: true,
		ChunkSize:            800,
		ChunkOverlap:         50,
		MinChunk:             100,
		WorkerCount:          4,
		MaxQueueSize:         16,
		JobTTL:               time.Hour,
	}

	if configPath == "" {
		configPath = os.Getenv("DOCPREP_CONFIG")
	}
	if configPath != "" {
		if err := cfg.applyFile(configPath); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("DOCPREP_API_KEY", cfg.APIKey)
	cfg.DBPath = envOr("DOCPREP_DB", cfg.DBPath)
	cfg.TargetDirectory = envOr("DOCPREP_TARGET_DIR", cfg.TargetDirectory)
	cfg.MaxHashSize = envInt64("MAX_HASH_SIZE", cfg.MaxHashSize)
	cfg.MaxFileSize = envInt64("MAX_FILE_SIZE", cfg.MaxFileSize)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)
	cfg.ChunkSize = envInt("CHUNK_SIZE", cfg.ChunkSize)
	cfg.ChunkOverlap = envInt("CHUNK_OVERLAP", cfg.ChunkOverlap)
	cfg.MinChunk = envInt("MIN_CHUNK", cfg.MinChunk)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	cfg.heal()
	return cfg, nil
}

// heal clamps nonsensical values back to usable defaults rather than
// failing startup.
func (c *Config) heal() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 20 * 1024 * 1024
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 800
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = c.ChunkSize / 16
	}
	if c.MinChunk <= 0 {
		c.MinChunk = 100
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 16
	}
	if c.JobTTL <= 0 {
		c.JobTTL = time.Hour
	}
}

// Validate checks the settings a server cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCPREP_API_KEY is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DOCPREP_DB is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
