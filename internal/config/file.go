package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with pointer fields so an absent key leaves
// the existing value alone.
type fileConfig struct {
	Port                 *string  `yaml:"port"`
	APIKey               *string  `yaml:"api_key"`
	DBPath               *string  `yaml:"db_path"`
	TargetDirectory      *string  `yaml:"target_directory"`
	MaxHashSize          *int64   `yaml:"max_hash_size"`
	ExcludedExtensions   []string `yaml:"excluded_extensions"`
	ExcludedDirectories  []string `yaml:"excluded_directories"`
	MaxFileSize          *int64   `yaml:"max_file_size"`
	PDFFallbackPdftotext *bool    `yaml:"pdf_fallback_pdftotext"`
	ChunkSize            *int     `yaml:"chunk_size"`
	ChunkOverlap         *int     `yaml:"chunk_overlap"`
	MinChunk             *int     `yaml:"min_chunk"`
	WorkerCount          *int     `yaml:"worker_count"`
	MaxQueueSize         *int     `yaml:"max_queue_size"`
	JobTTL               *string  `yaml:"job_ttl"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.APIKey != nil {
		c.APIKey = *fc.APIKey
	}
	if fc.DBPath != nil {
		c.DBPath = *fc.DBPath
	}
	if fc.TargetDirectory != nil {
		c.TargetDirectory = *fc.TargetDirectory
	}
	if fc.MaxHashSize != nil {
		c.MaxHashSize = *fc.MaxHashSize
	}
	if fc.ExcludedExtensions != nil {
		c.ExcludedExtensions = fc.ExcludedExtensions
	}
	if fc.ExcludedDirectories != nil {
		c.ExcludedDirectories = fc.ExcludedDirectories
	}
	if fc.MaxFileSize != nil {
		c.MaxFileSize = *fc.MaxFileSize
	}
	if fc.PDFFallbackPdftotext != nil {
		c.PDFFallbackPdftotext = *fc.PDFFallbackPdftotext
	}
	if fc.ChunkSize != nil {
		c.ChunkSize = *fc.ChunkSize
	}
	if fc.ChunkOverlap != nil {
		c.ChunkOverlap = *fc.ChunkOverlap
	}
	if fc.MinChunk != nil {
		c.MinChunk = *fc.MinChunk
	}
	if fc.WorkerCount != nil {
		c.WorkerCount = *fc.WorkerCount
	}
	if fc.MaxQueueSize != nil {
		c.MaxQueueSize = *fc.MaxQueueSize
	}
	if fc.JobTTL != nil {
		d, err := time.ParseDuration(*fc.JobTTL)
		if err != nil {
			return fmt.Errorf("parse config %s: job_ttl: %w", path, err)
		}
		c.JobTTL = d
	}
	return nil
}
