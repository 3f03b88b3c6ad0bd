package extract

import "sync"

// Snapshot is a point-in-time aggregate of extraction counters.
type Snapshot struct {
	FilesProcessed        int64   `json:"files_processed"`
	SuccessfulExtractions int64   `json:"successful_extractions"`
	FailedExtractions     int64   `json:"failed_extractions"`
	TotalContentLength    int64   `json:"total_content_length"`
	SuccessRate           float64 `json:"success_rate"`
	AverageContentLength  float64 `json:"average_content_length"`
}

// Stats tracks process-wide extraction counters. The extractor is the only
// writer; workers share one instance, so all mutation is mutex-guarded.
type Stats struct {
	mu             sync.Mutex
	filesProcessed int64
	successful     int64
	failed         int64
	totalLength    int64
}

func NewStats() *Stats {
	return &Stats{}
}

// RecordSuccess counts one successful extraction of contentLength characters.
func (s *Stats) RecordSuccess(contentLength int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesProcessed++
	s.successful++
	s.totalLength += int64(contentLength)
}

// RecordFailure counts one failed extraction attempt.
func (s *Stats) RecordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesProcessed++
	s.failed++
}

// Snapshot returns the counters plus derived rates. With no processed files
// the rates are zero, never NaN.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		FilesProcessed:        s.filesProcessed,
		SuccessfulExtractions: s.successful,
		FailedExtractions:     s.failed,
		TotalContentLength:    s.totalLength,
	}
	if s.filesProcessed > 0 {
		snap.SuccessRate = float64(s.successful) / float64(s.filesProcessed)
	}
	if s.successful > 0 {
		snap.AverageContentLength = float64(s.totalLength) / float64(s.successful)
	}
	return snap
}

// Reset zeroes all four base counters.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesProcessed = 0
	s.successful = 0
	s.failed = 0
	s.totalLength = 0
}
