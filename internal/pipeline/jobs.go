package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a scan job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusScanning   JobStatus = "scanning"
	StatusExtracting JobStatus = "extracting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single directory scan.
type Job struct {
	mu sync.Mutex

	ID   string `json:"job_id"`
	Root string `json:"root"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	errors []string
}

// Progress tracks per-file processing counters.
type Progress struct {
	FilesSeen     int      `json:"files_seen"`
	FilesStored   int      `json:"files_stored"`
	FilesSkipped  int      `json:"files_skipped"`
	FilesFailed   int      `json:"files_failed"`
	ChunksCreated int      `json:"chunks_created"`
	Errors        []string `json:"errors"`
}

// NewJob creates a queued job for the given scan root.
func NewJob(root string) *Job {
	now := time.Now()
	return &Job{
		ID:        newJobID(root, now),
		Root:      root,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newJobID derives a short stable identifier from the scan root and start
// time, so repeated scans of the same tree get distinct IDs.
func newJobID(root string, at time.Time) string {
	h := ContentHashHex([]byte(root + "|" + at.Format(time.RFC3339Nano)))
	return h[:16]
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrSeen atomically increments the seen-file counter.
func (j *Job) IncrSeen() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesSeen++
	j.UpdatedAt = time.Now()
}

// RecordStored records a successfully stored document and its chunk count.
func (j *Job) RecordStored(chunks int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesStored++
	j.Progress.ChunksCreated += chunks
	j.UpdatedAt = time.Now()
}

// RecordSkipped records a file that was ineligible for extraction.
func (j *Job) RecordSkipped() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesSkipped++
	j.UpdatedAt = time.Now()
}

// RecordFailed records a file whose processing failed.
func (j *Job) RecordFailed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesFailed++
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Root     string    `json:"root"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		Root:   j.Root,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			FilesSeen:     j.Progress.FilesSeen,
			FilesStored:   j.Progress.FilesStored,
			FilesSkipped:  j.Progress.FilesSkipped,
			FilesFailed:   j.Progress.FilesFailed,
			ChunksCreated: j.Progress.ChunksCreated,
			Errors:        errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
