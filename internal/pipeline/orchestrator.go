package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docprep/internal/config"
	"github.com/dgallion1/docprep/internal/scanner"
	"github.com/dgallion1/docprep/internal/store"
)

// Orchestrator manages directory scan jobs. Each job walks one tree,
// fanning scanned files out to a bounded pool of processor workers.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	proc  *Processor
	store *store.Store
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; call Start to begin consuming jobs.
func NewOrchestrator(cfg config.Config, proc *Processor, st *store.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		proc:  proc,
		store: st,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches the job runner and the job store cleanup loop. Jobs run
// one at a time; the per-file worker pool inside each job provides the
// parallelism.
func (o *Orchestrator) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case job, ok := <-o.queue:
				if !ok {
					return
				}
				o.runJob(runCtx, job)
			}
		}
	}()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a scan of the given root.
func (o *Orchestrator) Submit(root string) (*Job, error) {
	job := NewJob(root)
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return job, nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return nil, fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// Run executes a scan of root synchronously and returns the finished job.
func (o *Orchestrator) Run(ctx context.Context, root string) *Job {
	job := NewJob(root)
	o.jobs.Put(job)
	o.runJob(ctx, job)
	return job
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Store returns the backing store for direct use by API handlers.
func (o *Orchestrator) Store() *store.Store {
	return o.store
}

func (o *Orchestrator) runJob(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID, "root", job.Root)
	job.SetStatus(StatusScanning, "scanning")

	if err := o.store.StartSession(ctx, job.ID, job.Root); err != nil {
		log.Error("start session failed", "error", err)
		job.AddError(fmt.Sprintf("session: %s", err))
		job.SetStatus(StatusFailed, "scanning")
		return
	}

	sc := scanner.New(scanner.Options{
		ExcludedExtensions:  o.cfg.ExcludedExtensions,
		ExcludedDirectories: o.cfg.ExcludedDirectories,
		MaxHashSize:         o.cfg.MaxHashSize,
	}, o.log)

	files := make(chan scanner.FileMetadata, o.cfg.WorkerCount)
	var workers sync.WaitGroup
	for range o.cfg.WorkerCount {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for meta := range files {
				outcome, chunks, err := o.proc.ProcessFile(ctx, meta)
				if meta.IsDirectory {
					continue
				}
				job.IncrSeen()
				switch outcome {
				case OutcomeStored:
					job.RecordStored(chunks)
				case OutcomeSkipped:
					job.RecordSkipped()
				case OutcomeFailed:
					log.Warn("file processing failed", "path", meta.Path, "error", err)
					job.AddError(fmt.Sprintf("%s: %s", meta.RelPath, err))
					job.RecordFailed()
				}
			}
		}()
	}

	job.SetStatus(StatusExtracting, "extracting")
	scanErr := sc.Scan(ctx, job.Root, func(meta scanner.FileMetadata) error {
		select {
		case files <- meta:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(files)
	workers.Wait()

	if scanErr != nil {
		log.Error("scan failed", "error", scanErr)
		job.AddError(fmt.Sprintf("scan: %s", scanErr))
	}

	snap := job.Snapshot()
	status := StatusCompleted
	switch {
	case scanErr != nil && snap.Progress.FilesStored == 0:
		status = StatusFailed
	case scanErr != nil || snap.Progress.FilesFailed > 0:
		status = StatusPartial
	}

	scanStats := sc.Stats()
	sum := store.SessionSummary{
		Status:                string(status),
		TotalFiles:            scanStats.TotalFiles,
		TotalDirectories:      scanStats.TotalDirectories,
		TotalSize:             scanStats.TotalSize,
		ErrorsCount:           scanStats.ErrorsCount + snap.Progress.FilesFailed,
		ContentFilesProcessed: snap.Progress.FilesStored,
		ChunksCreated:         snap.Progress.ChunksCreated,
	}
	if err := o.store.FinishSession(ctx, job.ID, sum); err != nil {
		log.Error("finish session failed", "error", err)
	}

	job.SetStatus(status, "done")
	log.Info("scan complete",
		"status", status,
		"files_seen", snap.Progress.FilesSeen,
		"stored", snap.Progress.FilesStored,
		"skipped", snap.Progress.FilesSkipped,
		"failed", snap.Progress.FilesFailed,
		"chunks", snap.Progress.ChunksCreated)
}
