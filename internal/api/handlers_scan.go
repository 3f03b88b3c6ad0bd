package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

type scanRequest struct {
	Root string `json:"root"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req scanRequest
	// An empty body means scan the configured target directory.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	root := req.Root
	if root == "" {
		root = s.cfg.TargetDirectory
	}
	if root == "" {
		jsonError(w, "root is required", http.StatusBadRequest)
		return
	}
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		jsonError(w, "root not accessible: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !info.IsDir() {
		jsonError(w, "root is not a directory", http.StatusBadRequest)
		return
	}

	job, err := s.orchestrator.Submit(root)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"root":     job.Root,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/scan/%s/status", job.ID),
	})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"root":     snap.Root,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
