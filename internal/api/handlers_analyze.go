package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgallion1/docsight/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleAnalyze queues a persona analysis over the uploaded files. Form
// fields: files (repeated), titles (optional, aligned with files), persona
// and job.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	role := strings.TrimSpace(r.FormValue("persona"))
	task := strings.TrimSpace(r.FormValue("job"))
	if role == "" || task == "" {
		jsonError(w, "persona and job are required", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	titles := r.MultipartForm.Value["titles"]

	uploads := make([]pipeline.Upload, 0, len(files))
	seen := make(map[string]bool, len(files))
	for i, fh := range files {
		filename, data, err := s.readUpload(fh)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		if seen[filename] {
			jsonError(w, fmt.Sprintf("duplicate filename: %s", filename), http.StatusBadRequest)
			return
		}
		seen[filename] = true

		u := pipeline.Upload{Filename: filename, Data: data}
		if i < len(titles) {
			u.Title = strings.TrimSpace(titles[i])
		}
		uploads = append(uploads, u)
	}

	job := pipeline.NewJob(role, task, uploads)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/analyze/%s/status", job.ID),
	})
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	}
	if snap.Done() && snap.Status != pipeline.StatusFailed {
		resp["result_url"] = fmt.Sprintf("/api/analyses/%s", snap.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}
