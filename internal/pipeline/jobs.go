package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusDecoding  JobStatus = "decoding"
	StatusAnalyzing JobStatus = "analyzing"
	StatusIndexing  JobStatus = "indexing"
	StatusStoring   JobStatus = "storing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Upload is one uploaded document of a job.
type Upload struct {
	Filename string
	Title    string
	Data     []byte
}

// Job tracks the state of a single analysis request.
type Job struct {
	mu sync.Mutex

	ID          string `json:"job_id"`
	Persona     string `json:"persona"`
	JobToBeDone string `json:"job_to_be_done"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	uploads []Upload
	errors  []string
}

// Progress tracks processing progress.
type Progress struct {
	DocumentsTotal   int      `json:"documents_total"`
	DocumentsDecoded int      `json:"documents_decoded"`
	DocumentsFailed  int      `json:"documents_failed"`
	SectionsRanked   int      `json:"sections_ranked"`
	Errors           []string `json:"errors"`
}

// NewJob creates a queued job with a fresh id.
func NewJob(persona, jobToBeDone string, uploads []Upload) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Persona:     persona,
		JobToBeDone: jobToBeDone,
		Status:      StatusQueued,
		Phase:       "queued",
		Progress:    Progress{DocumentsTotal: len(uploads)},
		CreatedAt:   now,
		UpdatedAt:   now,
		uploads:     uploads,
	}
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

// Cleanup removes expired jobs and returns their ids.
func (s *JobStore) Cleanup() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var removed []string
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
			removed = append(removed, id)
		}
	}
	return removed
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

// RecordDecode counts one decoded or failed document.
func (j *Job) RecordDecode(ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if ok {
		j.Progress.DocumentsDecoded++
	} else {
		j.Progress.DocumentsFailed++
	}
	j.UpdatedAt = time.Now()
}

// SetSectionsRanked records how many sections were scored and ranked.
func (j *Job) SetSectionsRanked(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsRanked = n
	j.UpdatedAt = time.Now()
}

// Uploads returns the uploaded documents.
func (j *Job) Uploads() []Upload {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.uploads
}

// ReleaseUploads drops the raw upload bytes once they are decoded.
func (j *Job) ReleaseUploads() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.uploads = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Persona     string    `json:"persona"`
	JobToBeDone string    `json:"job_to_be_done"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:          j.ID,
		Persona:     j.Persona,
		JobToBeDone: j.JobToBeDone,
		Status:      j.Status,
		Phase:       j.Phase,
		Progress:    p,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// Done reports whether the job reached a terminal status.
func (s JobSnapshot) Done() bool {
	switch s.Status {
	case StatusCompleted, StatusPartial, StatusFailed:
		return true
	}
	return false
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
