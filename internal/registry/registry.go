// Package registry implements the in-process Job Registry of spec.md
// §4.10: a thread-safe map from job ID to ExportJob, created once per
// process and shared by every HTTP handler.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/23A91A0565/polystreamx/internal/apperr"
	"github.com/23A91A0565/polystreamx/internal/model"
)

// Registry holds every export job the process has accepted, keyed by its
// uuid v4 identifier. Jobs are never evicted — spec.md names no retention
// policy, and the process's own lifetime bounds memory growth.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*model.ExportJob
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{jobs: make(map[string]*model.ExportJob)}
}

// Create assigns a new uuid v4 to req, stores it in StatusPending, and
// returns the job.
func (r *Registry) Create(req model.ExportRequest) *model.ExportJob {
	job := &model.ExportJob{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    model.StatusPending,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return job
}

// Get returns the job with the given ID, or ErrJobNotFound.
func (r *Registry) Get(id string) (*model.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, apperr.ErrJobNotFound
	}
	return job, nil
}

// MarkInProgress transitions a job from pending to in_progress.
func (r *Registry) MarkInProgress(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Status = model.StatusInProgress
	}
}

// MarkCompleted transitions a job to completed and stamps CompletedAt.
func (r *Registry) MarkCompleted(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		now := time.Now()
		job.Status = model.StatusCompleted
		job.CompletedAt = &now
	}
}

// MarkFailed transitions a job to failed, recording the public error text.
func (r *Registry) MarkFailed(id string, errText string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		now := time.Now()
		job.Status = model.StatusFailed
		job.Error = errText
		job.CompletedAt = &now
	}
}
