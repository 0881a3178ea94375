package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/maazahmad/spendtrace/internal/jobs"
)

// Store is an in-memory JobStore, safe for concurrent use. It backs the
// diagnostics endpoint; nothing in the processing path depends on it.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.ProcessMessageJob
}

// NewStore creates a new in-memory job store.
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*jobs.ProcessMessageJob),
	}
}

// SaveJob implements the JobStore interface.
func (s *Store) SaveJob(ctx context.Context, job *jobs.ProcessMessageJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so callers cannot mutate stored state.
	jobCopy := *job
	s.jobs[job.JobID] = &jobCopy

	return nil
}

// GetJob implements the JobStore interface.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.ProcessMessageJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	jobCopy := *job
	return &jobCopy, nil
}

// ListJobs implements the JobStore interface.
func (s *Store) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.ProcessMessageJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*jobs.ProcessMessageJob

	for _, job := range s.jobs {
		if filter.From != "" && job.From != filter.From {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}

		jobCopy := *job
		result = append(result, &jobCopy)
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

var _ jobs.JobStore = (*Store)(nil)
