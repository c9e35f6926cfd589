package store

import (
	"context"
	"time"

	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
)

// InMemoryJobQueue is the fallback queue when redis is unavailable. Jobs do not survive a restart.
type InMemoryJobQueue struct {
	jobs chan jobModel.IngestionJob
}

func NewInMemoryJobQueue(size int) *InMemoryJobQueue {
	return &InMemoryJobQueue{jobs: make(chan jobModel.IngestionJob, size)}
}

func (q *InMemoryJobQueue) Enqueue(ctx context.Context, job jobModel.IngestionJob) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InMemoryJobQueue) Dequeue(ctx context.Context, timeout time.Duration) (jobModel.IngestionJob, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case job := <-q.jobs:
		return job, true, nil
	case <-timer.C:
		return jobModel.IngestionJob{}, false, nil
	case <-ctx.Done():
		return jobModel.IngestionJob{}, false, ctx.Err()
	}
}
