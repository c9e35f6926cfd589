package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/data/redisStore"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// RedisJobQueue is a FIFO on the rag_jobs list: producers LPUSH, the worker BRPOPs.
type RedisJobQueue struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisJobQueue(s *redisStore.Store) *RedisJobQueue {
	return &RedisJobQueue{
		store:  s,
		logger: logger_i.NewLogger("JobQueue"),
	}
}

func (q *RedisJobQueue) Enqueue(ctx context.Context, job jobModel.IngestionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := q.store.ListPush(ctx, config.RedisJobQueueKey, data); err != nil {
		return fmt.Errorf("enqueue job %s: %w", job.DocId, err)
	}
	q.logger.WithTrace(ctx).Debug("Job queued", "docId", job.DocId)
	return nil
}

func (q *RedisJobQueue) Dequeue(ctx context.Context, timeout time.Duration) (jobModel.IngestionJob, bool, error) {
	var job jobModel.IngestionJob
	raw, ok, err := q.store.ListBlockingPop(ctx, config.RedisJobQueueKey, timeout)
	if err != nil || !ok {
		return job, false, err
	}
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return job, false, fmt.Errorf("malformed job message %q: %w", raw, err)
	}
	return job, true, nil
}
