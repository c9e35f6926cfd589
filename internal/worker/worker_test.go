package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/data/store"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
)

// MockIngestService counts the jobs it receives.
type MockIngestService struct {
	ProcessedCount int32
	OnIngest       func(ctx context.Context, job jobModel.IngestionJob) error
}

func (m *MockIngestService) Ingest(ctx context.Context, job jobModel.IngestionJob) error {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnIngest != nil {
		return m.OnIngest(ctx, job)
	}
	return nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWorkerPool_Flow(t *testing.T) {
	queue := store.NewInMemoryJobQueue(10)
	mockIngest := &MockIngestService{}
	pool := NewPool(queue, mockIngest)
	pool.Start(context.Background())

	t.Run("Starts minimum workers", func(t *testing.T) {
		if pool.WorkerCount() != config.MinWorkerCount {
			t.Errorf("Expected %d workers, got %d", config.MinWorkerCount, pool.WorkerCount())
		}
	})

	t.Run("Worker processes a queued job", func(t *testing.T) {
		_ = queue.Enqueue(context.Background(), jobModel.IngestionJob{DocId: "doc_1", FilePath: "a.pdf"})

		ok := waitFor(t, 3*time.Second, func() bool {
			return atomic.LoadInt32(&mockIngest.ProcessedCount) == 1
		})
		if !ok {
			t.Errorf("Expected 1 job processed, got %d", atomic.LoadInt32(&mockIngest.ProcessedCount))
		}
	})

	t.Run("Stop retires workers", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			pool.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Workers did not stop within timeout")
		}
		if pool.WorkerCount() != 0 {
			t.Errorf("Expected 0 workers after stop, got %d", pool.WorkerCount())
		}
	})
}

func TestWorker_TraceAndTimeout(t *testing.T) {
	var gotTrace atomic.Value
	mockIngest := &MockIngestService{OnIngest: func(ctx context.Context, job jobModel.IngestionJob) error {
		gotTrace.Store(ctx.Value(config.TRACE_ID_KEY))
		if _, ok := ctx.Deadline(); !ok {
			t.Error("job context must carry a deadline")
		}
		return nil
	}}
	pool := NewPool(store.NewInMemoryJobQueue(1), mockIngest)

	pool.executeJob(jobModel.IngestionJob{DocId: "doc_1", TraceId: "trace-1"})
	if gotTrace.Load() != "trace-1" {
		t.Errorf("expected queued trace id, got %v", gotTrace.Load())
	}

	pool.executeJob(jobModel.IngestionJob{DocId: "doc_2"})
	if trace, _ := gotTrace.Load().(string); trace == "" || trace == "trace-1" {
		t.Errorf("expected a fresh trace id, got %q", trace)
	}
}

func TestWorker_PanicDoesNotKillWorker(t *testing.T) {
	queue := store.NewInMemoryJobQueue(10)
	mockIngest := &MockIngestService{OnIngest: func(ctx context.Context, job jobModel.IngestionJob) error {
		if job.DocId == "bad" {
			panic("boom")
		}
		return nil
	}}
	pool := NewPool(queue, mockIngest)
	pool.Start(context.Background())
	defer pool.Stop()

	_ = queue.Enqueue(context.Background(), jobModel.IngestionJob{DocId: "bad"})
	_ = queue.Enqueue(context.Background(), jobModel.IngestionJob{DocId: "good"})

	if !waitFor(t, 3*time.Second, func() bool { return atomic.LoadInt32(&mockIngest.ProcessedCount) == 2 }) {
		t.Errorf("expected both jobs to run, got %d", atomic.LoadInt32(&mockIngest.ProcessedCount))
	}
}

func TestWorker_IdleTimeout(t *testing.T) {
	pool := NewPool(store.NewInMemoryJobQueue(1), &MockIngestService{})
	pool.minWorkers = 1
	pool.idleTimeout = 50 * time.Millisecond

	pool.createWorker()
	pool.createWorker()

	if !waitFor(t, 2*time.Second, func() bool { return pool.WorkerCount() == 1 }) {
		t.Errorf("Idle worker should have retired down to the minimum, count is %d", pool.WorkerCount())
	}
	time.Sleep(150 * time.Millisecond)
	if pool.WorkerCount() != 1 {
		t.Errorf("Pool must never retire below the minimum, count is %d", pool.WorkerCount())
	}

	close(pool.stop)
	pool.workers.Wait()
}
