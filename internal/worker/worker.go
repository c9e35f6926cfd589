package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/ingest"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// Pool pulls ingestion jobs off the queue and runs them on an elastic set of workers.
type Pool struct {
	queue       jobModel.JobQueue
	ingest      ingest.Service
	jobs        chan jobModel.IngestionJob
	dispatch    chan struct{}
	stop        chan struct{}
	workers     sync.WaitGroup
	consumer    sync.WaitGroup
	cancel      context.CancelFunc
	count       atomic.Int64
	minWorkers  int64
	maxWorkers  int64
	idleTimeout time.Duration
	jobTimeout  time.Duration
	logger      *logger_i.Logger
}

func NewPool(queue jobModel.JobQueue, ingestService ingest.Service) *Pool {
	return &Pool{
		queue:       queue,
		ingest:      ingestService,
		jobs:        make(chan jobModel.IngestionJob, config.BufferLimit),
		dispatch:    make(chan struct{}, config.BufferLimit),
		stop:        make(chan struct{}),
		minWorkers:  config.MinWorkerCount,
		maxWorkers:  config.MaxWorkerCount,
		idleTimeout: config.IdleWorkerTimeout,
		jobTimeout:  config.IngestionJobTimeout,
		logger:      logger_i.NewLogger("WorkerPool"),
	}
}

// Start launches the queue consumer, the dispatcher and the minimum set of workers.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Initializing worker pool", "min", p.minWorkers, "max", p.maxWorkers)
	consumeCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for range p.minWorkers {
		p.createWorker()
	}
	go p.dispatcher()

	p.consumer.Add(1)
	go func() {
		defer p.consumer.Done()
		p.consume(consumeCtx)
	}()
}

// Stop stops pulling from the queue, lets workers finish what was already pulled and waits for them.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool")
	if p.cancel != nil {
		p.cancel()
	}
	p.consumer.Wait()
	close(p.stop)
	p.workers.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *Pool) consume(ctx context.Context) {
	for ctx.Err() == nil {
		job, ok, err := p.queue.Dequeue(ctx, config.JobQueuePollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("Dequeue failed", "error", err)
			select {
			case <-time.After(config.JobQueuePollTimeout):
			case <-ctx.Done():
				return
			}
			continue
		}
		if !ok {
			continue
		}

		metrics.IncrementJobsInQueue()
		select {
		case p.jobs <- job:
		case <-ctx.Done():
			// the job was already popped; hand it to the workers anyway so it is not lost
			p.jobs <- job
			return
		}
		select {
		case p.dispatch <- struct{}{}:
			metrics.StartDispatcherSignalCount()
		default:
		}
	}
}

func (p *Pool) dispatcher() {
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.dispatch:
			if len(p.jobs) > 0 && p.count.Load() < p.maxWorkers {
				p.logger.Info("Creating new worker", "workerCount", p.count.Load())
				p.createWorker()
			}
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) createWorker() {
	p.workers.Add(1)
	p.count.Add(1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	idle := time.NewTimer(p.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case job := <-p.jobs:
			p.executeJob(job)
			idle.Reset(p.idleTimeout)

		case <-p.stop:
			p.drain()
			p.count.Add(-1)
			p.removeWorker("Stop worker signal received")
			return

		case <-idle.C:
			if p.tryRetire() {
				p.removeWorker("Idle worker timeout")
				return
			}
			idle.Reset(p.idleTimeout)
		}
	}
}

// drain runs whatever is still buffered after stop.
func (p *Pool) drain() {
	for {
		select {
		case job := <-p.jobs:
			p.executeJob(job)
		default:
			return
		}
	}
}

// tryRetire claims one slot above the minimum. It never takes the pool below minWorkers.
func (p *Pool) tryRetire() bool {
	for {
		current := p.count.Load()
		if current <= p.minWorkers {
			return false
		}
		if p.count.CompareAndSwap(current, current-1) {
			return true
		}
	}
}

// removeWorker expects the caller to have already released its slot in count.
func (p *Pool) removeWorker(reason string) {
	p.workers.Done()
	metrics.DecrementActiveWorkerCount()
	p.logger.Info("Removed worker", "reason", reason, "workerCount", p.count.Load())
}

// WorkerCount is the number of live workers.
func (p *Pool) WorkerCount() int64 {
	return p.count.Load()
}
