package worker

import (
	"context"
	"time"

	"github.com/akolanti/HybridRAG/internal/adapter/utils"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/metrics"
)

func (p *Pool) executeJob(job jobModel.IngestionJob) {
	defer metrics.DecrementJobsInQueue()

	trace := job.TraceId
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, trace)
	ctx, cancel := context.WithTimeout(ctxTrace, p.jobTimeout)
	defer cancel()

	loggr := p.logger.WithTrace(ctx)
	loggr.Info("Processing job", "docId", job.DocId, "path", job.FilePath)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			loggr.Error("Ingestion panicked", "docId", job.DocId, "panic", r)
		}
	}()

	if err := p.ingest.Ingest(ctx, job); err != nil {
		loggr.Warn("Job failed", "docId", job.DocId, "error", err, "elapsed", time.Since(start))
		return
	}
	loggr.Info("Job complete", "docId", job.DocId, "elapsed", time.Since(start))
}
