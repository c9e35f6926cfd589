package knowledgeGraph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/graphDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/semaphore"
)

// Generator is the slice of an LLM provider the extractor needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// BatchReport summarises one ProcessChunks call. Err joins every per-chunk failure.
type BatchReport struct {
	Total     int
	Succeeded int
	Failed    int
	Relations int
	Err       error
}

type Processor struct {
	generator Generator
	store     graphDB.Store
	llmSlots  *semaphore.Weighted
	writers   *ants.Pool
	logger    *logger_i.Logger
}

func NewProcessor(generator Generator, store graphDB.Store) (*Processor, error) {
	return newProcessor(generator, store, config.GraphExtractionConcurrency, config.GraphWriterPoolSize)
}

func newProcessor(generator Generator, store graphDB.Store, llmLimit int64, writerPool int) (*Processor, error) {
	pool, err := ants.NewPool(writerPool)
	if err != nil {
		return nil, fmt.Errorf("could not create graph writer pool: %w", err)
	}
	return &Processor{
		generator: generator,
		store:     store,
		llmSlots:  semaphore.NewWeighted(llmLimit),
		writers:   pool,
		logger:    logger_i.NewLogger("Graph Processor"),
	}, nil
}

// Release stops the writer pool. The processor must not be used afterwards.
func (p *Processor) Release() {
	p.writers.Release()
}

// ProcessChunks extracts and writes relations for every chunk. A failing chunk never stops the others.
func (p *Processor) ProcessChunks(ctx context.Context, chunks []commonModels.DocChunk) BatchReport {
	loggr := p.logger.WithTrace(ctx)
	start := time.Now()

	report := BatchReport{Total: len(chunks)}
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)

	for _, chunk := range chunks {
		wg.Go(func() {
			written, err := p.processChunk(ctx, chunk)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				errs = append(errs, fmt.Errorf("chunk %d: %w", chunk.ChunkIndex, err))
				return
			}
			report.Succeeded++
			report.Relations += written
		})
	}
	wg.Wait()

	report.Err = errors.Join(errs...)
	metrics.CountGraphChunks(report.Succeeded, report.Failed, report.Relations)
	metrics.CaptureExecutionMetrics("graph_batch", time.Since(start))

	if report.Err != nil {
		loggr.Warn("Graph batch finished with failures", "total", report.Total, "failed", report.Failed, "error", report.Err)
	} else {
		loggr.Info("Graph batch finished", "total", report.Total, "relations", report.Relations)
	}
	return report
}

func (p *Processor) processChunk(ctx context.Context, chunk commonModels.DocChunk) (written int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during extraction: %v", r)
		}
	}()

	raw, err := p.extract(ctx, chunk.Chunk)
	if err != nil {
		return 0, err
	}

	var triples []commonModels.RelationTriple
	for _, t := range ParseRelations(raw) {
		if clean, ok := Sanitize(t); ok {
			triples = append(triples, clean)
		}
	}
	if len(triples) == 0 {
		return 0, nil
	}

	if err := p.write(ctx, triples); err != nil {
		return 0, err
	}
	return len(triples), nil
}

func (p *Processor) extract(ctx context.Context, text string) (string, error) {
	if err := p.llmSlots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.llmSlots.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, config.ExtractionTimeout)
	defer cancel()

	raw, err := p.generator.Generate(callCtx, fmt.Sprintf(relationPrompt, text))
	if err != nil {
		return "", fmt.Errorf("relation extraction failed: %w", err)
	}
	return raw, nil
}

// write runs the blocking graph transaction on the writer pool.
func (p *Processor) write(ctx context.Context, triples []commonModels.RelationTriple) error {
	done := make(chan error, 1)
	submitErr := p.writers.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic during graph write: %v", r)
			}
		}()
		done <- p.store.UpsertRelations(ctx, triples)
	})
	if submitErr != nil {
		return fmt.Errorf("could not schedule graph write: %w", submitErr)
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
