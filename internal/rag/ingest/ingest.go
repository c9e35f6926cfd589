package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/embedding"
	"github.com/akolanti/HybridRAG/internal/rag/knowledgeGraph"
	"github.com/akolanti/HybridRAG/internal/rag/splitter"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

const (
	msgUnsupportedType = "Unsupported file type."
	msgNoText          = "No text extracted from document."
	msgNoChunks        = "No chunks created from text."
)

// Service Worker will only call this service - it doesn't need to know the stores or the models
type Service interface {
	// Ingest runs one job end to end and reports the outcome. The returned error is the same
	// failure that was reported, for the caller's logs and metrics.
	Ingest(ctx context.Context, job jobModel.IngestionJob) error
}

// GraphProcessor extracts relations from chunks into the graph store.
type GraphProcessor interface {
	ProcessChunks(ctx context.Context, chunks []commonModels.DocChunk) knowledgeGraph.BatchReport
}

type service struct {
	embedder embedding.Embedder
	vectors  vectorDB.DataProcessor
	splitter splitter.Splitter
	graph    GraphProcessor
	reporter *Reporter
	logger   *logger_i.Logger
}

// NewService constructor. graph may be nil when graph extraction is disabled.
func NewService(em embedding.Embedder, vectors vectorDB.DataProcessor, sp splitter.Splitter, graph GraphProcessor, reporter *Reporter) Service {
	return &service{
		embedder: em,
		vectors:  vectors,
		splitter: sp,
		graph:    graph,
		reporter: reporter,
		logger:   logger_i.NewLogger("Document Ingestion"),
	}
}

type ingestError struct {
	message string
	err     error
}

func (e *ingestError) Error() string {
	if e.err == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.err)
}

func (e *ingestError) Unwrap() error { return e.err }

func (s *service) Ingest(ctx context.Context, job jobModel.IngestionJob) error {
	loggr := s.logger.WithTrace(ctx).With("docId", job.DocId)
	start := time.Now()
	filename := filepath.Base(job.FilePath)

	doc, chunks, err := s.index(ctx, loggr, job, filename)
	if err != nil {
		loggr.Error("Ingestion failed", "error", err)
		message := err.Error()
		var ie *ingestError
		if errors.As(err, &ie) && ie.err == nil {
			message = ie.message
		}
		_ = s.reporter.ReportFailure(ctx, job.DocId, filename, message)
		metrics.CountIngestionJob("failed")
		metrics.CaptureJobMetrics("failed", time.Since(start))
		return err
	}

	if s.graph != nil {
		report := s.graph.ProcessChunks(ctx, chunks)
		loggr.Info("Graph extraction done", "succeeded", report.Succeeded, "failed", report.Failed, "relations", report.Relations)
	}

	_ = s.reporter.ReportSuccess(ctx, doc.Id, doc.Name, len(chunks))
	metrics.CountIngestionJob("completed")
	metrics.CaptureJobMetrics("completed", time.Since(start))
	return nil
}

// index covers every step whose failure fails the job: extraction, splitting and the vector write.
func (s *service) index(ctx context.Context, loggr *logger_i.Logger, job jobModel.IngestionJob, filename string) (commonModels.Document, []commonModels.DocChunk, error) {
	docType := getDocType(job.FilePath)
	if docType == commonModels.ERR {
		return commonModels.Document{}, nil, &ingestError{message: msgUnsupportedType}
	}

	doc := commonModels.Document{
		Id:                  job.DocId,
		Name:                filename,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}

	loggr.Debug("Processing document", "type", docType, "path", job.FilePath)
	text, err := extractText(loggr, job.FilePath, docType)
	if err != nil {
		return doc, nil, err
	}
	if text == "" {
		return doc, nil, &ingestError{message: msgNoText}
	}

	chunks, err := PrepareChunks(text, doc, s.splitter)
	if err != nil {
		return doc, nil, err
	}
	if len(chunks) == 0 {
		return doc, nil, &ingestError{message: msgNoChunks}
	}
	loggr.Debug("Processing document", "Number of chunks", len(chunks))

	if err := s.vectors.CreateCollection(ctx); err != nil {
		return doc, nil, fmt.Errorf("error creating collection: %w", err)
	}
	if deleter, ok := s.vectors.(vectorDB.SourceDeleter); ok {
		if err := deleter.DeleteBySource(ctx, doc.Id); err != nil {
			return doc, nil, fmt.Errorf("could not clear previous vectors: %w", err)
		}
	}
	if err := BatchIngest(ctx, loggr, chunks, s.vectors, s.embedder); err != nil {
		return doc, nil, err
	}
	return doc, chunks, nil
}
