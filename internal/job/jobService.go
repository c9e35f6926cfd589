package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrFileNotFound    = errors.New("file not found in upload directory")
)

// VectorDeleter removes every vector of one document.
type VectorDeleter interface {
	DeleteBySourceId(ctx context.Context, docId string) bool
}

// Service is the document admin surface: sync, list and delete.
type Service struct {
	Queue     jobModel.JobQueue
	Documents jobModel.DocumentStore
	Vectors   VectorDeleter
	UploadDir string
	now       func() time.Time
	logger    *logger_i.Logger
}

type ServiceConfig struct {
	Queue     jobModel.JobQueue
	Documents jobModel.DocumentStore
	Vectors   VectorDeleter
	UploadDir string
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		Queue:     cfg.Queue,
		Documents: cfg.Documents,
		Vectors:   cfg.Vectors,
		UploadDir: cfg.UploadDir,
		now:       time.Now,
		logger:    logger_i.NewLogger("Job Service"),
	}
}

// SubmitSync queues ingestion of a file previously saved to the upload directory.
func (s *Service) SubmitSync(ctx context.Context, docId string, filename string) (jobModel.SyncReceipt, error) {
	loggr := s.logger.WithTrace(ctx)

	if docId == "" || filename == "" || filepath.Base(filename) != filename || filename == "." || filename == ".." {
		return jobModel.SyncReceipt{}, ErrInvalidFilename
	}
	path := filepath.Join(s.UploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		return jobModel.SyncReceipt{}, fmt.Errorf("%w: %s", ErrFileNotFound, filename)
	}

	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	job := jobModel.IngestionJob{DocId: docId, FilePath: path, TraceId: trace}
	if err := s.Queue.Enqueue(ctx, job); err != nil {
		loggr.Error("Could not queue sync job", "docId", docId, "error", err)
		return jobModel.SyncReceipt{}, fmt.Errorf("queue sync job: %w", err)
	}

	receipt := jobModel.SyncReceipt{
		JobId:  fmt.Sprintf("job_%d", s.now().Unix()),
		Status: jobModel.JobQueuedText,
	}
	loggr.Info("Queued sync job", "docId", docId, "jobId", receipt.JobId)
	return receipt, nil
}

func (s *Service) ListDocuments(ctx context.Context) ([]jobModel.DocumentStatus, error) {
	return s.Documents.ListStatuses(ctx)
}

// DeleteDocument drops the vectors of docId and, only if that worked, its status entry.
func (s *Service) DeleteDocument(ctx context.Context, docId string) bool {
	loggr := s.logger.WithTrace(ctx)
	if !s.Vectors.DeleteBySourceId(ctx, docId) {
		loggr.Warn("Vector delete failed", "docId", docId)
		return false
	}
	if err := s.Documents.DeleteStatus(ctx, docId); err != nil {
		loggr.Error("Could not remove document status", "docId", docId, "error", err)
	}
	loggr.Info("Deleted document", "docId", docId)
	return true
}
