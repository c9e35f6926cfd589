package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/notify"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

const msgSynced = "File synced successfully."

// Reporter persists the document status and announces the job outcome.
type Reporter struct {
	store     jobModel.DocumentStore
	publisher notify.Publisher
	logger    *logger_i.Logger
}

func NewReporter(store jobModel.DocumentStore, publisher notify.Publisher) *Reporter {
	return &Reporter{store: store, publisher: publisher, logger: logger_i.NewLogger("Reporter")}
}

func (r *Reporter) ReportSuccess(ctx context.Context, docId string, filename string, chunkCount int) error {
	err := r.report(ctx, docId, filename, jobModel.DocumentSynced, jobModel.NotificationCompleted, msgSynced)
	r.logger.WithTrace(ctx).Info("Reported success", "docId", docId, "chunks", chunkCount)
	return err
}

func (r *Reporter) ReportFailure(ctx context.Context, docId string, filename string, message string) error {
	err := r.report(ctx, docId, filename, jobModel.DocumentError, jobModel.NotificationFailed, message)
	r.logger.WithTrace(ctx).Error("Reported failure", "docId", docId, "message", message)
	return err
}

// report attempts both writes even when the first one fails.
func (r *Reporter) report(ctx context.Context, docId string, filename string, state jobModel.DocumentState, status jobModel.NotificationStatus, message string) error {
	loggr := r.logger.WithTrace(ctx)

	saveErr := r.store.SaveStatus(ctx, jobModel.DocumentStatus{
		DocId:     docId,
		Filename:  filename,
		Status:    state,
		Timestamp: time.Now().UTC(),
	})
	if saveErr != nil {
		loggr.Error("Could not save document status", "docId", docId, "error", saveErr)
	}

	pubErr := r.publisher.Publish(ctx, jobModel.JobUpdate{
		Type:    jobModel.JobUpdateType,
		DocId:   docId,
		Status:  status,
		Message: message,
	})
	if pubErr != nil {
		loggr.Error("Could not publish job update", "docId", docId, "error", pubErr)
	}
	return errors.Join(saveErr, pubErr)
}
