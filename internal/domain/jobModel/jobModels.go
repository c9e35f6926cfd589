package jobModel

import (
	"context"
	"time"
)

type DocumentState string
type NotificationStatus string
type InternalStatus string

const (
	DocumentSynced DocumentState = "synced"
	DocumentError  DocumentState = "error"

	NotificationCompleted NotificationStatus = "completed"
	NotificationFailed    NotificationStatus = "failed"

	JobUpdateType = "job_update"
	JobQueuedText = "Queued"

	IngestInit       InternalStatus = "IngestInit"
	IngestExtracting InternalStatus = "IngestExtracting"
	IngestSplitting  InternalStatus = "IngestSplitting"
	IngestVectors    InternalStatus = "IngestVectors"
	IngestGraph      InternalStatus = "IngestGraph"
	IngestReporting  InternalStatus = "IngestReporting"
	Complete         InternalStatus = "Complete"
	Error            InternalStatus = "Error"
)

// IngestionJob is the queue message. It lives only as long as the job.
type IngestionJob struct {
	DocId    string `json:"doc_id"`
	FilePath string `json:"file_path"`
	TraceId  string `json:"trace_id,omitempty"`
}

// DocumentStatus is the persisted per-document metadata, overwritten on every ingestion attempt.
type DocumentStatus struct {
	DocId     string        `json:"doc_id"`
	Filename  string        `json:"filename"`
	Status    DocumentState `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// JobUpdate is published on the notification channel when a job finishes.
type JobUpdate struct {
	Type    string             `json:"type"`
	DocId   string             `json:"doc_id"`
	Status  NotificationStatus `json:"status"`
	Message string             `json:"message"`
}

type SyncReceipt struct {
	JobId  string `json:"job_id"`
	Status string `json:"status"`
}

type JobQueue interface {
	Enqueue(ctx context.Context, job IngestionJob) error
	// Dequeue waits up to timeout for a job. ok is false when nothing arrived.
	Dequeue(ctx context.Context, timeout time.Duration) (job IngestionJob, ok bool, err error)
}

type DocumentStore interface {
	SaveStatus(ctx context.Context, status DocumentStatus) error
	ListStatuses(ctx context.Context) ([]DocumentStatus, error)
	DeleteStatus(ctx context.Context, docId string) error
}
