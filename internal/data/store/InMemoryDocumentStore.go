package store

import (
	"context"
	"sync"

	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem DocumentStore")

type InMemoryDocumentStore struct {
	mu     *sync.RWMutex
	docMap map[string]jobModel.DocumentStatus
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		mu:     new(sync.RWMutex),
		docMap: make(map[string]jobModel.DocumentStatus),
	}
}

func (store *InMemoryDocumentStore) SaveStatus(ctx context.Context, status jobModel.DocumentStatus) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.docMap[status.DocId] = status
	inMemLogger.Debug("Saved document status", "docId", status.DocId, "status", status.Status)
	return nil
}

func (store *InMemoryDocumentStore) ListStatuses(ctx context.Context) ([]jobModel.DocumentStatus, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	statuses := make([]jobModel.DocumentStatus, 0, len(store.docMap))
	for _, s := range store.docMap {
		statuses = append(statuses, s)
	}
	sortStatuses(statuses)
	return statuses, nil
}

func (store *InMemoryDocumentStore) DeleteStatus(ctx context.Context, docId string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.docMap, docId)
	return nil
}
