package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/data/redisStore"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// RedisDocumentStore keeps one JSON status per document in the rag_documents hash.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisDocumentStore(s *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  s,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveStatus(ctx context.Context, status jobModel.DocumentStatus) error {
	log := s.logger.WithTrace(ctx).With("docId", status.DocId)
	log.Debug("saving document status", "status", status.Status)
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	if err = s.store.HashSet(ctx, config.RedisDocumentsKey, status.DocId, data); err != nil {
		return err
	}
	log.Debug("Saved document status to Redis")
	return nil
}

func (s *RedisDocumentStore) ListStatuses(ctx context.Context) ([]jobModel.DocumentStatus, error) {
	raw, err := s.store.HashGetAll(ctx, config.RedisDocumentsKey)
	if err != nil {
		return nil, err
	}

	statuses := make([]jobModel.DocumentStatus, 0, len(raw))
	for docId, val := range raw {
		var status jobModel.DocumentStatus
		if err := json.Unmarshal([]byte(val), &status); err != nil {
			s.logger.Warn("Skipping unreadable document status", "docId", docId, "error", err)
			continue
		}
		statuses = append(statuses, status)
	}
	sortStatuses(statuses)
	return statuses, nil
}

func (s *RedisDocumentStore) DeleteStatus(ctx context.Context, docId string) error {
	if err := s.store.HashDel(ctx, config.RedisDocumentsKey, docId); err != nil {
		s.logger.Error("Error deleting document status from Redis", "docId", docId, "error", err)
		return err
	}
	s.logger.Debug("Document status deleted from Redis", "docId", docId)
	return nil
}

// newest first, doc id breaks ties so listings are stable
func sortStatuses(statuses []jobModel.DocumentStatus) {
	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Timestamp.Equal(statuses[j].Timestamp) {
			return statuses[i].DocId < statuses[j].DocId
		}
		return statuses[i].Timestamp.After(statuses[j].Timestamp)
	})
}
