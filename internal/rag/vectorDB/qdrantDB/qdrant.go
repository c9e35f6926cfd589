package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// payload keys
const (
	payloadContent    = "content"
	payloadDocId      = "doc_id"
	payloadChunkIndex = "chunk_index"
	payloadFilename   = "filename"
	payloadIngestedAt = "ingested_at"
)

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	dimension  uint64
	logger     *logger_i.Logger
}

var _ vectorDB.DataProcessor = (*ClientHolder)(nil)
var _ vectorDB.SourceDeleter = (*ClientHolder)(nil)

// NewQdrantClient connects, makes sure the collection exists and closes the client when ctx is done.
func NewQdrantClient(ctx context.Context, host string, port int, collection string, dimension uint64) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}

	holder := &ClientHolder{QObj: client, collection: collection, dimension: dimension, logger: logger}

	initCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if err := holder.CreateCollection(initCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not create collection %s: %w", collection, err)
	}

	go holder.closeOnDone(ctx)
	return holder, nil
}

func (db *ClientHolder) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	db.logger.Info("Shutting down Qdrant")
	if err := db.QObj.Close(); err != nil {
		db.logger.Error("could not close Qdrant", "error", err)
		return
	}
	db.logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Search(ctx context.Context, vectorFloat []float32, limit int, withVectors bool) ([]vectorDB.ScoredChunk, error) {
	loggr := db.logger.WithTrace(ctx)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(withVectors),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	hits := make([]vectorDB.ScoredChunk, 0, len(result))
	for _, hit := range result {
		scored := vectorDB.ScoredChunk{
			Id: hit.GetId().GetUuid(),
			Chunk: commonModels.ContextChunk{
				Text:     hit.Payload[payloadContent].GetStringValue(),
				SourceId: hit.Payload[payloadDocId].GetStringValue(),
				Score:    hit.Score,
			},
		}
		if withVectors {
			scored.Vector = hit.GetVectors().GetVector().GetData()
		}
		hits = append(hits, scored)
	}

	loggr.Debug("Found matches", "count", len(hits))
	return hits, nil
}

func (db *ClientHolder) CreateCollection(ctx context.Context) error {
	if db.collection == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, db.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return err
	}

	// deletes filter on doc_id
	_, err = db.QObj.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: db.collection,
		FieldName:      payloadDocId,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		db.logger.Warn("could not create doc_id payload index", "error", err)
	}
	return nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointId(chunk.Doc.Id, chunk.ChunkIndex)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadContent:    chunk.Chunk,
				payloadDocId:      chunk.Doc.Id,
				payloadChunkIndex: chunk.ChunkIndex,
				payloadFilename:   chunk.Doc.Name,
				payloadIngestedAt: chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) DeleteBySource(ctx context.Context, docId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Wait:           qdrant.PtrOf(true),
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(payloadDocId, docId)},
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete for %s failed: %w", docId, err)
	}
	db.logger.WithTrace(ctx).Info("Deleted vectors", "docId", docId)
	return nil
}

// PointId is stable per (document, chunk) so re-ingesting a document overwrites its points.
func PointId(docId string, chunkIndex int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "%s#%d", docId, chunkIndex)).String()
}
