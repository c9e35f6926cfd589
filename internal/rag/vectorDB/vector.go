package vectorDB

import (
	"context"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
)

// ScoredChunk is a search hit. Vector is only filled when the search asked for vectors.
type ScoredChunk struct {
	Id     string
	Chunk  commonModels.ContextChunk
	Vector []float32
}

type DataProcessor interface {
	// Search returns up to limit hits ordered by similarity, highest first.
	Search(ctx context.Context, vectorVal []float32, limit int, withVectors bool) ([]ScoredChunk, error)

	// CreateCollection Ingest document call
	CreateCollection(ctx context.Context) error
	UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
}

// SourceDeleter is implemented by stores that can drop every vector of one document.
type SourceDeleter interface {
	DeleteBySource(ctx context.Context, docId string) error
}
