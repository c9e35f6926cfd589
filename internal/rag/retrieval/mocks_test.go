package retrieval

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB"
)

type mockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, query string) ([]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{1, 0}, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, huge bool) ([][]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) Dimension() uint64 { return 2 }

type mockVectorStore struct {
	OnSearch func(ctx context.Context, vec []float32, limit int, withVectors bool) ([]vectorDB.ScoredChunk, error)
}

func (m *mockVectorStore) Search(ctx context.Context, vec []float32, limit int, withVectors bool) ([]vectorDB.ScoredChunk, error) {
	return m.OnSearch(ctx, vec, limit, withVectors)
}
func (m *mockVectorStore) CreateCollection(ctx context.Context) error { return nil }
func (m *mockVectorStore) UpsertBatch(ctx context.Context, c []commonModels.DocChunk, v [][]float32) error {
	return nil
}

type deletingVectorStore struct {
	mockVectorStore
	OnDelete func(ctx context.Context, docId string) error
}

func (m *deletingVectorStore) DeleteBySource(ctx context.Context, docId string) error {
	return m.OnDelete(ctx, docId)
}

type mockVectorRetriever struct {
	OnRetrieve func(ctx context.Context, query string, k int) ([]commonModels.ContextChunk, error)
}

func (m *mockVectorRetriever) Retrieve(ctx context.Context, query string, k int) ([]commonModels.ContextChunk, error) {
	return m.OnRetrieve(ctx, query, k)
}

type mockGenerator struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return m.OnGenerate(ctx, prompt)
}

type mockGraphStore struct {
	lookups        atomic.Int32
	OnLookup       func(q string) (string, bool, error)
	OnNeighborhood func(id string) ([]string, error)
	OnPaths        func(start, end string) ([]string, error)
	indexed        bool
}

func (m *mockGraphStore) EnsureIndexes(ctx context.Context) error {
	m.indexed = true
	return nil
}
func (m *mockGraphStore) LookupEntity(ctx context.Context, q string) (string, bool, error) {
	m.lookups.Add(1)
	return m.OnLookup(q)
}
func (m *mockGraphStore) Neighborhood(ctx context.Context, id string, limit int) ([]string, error) {
	return m.OnNeighborhood(id)
}
func (m *mockGraphStore) PathsBetween(ctx context.Context, s, e string, limit int) ([]string, error) {
	return m.OnPaths(s, e)
}
func (m *mockGraphStore) UpsertRelations(ctx context.Context, t []commonModels.RelationTriple) error {
	return nil
}

func hit(text string, score float32, vec ...float32) vectorDB.ScoredChunk {
	return vectorDB.ScoredChunk{
		Id:     text,
		Chunk:  commonModels.ContextChunk{Text: text, SourceId: "doc_" + text, Score: score},
		Vector: vec,
	}
}
