package retrieval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/embedding"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB"
)

// VectorRetriever returns at most k chunks for query.
type VectorRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]commonModels.ContextChunk, error)
}

// NewVectorRetriever returns the strategy registered under key.
func NewVectorRetriever(key string, embedder embedding.Embedder, store vectorDB.DataProcessor) (VectorRetriever, error) {
	switch key {
	case config.RetrievalDense:
		return &denseRetriever{embedder: embedder, store: store}, nil
	case config.RetrievalMMR:
		return &mmrRetriever{embedder: embedder, store: store, lambda: config.MMRLambda}, nil
	case config.RetrievalEnsemble:
		return &ensembleRetriever{
			embedder: embedder,
			dense:    &denseRetriever{embedder: embedder, store: store},
			mmr:      &mmrRetriever{embedder: embedder, store: store, lambda: config.MMRLambda},
			weights:  []float64{config.EnsembleDenseWeight, config.EnsembleMMRWeight},
		}, nil
	default:
		return nil, fmt.Errorf("%w: retrieval %q", config.ErrUnknownStrategy, key)
	}
}

func embedQuery(ctx context.Context, embedder embedding.Embedder, query string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vec, err := embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}
	return vec, nil
}

type denseRetriever struct {
	embedder embedding.Embedder
	store    vectorDB.DataProcessor
}

func (r *denseRetriever) Retrieve(ctx context.Context, query string, k int) ([]commonModels.ContextChunk, error) {
	vec, err := embedQuery(ctx, r.embedder, query)
	if err != nil {
		return nil, err
	}
	return r.search(ctx, vec, k)
}

func (r *denseRetriever) search(ctx context.Context, vec []float32, k int) ([]commonModels.ContextChunk, error) {
	hits, err := r.store.Search(ctx, vec, k, false)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	chunks := make([]commonModels.ContextChunk, len(hits))
	for i, h := range hits {
		chunks[i] = h.Chunk
	}
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Score > chunks[j].Score })
	if len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks, nil
}

type mmrRetriever struct {
	embedder embedding.Embedder
	store    vectorDB.DataProcessor
	lambda   float64
}

func (r *mmrRetriever) Retrieve(ctx context.Context, query string, k int) ([]commonModels.ContextChunk, error) {
	vec, err := embedQuery(ctx, r.embedder, query)
	if err != nil {
		return nil, err
	}
	return r.search(ctx, vec, k)
}

func (r *mmrRetriever) search(ctx context.Context, vec []float32, k int) ([]commonModels.ContextChunk, error) {
	candidates, err := r.store.Search(ctx, vec, k*config.MMRFetchMultiplier, true)
	if err != nil {
		return nil, fmt.Errorf("mmr candidate search failed: %w", err)
	}
	picked := maximalMarginalRelevance(vec, candidates, k, r.lambda)
	chunks := make([]commonModels.ContextChunk, len(picked))
	for i, idx := range picked {
		chunks[i] = candidates[idx].Chunk
	}
	return chunks, nil
}

// ensembleRetriever embeds once and fuses the dense and mmr rankings.
type ensembleRetriever struct {
	embedder embedding.Embedder
	dense    *denseRetriever
	mmr      *mmrRetriever
	weights  []float64
}

func (r *ensembleRetriever) Retrieve(ctx context.Context, query string, k int) ([]commonModels.ContextChunk, error) {
	vec, err := embedQuery(ctx, r.embedder, query)
	if err != nil {
		return nil, err
	}

	dense, err := r.dense.search(ctx, vec, k)
	if err != nil {
		return nil, err
	}
	diverse, err := r.mmr.search(ctx, vec, k)
	if err != nil {
		return nil, err
	}

	return weightedRankFusion([][]commonModels.ContextChunk{dense, diverse}, r.weights, config.RankFusionConstant, k), nil
}
