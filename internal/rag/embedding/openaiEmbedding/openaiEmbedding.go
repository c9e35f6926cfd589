package openaiEmbedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/rag/embedding"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	client openai.Client
	model  string
	logger *logger_i.Logger
}

func NewOpenAIEmbedder(apikey string, modelName string, httpClient *http.Client) embedding.Embedder {
	logger := logger_i.NewLogger("openai_embedding")
	logger.Info("OpenAI Embedding client created", "model", modelName)
	return &client{
		client: openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(httpClient)),
		model:  modelName,
		logger: logger,
	}
}

func (c *client) Dimension() uint64 {
	return uint64(config.EmbeddingOutputDimensionality)
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbedding ignores isHugeDataSet, the callers already batch by 100.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string, _ bool) ([][]float32, error) {
	return c.embed(ctx, chunks)
}

func (c *client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      c.model,
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		c.logger.WithTrace(ctx).Error("Error getting embeddings from OpenAI", "error", err)
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}
