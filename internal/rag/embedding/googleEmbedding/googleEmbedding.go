package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akolanti/HybridRAG/internal/adapter/utils"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/rag/embedding"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"google.golang.org/genai"
)

var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

func NewGoogleEmbedder(ctx context.Context, apikey string, modelName string, httpClient *http.Client) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI, HTTPClient: httpClient})
	if err != nil {
		return nil, fmt.Errorf("creating google embedding client: %w", err)
	}
	logger.Info("Google Embedding client created", "model", modelName)
	return &client{genAi: c, model: modelName, logger: logger}, nil
}

func (c *client) Dimension() uint64 {
	return uint64(dimension)
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := c.logger.WithTrace(ctx)

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query), &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_QUERY"})
	if err != nil {
		log.Error("Error getting query embedding from Google", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("google returned no embeddings")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string, isLargeDataSet bool) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)

	if !isLargeDataSet {
		res, err := c.doCall(ctx, getContent(chunks))
		if err != nil && doRetry(err, log) {
			log.Debug("Retrying in 5 seconds")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			res, err = c.doCall(ctx, getContent(chunks))
		}
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err)
			return nil, err
		}
		embeddingResults := make([][]float32, 0, len(res.Embeddings))
		for _, r := range res.Embeddings {
			embeddingResults = append(embeddingResults, r.Values)
		}
		return embeddingResults, nil
	}

	t1 := genai.EmbeddingsBatchJobSource{InlinedRequests: getInlinedBatchRequests(chunks)}
	batchJobName := utils.GetNewUUID()

	log = log.With("batchJobName", batchJobName, "big file", len(chunks))
	conf := genai.CreateEmbeddingsBatchJobConfig{DisplayName: batchJobName}
	created, err := c.genAi.Batches.CreateEmbeddings(ctx, &c.model, &t1, &conf)
	if err != nil {
		log.Error("Error getting batch Embeddings from Google", "error", err)
		return nil, err
	}

	answer, err := c.pollForAnswer(ctx, created.Name, log)
	if err != nil {
		return nil, err
	}
	return downloadAnswerFromClient(answer, log)
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}
