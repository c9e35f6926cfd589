package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

var ErrRetrievalFailed = errors.New("vector and graph retrieval both failed")

// Engine combines vector and graph retrieval. graph may be nil.
type Engine struct {
	vector  VectorRetriever
	graph   *GraphRetriever
	deleter vectorDB.SourceDeleter
	topK    int
	logger  *logger_i.Logger
}

func NewEngine(vector VectorRetriever, graph *GraphRetriever, store vectorDB.DataProcessor, topK int) *Engine {
	deleter, _ := store.(vectorDB.SourceDeleter)
	if topK < 1 {
		topK = config.RetrievalTopK
	}
	return &Engine{
		vector:  vector,
		graph:   graph,
		deleter: deleter,
		topK:    topK,
		logger:  logger_i.NewLogger("Retrieval Engine"),
	}
}

// Retrieve runs both paths concurrently. A failing path is logged and skipped.
func (e *Engine) Retrieve(ctx context.Context, query string) ([]commonModels.ContextChunk, string, error) {
	loggr := e.logger.WithTrace(ctx)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("hybrid_retrieval", time.Since(start)) }()

	var (
		wg                  sync.WaitGroup
		chunks              []commonModels.ContextChunk
		graphText           string
		vectorErr, graphErr error
	)

	wg.Go(func() {
		chunks, vectorErr = e.vector.Retrieve(ctx, query, e.topK)
	})
	if e.graph != nil {
		wg.Go(func() {
			graphText, graphErr = e.graph.GetContext(ctx, query)
		})
	}
	wg.Wait()

	if vectorErr != nil {
		loggr.Error("Vector retrieval failed", "error", vectorErr)
	}
	if graphErr != nil {
		loggr.Error("Graph retrieval failed", "error", graphErr)
	}
	if vectorErr != nil && (graphErr != nil || e.graph == nil) {
		return nil, "", fmt.Errorf("%w: %w", ErrRetrievalFailed, errors.Join(vectorErr, graphErr))
	}

	if graphText != "" {
		chunks = append(chunks, commonModels.ContextChunk{
			Text:     graphText,
			SourceId: commonModels.GraphSourceId,
			Score:    config.GraphChunkScore,
		})
	}
	loggr.Debug("Retrieved context", "chunks", len(chunks), "graph", graphText != "")
	return chunks, buildContextString(chunks), nil
}

func buildContextString(chunks []commonModels.ContextChunk) string {
	var vectorParts []string
	graphPart := ""
	for _, c := range chunks {
		if c.IsGraph() {
			graphPart = c.Text
			continue
		}
		vectorParts = append(vectorParts, c.Text)
	}

	var sb strings.Builder
	sb.WriteString("### Vector Context\n")
	if len(vectorParts) == 0 {
		sb.WriteString("No relevant documents found.\n")
	} else {
		sb.WriteString(strings.Join(vectorParts, "\n\n"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n### Graph Context\n")
	if graphPart == "" {
		sb.WriteString("No graph relationships found.")
	} else {
		sb.WriteString(graphPart)
	}
	return sb.String()
}

// DeleteBySourceId drops every vector of docId. False when the store cannot delete or the delete failed.
func (e *Engine) DeleteBySourceId(ctx context.Context, docId string) bool {
	if e.deleter == nil {
		e.logger.WithTrace(ctx).Warn("Vector store does not support deletes", "docId", docId)
		return false
	}
	if err := e.deleter.DeleteBySource(ctx, docId); err != nil {
		e.logger.WithTrace(ctx).Error("Delete failed", "docId", docId, "error", err)
		return false
	}
	return true
}

// EnsureGraphIndexes is a no-op without a graph store.
func (e *Engine) EnsureGraphIndexes(ctx context.Context) error {
	if e.graph == nil {
		return nil
	}
	return e.graph.store.EnsureIndexes(ctx)
}
