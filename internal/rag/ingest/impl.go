package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/rag/embedding"
	"github.com/akolanti/HybridRAG/internal/rag/splitter"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".odt", ".rtf":
		return commonModels.DOCX
	case ".txt", ".md", ".json", ".csv":
		return commonModels.TXT
	default:
		return commonModels.ERR
	}
}

// extractText returns the document text with pages joined in order.
func extractText(loggr *logger_i.Logger, path string, contentType commonModels.DocType) (string, error) {
	var pages []rawPage
	var err error
	switch contentType {
	case commonModels.PDF:
		pages, err = extractPDF(loggr, path)
	case commonModels.DOCX, commonModels.TXT:
		pages, err = extractdocxTxtRtf(loggr, path)
	default:
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}
	if err != nil {
		return "", err
	}

	contents := make([]string, len(pages))
	for i, page := range pages {
		contents[i] = page.Content
	}
	return strings.TrimSpace(strings.Join(contents, "\n")), nil
}

func PrepareChunks(text string, doc commonModels.Document, sp splitter.Splitter) ([]commonModels.DocChunk, error) {
	stringChunks, err := sp.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting failed: %w", err)
	}

	allChunks := make([]commonModels.DocChunk, 0, len(stringChunks))
	for _, chunk := range stringChunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		index := len(allChunks)
		allChunks = append(allChunks, commonModels.DocChunk{
			Doc:        doc,
			ChunkId:    qdrantDB.PointId(doc.Id, index),
			Chunk:      chunk,
			ChunkIndex: index,
		})
	}
	return allChunks, nil
}

func BatchIngest(ctx context.Context, loggr *logger_i.Logger, chunks []commonModels.DocChunk, vectorDB vectorDB.DataProcessor, embedder embedding.Embedder) error {
	batchSize := config.EmbeddingBatchSize
	isHugeDataSet := len(chunks) > config.EmbeddingBatchJobThreshold
	if isHugeDataSet {
		batchSize = config.EmbeddingBatchJobSize
		loggr.Debug("Is a huge dataset", "chunks", len(chunks))
	}

	for i := 0; i < len(chunks); i += batchSize {
		end := min(i+batchSize, len(chunks))
		currentBatch := chunks[i:end]

		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Chunk
		}

		loggr.Debug("Starting embedding call", "current batch length", len(currentBatch))
		vectors, err := embedder.BatchEmbedding(ctx, texts, isHugeDataSet)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		err = vectorDB.UpsertBatch(ctx, currentBatch, vectors)
		if err != nil {
			return fmt.Errorf("upserting to qdrant failed: %w", err)
		}
	}

	return nil
}
