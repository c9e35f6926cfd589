package adapter

import (
	"github.com/akolanti/HybridRAG/internal/api"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/rag/pipeline"
)

func ToChatResponse(result pipeline.Result) api.ChatResponse {
	contexts := make([]api.DocumentContext, 0, len(result.ContextChunks))
	for _, chunk := range result.ContextChunks {
		contexts = append(contexts, api.DocumentContext{
			PageContent: chunk.Text,
			Metadata: api.ContextMetadata{
				DocId: chunk.SourceId,
				Score: chunk.Score,
			},
		})
	}
	return api.ChatResponse{Answer: result.Answer, Contexts: contexts}
}

func ToSyncResponse(receipt jobModel.SyncReceipt) api.SyncResponse {
	return api.SyncResponse{JobId: receipt.JobId, Status: receipt.Status}
}

func ToDocumentList(statuses []jobModel.DocumentStatus) []jobModel.DocumentStatus {
	if statuses == nil {
		return []jobModel.DocumentStatus{}
	}
	return statuses
}

func BadRequest(error string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: error,
	}
}
