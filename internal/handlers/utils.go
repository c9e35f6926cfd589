package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/HybridRAG/internal/adapter"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

func writeJsonResponse(w http.ResponseWriter, logger *logger_i.Logger, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logger.Error("Error encoding response", "error", err)
	}
}

func validateContext(ctx context.Context, logger *logger_i.Logger) bool {
	if ctx.Err() != nil {
		logger.WithTrace(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, logger *logger_i.Logger, httpCode int, error string) {
	writeJsonResponse(w, logger, httpCode, adapter.BadRequest(error, httpCode))
}
