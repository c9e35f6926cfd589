package handlers

import (
	"context"
	"net/http"

	"github.com/akolanti/HybridRAG/internal/api"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/notify"
	"github.com/akolanti/HybridRAG/internal/rag"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// DocumentService is the document admin surface the handlers need.
type DocumentService interface {
	SubmitSync(ctx context.Context, docId string, filename string) (jobModel.SyncReceipt, error)
	ListDocuments(ctx context.Context) ([]jobModel.DocumentStatus, error)
	DeleteDocument(ctx context.Context, docId string) bool
}

type Handler struct {
	chat          rag.Service
	documents     DocumentService
	notifications notify.Subscriber
	uploadDir     string
	logger        *logger_i.Logger
}

func NewHandler(chat rag.Service, documents DocumentService, notifications notify.Subscriber, uploadDir string) *Handler {
	h := &Handler{
		chat:          chat,
		documents:     documents,
		notifications: notifications,
		uploadDir:     uploadDir,
		logger:        logger_i.NewLogger("RequestHandler"),
	}
	h.logger.Info("Starting request handler")
	return h
}

// Health godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, h.logger, http.StatusOK, api.HealthResponse{Status: "ok"})
}
