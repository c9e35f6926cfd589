package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/HybridRAG/internal/adapter"
	"github.com/akolanti/HybridRAG/internal/adapter/utils"
	"github.com/akolanti/HybridRAG/internal/api"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/job"
	"github.com/coder/websocket"
)

// Upload godoc
// @Summary      Upload a document
// @Description  Saves the file into the upload directory under its own name. Call /sync afterwards to ingest it.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "PDF, DOCX, ODT, RTF, TXT, MD, JSON or CSV file"
// @Success      200   {object}  api.UploadResponse
// @Failure      400   {object}  api.ErrorResponse  "Missing file or file too large"
// @Failure      500   {object}  api.ErrorResponse  "Storage error"
// @Router       /upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		return
	}
	loggr := h.logger.WithTrace(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, h.logger, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, h.logger, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := filepath.Base(fileMetadata.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		WriteErrorResponse(w, h.logger, http.StatusBadRequest, "Invalid filename")
		return
	}
	if err := os.MkdirAll(h.uploadDir, 0750); err != nil {
		loggr.Error("Couldn't create upload directory", "error", err)
		WriteErrorResponse(w, h.logger, http.StatusInternalServerError, "Storage error")
		return
	}

	path := filepath.Join(h.uploadDir, filename)
	destinationFileWriter, err := os.Create(path)
	if err != nil {
		loggr.Error("Couldn't create upload file", "error", err)
		WriteErrorResponse(w, h.logger, http.StatusInternalServerError, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		loggr.Error("Couldn't write upload file", "error", err)
		WriteErrorResponse(w, h.logger, http.StatusInternalServerError, "Write error")
		return
	}
	loggr.Info("Stored upload", "filename", filename)
	writeJsonResponse(w, h.logger, http.StatusOK, api.UploadResponse{Status: "success", DocId: filename, Path: path})
}

// Sync godoc
// @Summary      Queue ingestion of an uploaded file
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.SyncRequest    true  "Document id and uploaded filename"
// @Success      202      {object}  api.SyncResponse
// @Failure      400      {object}  api.ErrorResponse  "Invalid filename"
// @Failure      404      {object}  api.ErrorResponse  "File not uploaded"
// @Failure      500      {object}  api.ErrorResponse  "Queue unavailable"
// @Router       /sync [post]
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		return
	}
	defer r.Body.Close()

	var requestData api.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		WriteErrorResponse(w, h.logger, http.StatusBadRequest, "Bad Request")
		return
	}

	receipt, err := h.documents.SubmitSync(r.Context(), requestData.DocId, requestData.Filename)
	switch {
	case errors.Is(err, job.ErrInvalidFilename):
		WriteErrorResponse(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, job.ErrFileNotFound):
		WriteErrorResponse(w, h.logger, http.StatusNotFound, err.Error())
	case err != nil:
		h.logger.WithTrace(r.Context()).Error("Sync failed", "error", err)
		WriteErrorResponse(w, h.logger, http.StatusInternalServerError, "Could not queue sync job")
	default:
		writeJsonResponse(w, h.logger, http.StatusAccepted, adapter.ToSyncResponse(receipt))
	}
}

// ListDocuments godoc
// @Summary      List ingested documents
// @Tags         Documents
// @Produce      json
// @Success      200  {array}   jobModel.DocumentStatus
// @Failure      500  {object}  api.ErrorResponse
// @Router       /documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.documents.ListDocuments(r.Context())
	if err != nil {
		h.logger.WithTrace(r.Context()).Error("List documents failed", "error", err)
		WriteErrorResponse(w, h.logger, http.StatusInternalServerError, "Could not list documents")
		return
	}
	writeJsonResponse(w, h.logger, http.StatusOK, adapter.ToDocumentList(statuses))
}

// DeleteVectors godoc
// @Summary      Delete a document's vectors
// @Tags         Documents
// @Produce      json
// @Param        docId  path      string  true  "Document id"
// @Success      200    {object}  api.DeleteVectorResponse
// @Router       /vectors/{docId} [delete]
func (h *Handler) DeleteVectors(w http.ResponseWriter, r *http.Request) {
	docId := utils.GetChiURLParam(r, "docId")
	if docId == "" {
		WriteErrorResponse(w, h.logger, http.StatusBadRequest, "docId is required")
		return
	}
	ok := h.documents.DeleteDocument(r.Context(), docId)
	writeJsonResponse(w, h.logger, http.StatusOK, api.DeleteVectorResponse{Success: ok})
}

// NotificationSocket godoc
// @Summary      Job notifications
// @Description  Pushes every job update as a JSON text frame until the client disconnects.
// @Tags         Documents
// @Router       /ws/notifications [get]
func (h *Handler) NotificationSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())
	loggr := h.logger.WithTrace(r.Context())

	updates, err := h.notifications.Subscribe(ctx)
	if err != nil {
		loggr.Error("Could not subscribe to notifications", "error", err)
		conn.Close(websocket.StatusInternalError, "notifications unavailable")
		return
	}
	loggr.Info("Notification socket opened")

	for payload := range updates {
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			loggr.Info("Notification socket closed", "error", err)
			return
		}
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
