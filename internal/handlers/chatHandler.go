package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"strings"

	"github.com/akolanti/HybridRAG/internal/adapter"
	"github.com/akolanti/HybridRAG/internal/api"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/coder/websocket"
)

// endOfAudio is the text frame that closes an audio turn.
const endOfAudio = "END"

// Chat godoc
// @Summary      Ask a question
// @Description  Runs retrieval and generation and returns the full answer with its sources.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest    true  "User query"
// @Success      200      {object}  api.ChatResponse
// @Failure      400      {object}  api.ErrorResponse  "Empty or malformed query"
// @Failure      500      {object}  api.ErrorResponse  "Pipeline failure"
// @Router       /chat [post]
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	query, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), config.StreamTurnTimeout)
	defer cancel()

	result := h.chat.Ask(ctx, query)
	if result.ErrorMessage != "" {
		h.logger.WithTrace(ctx).Warn("Chat turn failed", "error", result.ErrorMessage)
		WriteErrorResponse(w, h.logger, http.StatusInternalServerError, result.ErrorMessage)
		return
	}
	writeJsonResponse(w, h.logger, http.StatusOK, adapter.ToChatResponse(result))
}

// ChatStream godoc
// @Summary      Ask a question, streamed
// @Description  Server-sent events. Each event is named after its type (thinking, context, answer, error, done) and carries the JSON stream event as data.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body      api.ChatRequest    true  "User query"
// @Success      200      {object}  streamModel.StreamEvent
// @Failure      400      {object}  api.ErrorResponse
// @Router       /chat/stream [post]
func (h *Handler) ChatStream(w http.ResponseWriter, r *http.Request) {
	query, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteErrorResponse(w, h.logger, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.StreamTurnTimeout)
	defer cancel()
	loggr := h.logger.WithTrace(ctx)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for event := range h.chat.HandleTextTurn(ctx, query) {
		data, err := json.Marshal(event)
		if err != nil {
			loggr.Error("Could not encode stream event", "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.EventType, data); err != nil {
			loggr.Info("Client went away mid stream", "error", err)
			return
		}
		flusher.Flush()
	}
}

// ChatSocket godoc
// @Summary      Voice and text chat over websocket
// @Description  Send binary audio frames followed by the text frame "END" for a voice turn, or any other text frame for a text turn. Every stream event is sent back as a JSON text frame. The socket stays open for further turns.
// @Tags         Chat
// @Router       /ws/chat [get]
func (h *Handler) ChatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(config.MaxAudioBufferBytes)

	ctx := r.Context()
	loggr := h.logger.WithTrace(ctx)
	loggr.Info("Chat socket opened")

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			loggr.Info("Chat socket closed", "status", websocket.CloseStatus(err))
			return
		}

		var events iter.Seq[streamModel.StreamEvent]
		switch {
		case msgType == websocket.MessageBinary:
			events = h.chat.HandleAudioTurn(ctx, audioFrames(ctx, conn, data))
		case string(data) == endOfAudio:
			continue
		default:
			events = h.chat.HandleTextTurn(ctx, string(data))
		}

		if err := writeEvents(ctx, conn, events); err != nil {
			loggr.Info("Could not write to chat socket", "error", err)
			return
		}
	}
}

// audioFrames yields binary frames until the END text frame. Once the consumer stops
// pulling (buffer full), remaining frames are read and discarded so the turn still ends on END.
func audioFrames(ctx context.Context, conn *websocket.Conn, first []byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		pulling := yield(first)
		for {
			msgType, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if msgType == websocket.MessageText {
				if strings.TrimSpace(string(data)) == endOfAudio {
					return
				}
				continue
			}
			if pulling {
				pulling = yield(data)
			}
		}
	}
}

func writeEvents(ctx context.Context, conn *websocket.Conn, events iter.Seq[streamModel.StreamEvent]) error {
	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode stream event: %w", err)
		}
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) decodeChatRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !validateContext(r.Context(), h.logger) {
		return "", false
	}
	defer r.Body.Close()

	var requestData api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || strings.TrimSpace(requestData.Query) == "" {
		h.logger.WithTrace(r.Context()).Warn("Bad chat request", "error", err)
		WriteErrorResponse(w, h.logger, http.StatusBadRequest, "query is required")
		return "", false
	}
	return requestData.Query, true
}
