package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/HybridRAG/internal/adapter/utils"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/handlers"
	"github.com/akolanti/HybridRAG/internal/middleware"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	http   *http.Server
	logger *logger_i.Logger
}

// Routes mounts every endpoint behind the middleware chain.
func Routes(h *handlers.Handler, chain *middleware.Chain) http.Handler {
	r := utils.NewRouter()

	r.Router.Group(func(api chi.Router) {
		api.Use(chain.Handler)

		api.Get("/health", h.Health)
		api.Post("/chat", h.Chat)
		api.Post("/chat/stream", h.ChatStream)
		api.Get("/ws/chat", h.ChatSocket)

		api.Post("/upload", h.Upload)
		api.Post("/sync", h.Sync)
		api.Get("/documents", h.ListDocuments)
		api.Delete("/vectors/{docId}", h.DeleteVectors)
		api.Get("/ws/notifications", h.NotificationSocket)
	})
	return r.Router
}

func NewServer(listenAddr string, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:         listenAddr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("Server"),
	}
}

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Server is listening at", "address", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "error", err, "addr", s.http.Addr)
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.http.SetKeepAlivesEnabled(false)
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Could not shutdown gracefully", "error", err)
		return err
	}
	s.logger.Info("Server stopped")
	return nil
}
