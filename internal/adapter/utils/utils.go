package utils

import (
	"net/http"

	_ "github.com/akolanti/HybridRAG/cmd/api/docs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/http-swagger"
)

func GetNewUUID() string {
	return uuid.New().String()
}

type RouterClient struct {
	Router *chi.Mux
}

func GetChiURLParam(request *http.Request, key string) string {
	return chi.URLParam(request, key)
}

// RoutePattern returns the matched chi pattern (e.g. /vectors/{docId}) so metrics are not labelled per id.
func RoutePattern(request *http.Request) string {
	if rctx := chi.RouteContext(request.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return request.URL.Path
}

// NewRouter returns a router with swagger and prometheus already mounted.
func NewRouter() RouterClient {
	router := chi.NewRouter()
	InitSwagger(router)
	//register prometheus
	router.Handle("/metrics", promhttp.Handler())

	return RouterClient{Router: router}
}

func InitSwagger(r *chi.Mux) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
