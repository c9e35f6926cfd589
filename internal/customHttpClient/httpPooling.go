package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient returns a client sharing one keep-alive pool across the llm, embedding and stt providers.
// A zero timeout leaves streaming responses unbounded, cancellation then comes from the request context.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
