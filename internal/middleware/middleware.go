package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/HybridRAG/internal/adapter/utils"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Chain runs trace injection and per-IP rate limiting in front of every handler and records request metrics.
type Chain struct {
	limiter *IPRateLimiter
	logger  *logger_i.Logger
}

func NewChain(perSecond float64, burst int) *Chain {
	return &Chain{
		limiter: NewIPRateLimiter(rate.Limit(perSecond), burst),
		logger:  logger_i.NewLogger("middleware"),
	}
}

func (c *Chain) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := c.processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(utils.RoutePattern(re.req), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

// Handler adapts Wrap for chi's Use.
func (c *Chain) Handler(next http.Handler) http.Handler {
	return c.Wrap(next.ServeHTTP)
}

func (c *Chain) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = c.logger
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	return c.rateLimiter(re)
}
