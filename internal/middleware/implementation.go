package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/akolanti/HybridRAG/internal/adapter/utils"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/handlers"
)

const traceHeader = "X-Trace-Id"

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	if req == nil {
		//this is a bad request
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get(traceHeader)
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(traceHeader, trace)
	re.writer.Header().Set(traceHeader, trace)
	re.req = req.WithContext(ctx)
	return re
}

func (c *Chain) rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !c.limiter.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded",
		}
	}
	return re
}

func handleBadRequest(re requestResponseStruct) {
	remote := ""
	if re.req != nil {
		remote = re.req.RemoteAddr
	}
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", remote)
	handlers.WriteErrorResponse(re.writer, re.logger, re.badRequest.httpCode, re.badRequest.errorMessage)
}
