package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), errorMeta(err)))
}

func (h baseHandler) respondInvalid(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), message, nil))
}

// actorID returns the authenticated actor set by the middleware, replying
// 400 when the header never made it through.
func (h baseHandler) actorID(ctx *fasthttp.RequestCtx) string {
	actor := string(ctx.Request.Header.Peek("X-Actor-ID"))
	if actor == "" {
		h.respondInvalid(ctx, "missing actor id")
	}
	return actor
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeDuplicate):
		return http.StatusConflict, string(domain.ErrCodeDuplicate)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeCircular):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeCircular)
	case domain.IsDomainError(err, domain.ErrCodeAssignment):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeAssignment)
	case domain.IsDomainError(err, domain.ErrCodeRule):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeRule)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

// errorMeta surfaces the machine-readable parts of a domain error so API
// clients can react to rule codes without parsing messages.
func errorMeta(err error) interface{} {
	var domErr *domain.Error
	if !errors.As(err, &domErr) {
		return nil
	}
	meta := map[string]string{}
	if domErr.Rule != "" {
		meta["rule"] = domErr.Rule
	}
	if domErr.Entity != "" {
		meta["entity"] = domErr.Entity
	}
	if domErr.Field != "" {
		meta["field"] = domErr.Field
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
