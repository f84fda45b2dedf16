package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RequireActor rejects mutating requests that do not identify the acting
// user. The actor ends up in the task change log as changed_by, so an
// anonymous write would produce an unattributable audit trail.
func RequireActor(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			actor := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Actor-ID")))
			if actor == "" {
				logger.Warn("rejected request without actor id",
					zap.ByteString("method", ctx.Method()),
					zap.ByteString("path", ctx.Path()))
				ctx.SetStatusCode(fasthttp.StatusBadRequest)
				ctx.SetBodyString(`{"status":"error","error":{"code":"INVALID","message":"missing X-Actor-ID header"}}`)
				ctx.Response.Header.SetContentType("application/json")
				return
			}
			ctx.Request.Header.Set("X-Actor-ID", actor)
			next(ctx)
		}
	}
}
