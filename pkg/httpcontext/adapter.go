// Package httpcontext bridges fasthttp request contexts to stdlib contexts
// carrying deadlines and request metadata.
package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/taskforge/backend/pkg/logger"
)

// Key identifies a context value set by the adapter.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyActorID    Key = "actor_id"
)

// Adapter converts a fasthttp.RequestCtx into a stdlib context bounded by
// the request timeout.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach derives a deadline-bound context from the request. The request id
// is taken from X-Request-ID or generated, echoed back on the response, and
// stored for log enrichment. The actor id, when present, rides along so
// lower layers can attribute writes without re-reading headers.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if actor := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Actor-ID"))); actor != "" {
		stdCtx = context.WithValue(stdCtx, KeyActorID, actor)
	}

	return stdCtx, cancel
}

// ActorID returns the actor id attached by Attach, or "".
func ActorID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	actor, _ := ctx.Value(KeyActorID).(string)
	return actor
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
		return header
	}
	return uuid.NewString()
}
