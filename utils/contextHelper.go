package utils

import (
	"context"

	"github.com/google/uuid"
	"github.com/mmdatafocus/fish_backend/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

// EnsureCorrelationId returns ctx unchanged when it already carries an id,
// otherwise attaches a fresh one.
func EnsureCorrelationId(ctx context.Context) (context.Context, string) {
	if cid, ok := GetCorrelationIdFromContext(ctx); ok && cid != "" {
		return ctx, cid
	}
	cid := uuid.NewString()
	return SetCorrelationIdInContext(ctx, cid), cid
}
