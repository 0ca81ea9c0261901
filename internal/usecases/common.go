package usecases

import (
	"context"

	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/tenant"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

// invalidate drops cached reads built from table for the tenant in ctx.
// The change listener does the same on NOTIFY; this keeps the writer's own
// next read fresh without waiting for it.
func invalidate(ctx context.Context, cache interfaces.QueryCache, tables ...string) {
	if cache == nil {
		return
	}
	clientID, err := tenant.FromContext(ctx)
	if err != nil {
		return
	}
	deps := make([]string, 0, len(tables))
	for _, t := range tables {
		deps = append(deps, interfaces.CacheDep(clientID, t))
	}
	if err := cache.Invalidate(ctx, deps...); err != nil {
		logger.FromContext(ctx).Warn("Cache invalidation failed", zap.Strings("deps", deps), zap.Error(err))
	}
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
