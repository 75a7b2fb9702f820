package cache

import (
	"context"

	"tour-route-service/internal/domain"
)

// NoopRouteCache disables memoization: every Get is a miss and every write
// is discarded. Useful in tests and for cache-disabled deployments.
type NoopRouteCache struct{}

func (NoopRouteCache) Get(ctx context.Context, tourID int64, c domain.Constraints) (*domain.RouteResult, error) {
	return nil, nil
}

func (NoopRouteCache) Set(ctx context.Context, tourID int64, c domain.Constraints, result *domain.RouteResult) error {
	return nil
}

func (NoopRouteCache) Invalidate(ctx context.Context, tourID int64) error { return nil }

func (NoopRouteCache) Clear(ctx context.Context) error { return nil }
