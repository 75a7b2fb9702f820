package ports

import (
	"context"

	"tour-route-service/internal/domain"
)

// RouteCache memoizes optimizer results per (tour, constraints) pair.
//
// Integration contract: every mutation path that changes a tour's stop set
// must call Invalidate for that tour, or stale results will be served until
// the TTL expires.
type RouteCache interface {
	// Get returns the cached result for the key, or nil on a miss or an
	// expired entry.
	Get(ctx context.Context, tourID int64, c domain.Constraints) (*domain.RouteResult, error)
	// Set stores the result, overwriting any existing entry for the key.
	Set(ctx context.Context, tourID int64, c domain.Constraints, result *domain.RouteResult) error
	// Invalidate removes all entries for the tour regardless of constraints.
	Invalidate(ctx context.Context, tourID int64) error
	// Clear wipes the cache. Administrative and testing use only.
	Clear(ctx context.Context) error
}
