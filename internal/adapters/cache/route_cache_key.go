package cache

import (
	"fmt"
	"time"

	"tour-route-service/internal/domain"
)

// DefaultTTL is how long a cached route result stays servable.
const DefaultTTL = time.Hour

func routeKey(tourID int64, c domain.Constraints) string {
	return fmt.Sprintf("route:%d:%s", tourID, c.Hash())
}

func tourKeyPattern(tourID int64) string {
	return fmt.Sprintf("route:%d:*", tourID)
}
