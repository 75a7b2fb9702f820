package ports

import (
	"context"

	"tour-route-service/internal/domain"
)

// Port: a boundary for tour and stop persistence.
type TourRepository interface {
	// GetTour returns the tour record, or domain.ErrNotFound.
	GetTour(ctx context.Context, tourID int64) (*domain.Tour, error)
	// ListStops returns the tour's persisted stop records in sequence order.
	ListStops(ctx context.Context, tourID int64) ([]domain.TourStop, error)
	// ListFixedPoints returns the tour's stops joined with venue
	// coordinates, as optimizer input. Ungeocoded venues yield points with
	// nil coordinates; the engine skips them and reports the ids.
	ListFixedPoints(ctx context.Context, tourID int64) ([]domain.FixedPoint, error)
	// ApplyWritePlan persists a normalizer write plan atomically: stop
	// updates, inserts, and the tour-level aggregate metrics.
	ApplyWritePlan(ctx context.Context, tourID int64, plan *domain.WritePlan) error
}

// PreferenceSource supplies per-artist optimization preferences.
type PreferenceSource interface {
	// ArtistConstraints returns the artist's persisted preferences as
	// constraints, or a zero value when none are stored.
	ArtistConstraints(ctx context.Context, artistID int64) (domain.Constraints, error)
}
