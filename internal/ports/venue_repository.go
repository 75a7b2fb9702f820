package ports

import (
	"context"

	"tour-route-service/internal/domain"
)

// Port: a boundary for retrieving venue records from a data source.
type VenueRepository interface {
	// ListGeocodedVenues returns all venues with usable coordinates.
	ListGeocodedVenues(ctx context.Context) ([]domain.CandidateVenue, error)
	// ListCandidateVenues returns geocoded venues not already attached to
	// the given tour. This is the gap-filling candidate pool.
	ListCandidateVenues(ctx context.Context, tourID int64) ([]domain.CandidateVenue, error)
}
