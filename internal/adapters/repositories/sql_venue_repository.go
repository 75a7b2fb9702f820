package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
)

// Postgres-backed venue repository. Placeholders use $n; everything else
// matches the SQLite adapter.
type SQLVenueRepository struct{ DB *sql.DB }

func NewSQLVenueRepository(db *sql.DB) *SQLVenueRepository {
	return &SQLVenueRepository{DB: db}
}

func (s *SQLVenueRepository) ListGeocodedVenues(ctx context.Context) (venues []domain.CandidateVenue, err error) {
	defer obs.Time(ctx, "repo.list_geocoded_venues")(&err)

	if s.DB == nil {
		return nil, errors.New("sql venue repository: DB is nil")
	}

	query := `
	SELECT
		venue_id,
		name,
		lat,
		lon,
		capacity,
		region,
		venue_type,
		genres
	FROM venues
	WHERE lat IS NOT NULL AND lon IS NOT NULL
	ORDER BY venue_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list geocoded venues: query venues table: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

func (s *SQLVenueRepository) ListCandidateVenues(ctx context.Context, tourID int64) (venues []domain.CandidateVenue, err error) {
	defer obs.Time(ctx, "repo.list_candidate_venues")(&err)

	if s.DB == nil {
		return nil, errors.New("sql venue repository: DB is nil")
	}

	query := `
	SELECT
		venue_id,
		name,
		lat,
		lon,
		capacity,
		region,
		venue_type,
		genres
	FROM venues
	WHERE lat IS NOT NULL AND lon IS NOT NULL
	  AND venue_id NOT IN (
		SELECT venue_id FROM tour_stops WHERE tour_id = $1
	  )
	ORDER BY venue_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list candidate venues: query venues table: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}
